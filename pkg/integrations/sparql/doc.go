// Package sparql provides a minimal SPARQL 1.1 protocol client for SELECT
// queries.
//
// Queries are sent as GET requests and answered in the SPARQL JSON results
// format. Only variable bindings are exposed; literal datatypes and
// language tags are dropped.
//
//	c := sparql.NewClient(backend, "https://example.org/sparql", time.Hour)
//	res, err := c.Select(ctx, `SELECT ?o WHERE { ?s ?p ?o } LIMIT 10`, false)
//	for _, row := range res.Rows() {
//	    fmt.Println(row["o"])
//	}
package sparql
