package interactions

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// DBRunner executes a Cypher query and returns a fully buffered result.
// It is satisfied by [Neo4jExecutor] and by fakes in tests.
type DBRunner interface {
	Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)
}

// Neo4jExecutor runs queries through the official driver.
type Neo4jExecutor struct {
	Driver neo4j.DriverWithContext
	DBName string
}

// NewNeo4jExecutor creates a driver for uri with basic auth.
func NewNeo4jExecutor(uri, username, password, dbName string) (*Neo4jExecutor, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create Neo4j driver: %w", err)
	}
	return &Neo4jExecutor{Driver: driver, DBName: dbName}, nil
}

// Verify checks connectivity.
func (e *Neo4jExecutor) Verify(ctx context.Context) error {
	return e.Driver.VerifyConnectivity(ctx)
}

// Run implements [DBRunner].
func (e *Neo4jExecutor) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, e.Driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(e.DBName),
	)
	if err != nil {
		return nil, fmt.Errorf("error executing neo4j query: %w", err)
	}
	return result, nil
}

// Close closes the driver.
func (e *Neo4jExecutor) Close(ctx context.Context) error {
	return e.Driver.Close(ctx)
}

const partnersQuery = `
MATCH (a:Entity {dataSource: $dataSource, id: $id})-[:INTERACTS_WITH]-(b:Entity)
RETURN DISTINCT b.id AS id, b.dataSource AS dataSource, b.kind AS kind, b.label AS label
ORDER BY label, id`

const mergeQuery = `
MERGE (a:Entity {dataSource: $aSource, id: $aID})
  SET a.kind = $aKind, a.label = $aLabel
MERGE (b:Entity {dataSource: $bSource, id: $bID})
  SET b.kind = $bKind, b.label = $bLabel
MERGE (a)-[r:INTERACTS_WITH]->(b)
  SET r.evidence = $evidence`

// Graph is a Neo4j-backed interaction source.
type Graph struct {
	runner DBRunner
}

// NewGraph creates a Graph over runner.
func NewGraph(runner DBRunner) *Graph {
	return &Graph{runner: runner}
}

// Partners implements [Source].
func (g *Graph) Partners(ctx context.Context, dataSource, id string) ([]Partner, error) {
	res, err := g.runner.Run(ctx, partnersQuery, map[string]any{
		"dataSource": dataSource,
		"id":         id,
	})
	if err != nil {
		return nil, err
	}

	out := make([]Partner, 0, len(res.Records))
	for _, rec := range res.Records {
		p := Partner{
			ID:         stringField(rec, "id"),
			DataSource: stringField(rec, "dataSource"),
			Kind:       kindOrUnknown(stringField(rec, "kind")),
			Label:      stringField(rec, "label"),
		}
		if p.ID == "" && p.Label == "" {
			continue
		}
		out = append(out, p)
	}
	return dedupe(out), nil
}

// Add merges an interaction into the graph.
func (g *Graph) Add(ctx context.Context, in Interaction) error {
	_, err := g.runner.Run(ctx, mergeQuery, map[string]any{
		"aSource": in.A.DataSource, "aID": in.A.ID, "aKind": kindOrUnknown(in.A.Kind), "aLabel": in.A.Label,
		"bSource": in.B.DataSource, "bID": in.B.ID, "bKind": kindOrUnknown(in.B.Kind), "bLabel": in.B.Label,
		"evidence": in.Evidence,
	})
	return err
}

func stringField(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
