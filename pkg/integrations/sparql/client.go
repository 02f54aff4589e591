package sparql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/pathloom/pkg/cache"
	"github.com/matzehuels/pathloom/pkg/integrations"
)

// ContentType is the media type of SPARQL JSON results.
const ContentType = "application/sparql-results+json"

// Term is one bound RDF term.
type Term struct {
	Type  string `json:"type"` // "uri", "literal", "bnode"
	Value string `json:"value"`
}

// Results is a decoded SELECT response.
type Results struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]Term `json:"bindings"`
	} `json:"results"`
}

// Rows flattens the bindings into variable to value maps.
// Unbound variables are absent.
func (r *Results) Rows() []map[string]string {
	rows := make([]map[string]string, 0, len(r.Results.Bindings))
	for _, b := range r.Results.Bindings {
		row := make(map[string]string, len(b))
		for k, t := range b {
			row[k] = t.Value
		}
		rows = append(rows, row)
	}
	return rows
}

// Client queries one SPARQL endpoint.
type Client struct {
	*integrations.Client
	endpoint string
}

// NewClient creates a client for endpoint.
func NewClient(backend cache.Cache, endpoint string, cacheTTL time.Duration) *Client {
	return &Client{
		Client:   integrations.NewClient(backend, "sparql", cacheTTL, map[string]string{"Accept": ContentType}),
		endpoint: strings.TrimRight(endpoint, "/"),
	}
}

// Endpoint returns the endpoint URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Select runs a SELECT query.
func (c *Client) Select(ctx context.Context, query string, refresh bool) (*Results, error) {
	url := c.endpoint + "?query=" + integrations.URLEncode(query)
	key := cache.Hash([]byte(c.endpoint + "\n" + query))

	var res Results
	err := c.Cached(ctx, key, refresh, &res, func() error {
		if err := c.Get(ctx, url, &res); err != nil {
			return fmt.Errorf("sparql %s: %w", c.endpoint, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Literal quotes s as a SPARQL string literal.
func Literal(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)
	return `"` + r.Replace(s) + `"`
}

// IRI wraps s in angle brackets. Characters that are not allowed in IRIs
// are percent-encoded.
func IRI(s string) string {
	r := strings.NewReplacer("<", "%3C", ">", "%3E", `"`, "%22", " ", "%20", "{", "%7B", "}", "%7D", "`", "%60", `\`, "%5C", "^", "%5E", "|", "%7C")
	return "<" + r.Replace(s) + ">"
}
