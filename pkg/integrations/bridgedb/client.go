package bridgedb

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/matzehuels/pathloom/pkg/cache"
	"github.com/matzehuels/pathloom/pkg/integrations"
)

// DefaultBaseURL is the public BridgeDb web service.
const DefaultBaseURL = "https://webservice.bridgedb.org"

// Xref is one cross-reference: an identifier and the name of its data source
// as BridgeDb reports it.
type Xref struct {
	ID         string `json:"id"`
	DataSource string `json:"data_source"`
}

// Client provides access to the BridgeDb REST service.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a BridgeDb client. An empty baseURL selects [DefaultBaseURL].
func NewClient(backend cache.Cache, baseURL string, cacheTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(backend, "bridgedb", cacheTTL, nil),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Xrefs returns the cross-references of id (in the data source with system
// code sourceCode) restricted to targetCode. An empty targetCode returns
// cross-references in every data source.
func (c *Client) Xrefs(ctx context.Context, organism, sourceCode, id, targetCode string, refresh bool) ([]Xref, error) {
	url := integrations.JoinURL(c.baseURL,
		integrations.PathEscape(organism), "xrefs",
		integrations.PathEscape(sourceCode), integrations.PathEscape(id))
	if targetCode != "" {
		url += "?dataSource=" + integrations.URLEncode(targetCode)
	}

	key := organism + "/" + sourceCode + "/" + id + "/" + targetCode
	var xrefs []Xref
	err := c.Cached(ctx, key, refresh, &xrefs, func() error {
		text, err := c.GetText(ctx, url)
		if errors.Is(err, integrations.ErrNotFound) {
			xrefs = nil
			return nil
		}
		if err != nil {
			return err
		}
		xrefs = parseXrefs(text)
		return nil
	})
	return xrefs, err
}

func parseXrefs(text string) []Xref {
	var out []Xref
	for _, line := range strings.Split(text, "\n") {
		id, ds, ok := strings.Cut(strings.TrimSpace(line), "\t")
		if !ok || id == "" {
			continue
		}
		out = append(out, Xref{ID: strings.TrimSpace(id), DataSource: strings.TrimSpace(ds)})
	}
	return out
}
