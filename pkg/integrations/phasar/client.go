package phasar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/matzehuels/pathloom/pkg/cache"
	"github.com/matzehuels/pathloom/pkg/integrations"
)

// DefaultBaseURL is the Phasar connection service.
const DefaultBaseURL = "http://www.bioinformatics.nl/biometa/webservice/connections"

// Identifier types reported by Phasar.
const (
	TypeEnzyme   = "enzyme"
	TypeCompound = "compound"
)

// Identifier is one suggested connection. Enzyme names carry an "EC."
// prefix; compound names are bare KEGG compound identifiers.
type Identifier struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// EnzymeNumber returns the EC number of an enzyme identifier.
func (i Identifier) EnzymeNumber() string {
	if len(i.Name) > 3 {
		return i.Name[3:]
	}
	return i.Name
}

// Client provides access to the Phasar web service.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Phasar client. An empty baseURL selects [DefaultBaseURL].
func NewClient(backend cache.Cache, baseURL string, cacheTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(backend, "phasar", cacheTTL, nil),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Suggestions returns the connections of the enzyme with EC number ec.
func (c *Client) Suggestions(ctx context.Context, ec string, refresh bool) ([]Identifier, error) {
	url := integrations.JoinURL(c.baseURL, "getsuggestion", "EC."+ec+":")

	var ids []Identifier
	err := c.Cached(ctx, "suggestion/"+ec, refresh, &ids, func() error {
		body, err := c.GetText(ctx, url)
		if err != nil {
			return err
		}
		ids, err = parseIdentifiers(body)
		return err
	})
	return ids, err
}

func parseIdentifiers(body string) ([]Identifier, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integrations.ErrMalformed, err)
	}

	var out []Identifier
	doc.Find("identifier").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		typ, _ := s.Attr("type")
		if name == "" || (typ != TypeEnzyme && typ != TypeCompound) {
			return
		}
		out = append(out, Identifier{Name: strings.TrimSpace(name), Type: typ})
	})
	return out, nil
}
