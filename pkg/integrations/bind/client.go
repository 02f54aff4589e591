package bind

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/matzehuels/pathloom/pkg/cache"
	"github.com/matzehuels/pathloom/pkg/integrations"
)

// ReturnFormat asks for interaction records as GI pairs.
const ReturnFormat = "gipair"

// Record columns in a gipair line.
const (
	colLabel  = 6
	colGI     = 8
	minFields = colGI + 1
)

// Record is one interaction partner found for the queried identifier.
type Record struct {
	GI    string `json:"gi"`
	Label string `json:"label"`
}

// Client provides access to a BINDSOAP endpoint.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a BIND client for the service at baseURL.
func NewClient(backend cache.Cache, baseURL string, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "bind", cacheTTL, map[string]string{"Accept": "text/xml"}),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// IDSearch returns the interaction partners of id, given in one of BIND's
// identifier formats (gi, uniprot, genbank, ...).
func (c *Client) IDSearch(ctx context.Context, id, format string, refresh bool) ([]Record, error) {
	q := url.Values{}
	q.Set("method", "idSearch")
	q.Set("id", id)
	q.Set("format", format)
	q.Set("returnFormat", ReturnFormat)
	u := c.baseURL + "?" + q.Encode()

	var records []Record
	err := c.Cached(ctx, "idsearch/"+format+"/"+id, refresh, &records, func() error {
		body, err := c.GetText(ctx, u)
		if err != nil {
			return err
		}
		records, err = parseResponse(body)
		return err
	})
	return records, err
}

// parseResponse extracts the records from a SOAP envelope. The first
// record line is a header.
func parseResponse(body string) ([]Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integrations.ErrMalformed, err)
	}

	if fault := element(doc, "faultstring"); fault.Length() > 0 {
		return nil, fmt.Errorf("%w: bind fault: %s", integrations.ErrNetwork, strings.TrimSpace(fault.Text()))
	}
	recs := element(doc, "records")
	if recs.Length() == 0 {
		return nil, fmt.Errorf("%w: no records element", integrations.ErrMalformed)
	}

	lines := strings.FieldsFunc(recs.Text(), func(r rune) bool { return r == '\n' || r == '\r' })
	out := []Record{}
	for i, line := range lines {
		if i == 0 {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < minFields {
			continue
		}
		gi := strings.TrimSpace(fields[colGI])
		if gi == "" {
			continue
		}
		out = append(out, Record{GI: gi, Label: strings.TrimSpace(fields[colLabel])})
	}
	return out, nil
}

// element finds the first element named local, with or without a
// namespace prefix.
func element(doc *goquery.Document, local string) *goquery.Selection {
	return doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		name := goquery.NodeName(s)
		return name == local || strings.HasSuffix(name, ":"+local)
	}).First()
}
