package kegg

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/matzehuels/pathloom/pkg/cache"
	"github.com/matzehuels/pathloom/pkg/integrations"
)

// DefaultBaseURL is the public KEGG REST endpoint.
const DefaultBaseURL = "https://rest.kegg.jp"

// maxListBatch is the number of entries KEGG accepts in one list request.
const maxListBatch = 10

// Link is one row of a conv or link response.
type Link struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Client provides access to the KEGG REST API.
// All methods are safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a KEGG client. An empty baseURL selects [DefaultBaseURL].
func NewClient(backend cache.Cache, baseURL string, cacheTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(backend, "kegg", cacheTTL, nil),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Conv converts source (an entry such as "ncbi-geneid:8854") into the
// target database or organism ("hsa").
func (c *Client) Conv(ctx context.Context, target, source string, refresh bool) ([]Link, error) {
	return c.pairs(ctx, "conv", target, source, refresh)
}

// Link returns the entries of target linked from source, for example
// Link(ctx, "enzyme", "hsa:8854") or Link(ctx, "hsa", "ec:1.2.1.36").
func (c *Client) Link(ctx context.Context, target, source string, refresh bool) ([]Link, error) {
	return c.pairs(ctx, "link", target, source, refresh)
}

func (c *Client) pairs(ctx context.Context, op, target, source string, refresh bool) ([]Link, error) {
	key := op + "/" + target + "/" + source

	var links []Link
	err := c.Cached(ctx, key, refresh, &links, func() error {
		text, err := c.GetText(ctx, integrations.JoinURL(c.baseURL, op, target, source))
		if errors.Is(err, integrations.ErrNotFound) {
			links = nil
			return nil
		}
		if err != nil {
			return err
		}
		links = parseLinks(text)
		return nil
	})
	return links, err
}

// List returns the title of each entry, keyed by entry identifier.
// Entries KEGG does not know are absent from the result.
func (c *Client) List(ctx context.Context, entries []string, refresh bool) (map[string]string, error) {
	titles := make(map[string]string, len(entries))
	for start := 0; start < len(entries); start += maxListBatch {
		batch := entries[start:min(start+maxListBatch, len(entries))]
		key := "list/" + strings.Join(batch, "+")

		var part map[string]string
		err := c.Cached(ctx, key, refresh, &part, func() error {
			text, err := c.GetText(ctx, integrations.JoinURL(c.baseURL, "list", strings.Join(batch, "+")))
			if errors.Is(err, integrations.ErrNotFound) {
				part = map[string]string{}
				return nil
			}
			if err != nil {
				return err
			}
			part = parseList(text)
			return nil
		})
		if err != nil {
			return nil, err
		}
		for k, v := range part {
			titles[k] = v
		}
	}
	return titles, nil
}

func parseLinks(text string) []Link {
	var out []Link
	for _, fields := range rows(text) {
		if len(fields) < 2 {
			continue
		}
		out = append(out, Link{From: fields[0], To: fields[1]})
	}
	return out
}

// parseList keeps the last column: gene listings carry extra type and
// position columns before the title.
func parseList(text string) map[string]string {
	out := make(map[string]string)
	for _, fields := range rows(text) {
		if len(fields) < 2 {
			continue
		}
		out[fields[0]] = fields[len(fields)-1]
	}
	return out
}

func rows(text string) [][]string {
	var out [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		out = append(out, fields)
	}
	return out
}
