package wikipathways

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/matzehuels/pathloom/pkg/cache"
	"github.com/matzehuels/pathloom/pkg/integrations"
)

// DefaultBaseURL is the WikiPathways web service.
const DefaultBaseURL = "https://webservice.wikipathways.org"

// Participant is one side of an interaction.
type Participant struct {
	Role string `json:"role"` // "left" or "right"
	Name string `json:"name"`
}

// Client provides access to the WikiPathways web service.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a WikiPathways client. An empty baseURL selects [DefaultBaseURL].
func NewClient(backend cache.Cache, baseURL string, cacheTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(backend, "wikipathways", cacheTTL, nil),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// FindInteractions returns the participants of all interactions matching query,
// in document order. Duplicates are kept.
func (c *Client) FindInteractions(ctx context.Context, query string, refresh bool) ([]Participant, error) {
	url := integrations.JoinURL(c.baseURL, "findInteractions") + "?query=" + integrations.URLEncode(query)

	var participants []Participant
	err := c.Cached(ctx, "interactions/"+query, refresh, &participants, func() error {
		body, err := c.GetText(ctx, url)
		if err != nil {
			return err
		}
		participants, err = parseInteractions(body)
		return err
	})
	return participants, err
}

func parseInteractions(body string) ([]Participant, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integrations.ErrMalformed, err)
	}

	var out []Participant
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if localName(goquery.NodeName(s)) != "name" {
			return
		}
		role := strings.TrimSpace(s.Text())
		if role != "left" && role != "right" {
			return
		}
		value := s.NextFiltered("*")
		if value.Length() == 0 {
			return
		}
		if name := strings.TrimSpace(value.Text()); name != "" {
			out = append(out, Participant{Role: role, Name: name})
		}
	})
	return out, nil
}

func localName(tag string) string {
	if _, name, ok := strings.Cut(tag, ":"); ok {
		return name
	}
	return tag
}
