package openphacts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/pathloom/pkg/cache"
	"github.com/matzehuels/pathloom/pkg/integrations"
)

// DefaultBaseURL is the Open PHACTS API.
const DefaultBaseURL = "https://beta.openphacts.org"

// UniProtPrefix is the URI prefix of UniProt entries.
const UniProtPrefix = "http://purl.uniprot.org/uniprot/"

// ChemSpiderPrefix is the URI prefix of ChemSpider compounds.
const ChemSpiderPrefix = "http://rdf.chemspider.com/"

// Target is a pharmacology target.
type Target struct {
	URI     string  `json:"uri"`
	Title   string  `json:"title"`
	Matches []Match `json:"matches,omitempty"`
}

// Match is an exact match of a target in another database.
type Match struct {
	URI      string `json:"uri"`
	Mnemonic string `json:"mnemonic,omitempty"`
}

// UniProtID returns the accession of a UniProt match, or "".
func (m Match) UniProtID() string {
	if !strings.HasPrefix(m.URI, UniProtPrefix) {
		return ""
	}
	return m.URI[strings.LastIndex(m.URI, "/")+1:]
}

// Credentials authenticate API requests.
type Credentials struct {
	AppID  string
	AppKey string
}

// Client provides access to the Open PHACTS API.
type Client struct {
	*integrations.Client
	baseURL string
	creds   Credentials
}

// NewClient creates an Open PHACTS client. An empty baseURL selects [DefaultBaseURL].
func NewClient(backend cache.Cache, baseURL string, creds Credentials, cacheTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(backend, "openphacts", cacheTTL, map[string]string{"Accept": "application/json"}),
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
	}
}

// CompoundTargets returns the distinct targets of the compound at compoundURI,
// in first-seen order.
func (c *Client) CompoundTargets(ctx context.Context, compoundURI string, refresh bool) ([]Target, error) {
	url := fmt.Sprintf("%s/compound/pharmacology/pages?uri=%s&app_id=%s&app_key=%s&_format=json",
		c.baseURL,
		integrations.URLEncode(compoundURI),
		integrations.URLEncode(c.creds.AppID),
		integrations.URLEncode(c.creds.AppKey))

	var targets []Target
	err := c.Cached(ctx, "pharmacology/"+compoundURI, refresh, &targets, func() error {
		var resp pharmacologyResponse
		if err := c.Get(ctx, url, &resp); err != nil {
			return err
		}
		targets = resp.targets()
		return nil
	})
	return targets, err
}

type pharmacologyResponse struct {
	Result struct {
		Items []struct {
			HasAssay struct {
				HasTarget targetNode `json:"hasTarget"`
			} `json:"hasAssay"`
		} `json:"items"`
	} `json:"result"`
}

type targetNode struct {
	About      string    `json:"_about"`
	Title      string    `json:"title"`
	ExactMatch matchList `json:"exactMatch"`
}

func (r pharmacologyResponse) targets() []Target {
	seen := make(map[string]bool)
	var out []Target
	for _, item := range r.Result.Items {
		t := item.HasAssay.HasTarget
		if t.About == "" || seen[t.About] {
			continue
		}
		seen[t.About] = true
		out = append(out, Target{URI: t.About, Title: t.Title, Matches: t.ExactMatch})
	}
	return out
}

// matchList accepts exactMatch as a single URI, an object, or an array of either.
type matchList []Match

func (l *matchList) UnmarshalJSON(data []byte) error {
	var many []json.RawMessage
	if err := json.Unmarshal(data, &many); err != nil {
		many = []json.RawMessage{data}
	}
	*l = (*l)[:0]
	for _, raw := range many {
		var uri string
		if err := json.Unmarshal(raw, &uri); err == nil {
			*l = append(*l, Match{URI: uri})
			continue
		}
		var obj struct {
			About    string `json:"_about"`
			Mnemonic string `json:"mnemonic"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return fmt.Errorf("%w: exactMatch: %v", integrations.ErrMalformed, err)
		}
		*l = append(*l, Match{URI: obj.About, Mnemonic: obj.Mnemonic})
	}
	return nil
}
