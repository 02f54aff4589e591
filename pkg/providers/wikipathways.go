package providers

import (
	"context"
	"strings"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/errors"
	"github.com/matzehuels/pathloom/pkg/integrations/wikipathways"
)

// WikiPathwaysAttribution credits WikiPathways on fragments.
const WikiPathwaysAttribution = "WikiPathways (http://www.wikipathways.org)"

// WikiPathwaysClient is the subset of *wikipathways.Client the provider uses.
type WikiPathwaysClient interface {
	FindInteractions(ctx context.Context, query string, refresh bool) ([]wikipathways.Participant, error)
}

// WikiPathways suggests the interaction partners of the hub found in
// WikiPathways by label search. Partners only have labels.
type WikiPathways struct {
	base
	client WikiPathwaysClient
}

// NewWikiPathways creates the provider.
func NewWikiPathways(c WikiPathwaysClient, opts Options) *WikiPathways {
	return &WikiPathways{base: newBase("WikiPathways", WikiPathwaysAttribution, opts), client: c}
}

// CanSuggest accepts every hub.
func (p *WikiPathways) CanSuggest(entity.Entity) bool { return true }

// Suggest searches by the hub label. Participants equal to the label,
// ignoring case, are the hub itself and are skipped.
func (p *WikiPathways) Suggest(ctx context.Context, hub entity.Entity) ([]entity.SpokeDraft, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	label := strings.TrimSpace(hub.Label)
	if label == "" {
		return nil, errors.New(errors.ErrCodeUnsupported, "WikiPathways searches by label and %s has none", hub.Key())
	}

	participants, err := p.client.FindInteractions(ctx, label, p.opts.Refresh)
	if err != nil {
		return nil, p.fail(ctx, err)
	}

	var d drafts
	for _, part := range participants {
		if strings.EqualFold(part.Name, label) {
			continue
		}
		d.add(entity.LabelOnly(part.Name, entity.Other, entity.Unknown))
	}
	return d.list(), nil
}
