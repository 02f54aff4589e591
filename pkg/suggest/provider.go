package suggest

import (
	"context"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/layout"
)

// Provider proposes spokes for a hub from one external data source.
type Provider interface {
	// CanSuggest reports whether the provider applies to hub. It must be
	// pure: no I/O and the same answer for the same hub.
	CanSuggest(hub entity.Entity) bool

	// Suggest queries the upstream and returns spoke drafts in the order
	// they should be laid out. Failures are *errors.Error values.
	Suggest(ctx context.Context, hub entity.Entity) ([]entity.SpokeDraft, error)
}

// Attributor is implemented by providers that credit their data source.
// The string is copied onto the hub node of every fragment they produce.
type Attributor interface {
	Attribution() string
}

// AttributionOf returns p's attribution, or "".
func AttributionOf(p Provider) string {
	if a, ok := p.(Attributor); ok {
		return a.Attribution()
	}
	return ""
}

// BuildFragment lays out drafts around a copy of hub.
func BuildFragment(hub entity.Entity, drafts []entity.SpokeDraft, attribution string) layout.Fragment {
	hubNode := layout.NewNode(hub)
	hubNode.Attribution = attribution

	organism := hub.OrganismOrDefault()
	spokes := make([]layout.Node, len(drafts))
	for i, d := range drafts {
		spokes[i] = layout.NewNode(d.Entity(organism))
	}
	return layout.Radial(hubNode, spokes)
}
