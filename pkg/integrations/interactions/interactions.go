package interactions

import "context"

// Partner is one side of an interaction.
type Partner struct {
	ID         string `json:"id" bson:"id"`
	DataSource string `json:"data_source" bson:"data_source"`
	Kind       string `json:"kind" bson:"kind"`
	Label      string `json:"label" bson:"label"`
}

// Interaction joins two partners. Evidence is free text (a PubMed id, a
// database name).
type Interaction struct {
	A        Partner `json:"a"`
	B        Partner `json:"b"`
	Evidence string  `json:"evidence,omitempty"`
}

// Source looks up interaction partners.
type Source interface {
	// Partners returns the distinct partners of the entity (dataSource, id)
	// in a stable order. No partners is not an error.
	Partners(ctx context.Context, dataSource, id string) ([]Partner, error)
}

func dedupe(in []Partner) []Partner {
	seen := make(map[[2]string]bool, len(in))
	out := in[:0]
	for _, p := range in {
		k := [2]string{p.DataSource, p.ID}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}
