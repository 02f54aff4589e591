package entity

import (
	"strings"

	"github.com/matzehuels/pathloom/pkg/errors"
)

// Unassigned is the identifier given to spokes for which the upstream only
// returned a label.
const Unassigned = "NOT_ASSIGNED"

// DefaultOrganism is used when a hub does not name one.
const DefaultOrganism = "Homo sapiens"

// Kind is the datanode category of an entity.
type Kind string

// Datanode categories.
const (
	GeneProduct Kind = "GeneProduct"
	Protein     Kind = "Protein"
	Rna         Kind = "Rna"
	Metabolite  Kind = "Metabolite"
	Enzyme      Kind = "Enzyme"
	Pathway     Kind = "Pathway"
	Unknown     Kind = "Unknown"
)

// Kinds lists every category in a stable order.
func Kinds() []Kind {
	return []Kind{GeneProduct, Protein, Rna, Metabolite, Enzyme, Pathway, Unknown}
}

func (k Kind) String() string { return string(k) }

// ParseKind resolves a category name ignoring case. Unknown names map to
// Unknown and false.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if strings.EqualFold(strings.TrimSpace(s), string(k)) {
			return k, true
		}
	}
	return Unknown, false
}

// Entity is a biological entity identified within a namespace.
type Entity struct {
	ID         string     `json:"id" yaml:"id"`
	DataSource DataSource `json:"data_source" yaml:"data_source"`
	Kind       Kind       `json:"kind" yaml:"kind"`
	Label      string     `json:"label,omitempty" yaml:"label,omitempty"`
	Organism   string     `json:"organism,omitempty" yaml:"organism,omitempty"`
}

// Key identifies the entity across namespaces ("EntrezGene:8854").
func (e Entity) Key() string {
	return string(e.DataSource) + ":" + e.ID
}

// DisplayLabel returns the label, falling back to the identifier.
func (e Entity) DisplayLabel() string {
	if e.Label != "" {
		return e.Label
	}
	return e.ID
}

// OrganismOrDefault returns the organism or [DefaultOrganism].
func (e Entity) OrganismOrDefault() string {
	if e.Organism != "" {
		return e.Organism
	}
	return DefaultOrganism
}

// HasID reports whether the entity carries a real identifier.
func (e Entity) HasID() bool {
	return e.ID != "" && e.ID != Unassigned
}

// Validate checks a hub received from a caller.
func (e Entity) Validate() error {
	if err := errors.ValidateIdentifier(e.ID); err != nil {
		return err
	}
	if err := errors.ValidateLabel(e.Label); err != nil {
		return err
	}
	if e.DataSource == "" {
		return errors.New(errors.ErrCodeInvalidInput, "data source is required")
	}
	if !e.DataSource.Known() {
		return errors.New(errors.ErrCodeInvalidInput, "unknown data source %q", e.DataSource)
	}
	if _, ok := ParseKind(string(e.Kind)); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown kind %q", e.Kind)
	}
	return nil
}

// SpokeDraft is a suggested entity before layout.
type SpokeDraft struct {
	ID         string     `json:"id" yaml:"id"`
	DataSource DataSource `json:"data_source" yaml:"data_source"`
	Kind       Kind       `json:"kind" yaml:"kind"`
	Label      string     `json:"label,omitempty" yaml:"label,omitempty"`
}

// LabelOnly builds a draft for an upstream that returned no identifier.
func LabelOnly(label string, ds DataSource, kind Kind) SpokeDraft {
	return SpokeDraft{ID: Unassigned, DataSource: ds, Kind: kind, Label: label}
}

// Entity converts the draft into an entity in the hub's organism.
func (d SpokeDraft) Entity(organism string) Entity {
	return Entity{
		ID:         d.ID,
		DataSource: d.DataSource,
		Kind:       d.Kind,
		Label:      d.Label,
		Organism:   organism,
	}
}
