package idmap

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pathloom/pkg/entity"
)

// Xref is one curated mapping entry as written in a mapping file:
//
//	[[xref]]
//	source = "EntrezGene"
//	id = "8854"
//	target = "EnzymeCode"
//	value = "1.2.1.36"
//	organism = "Homo sapiens"  # optional
type Xref struct {
	Source   string `toml:"source"`
	ID       string `toml:"id"`
	Target   string `toml:"target"`
	Value    string `toml:"value"`
	Organism string `toml:"organism,omitempty"`
}

type mappingFile struct {
	Xref []Xref `toml:"xref"`
}

// Static resolves from an in-memory table. It is safe for concurrent use.
type Static struct {
	mu      sync.RWMutex
	entries map[staticKey]string
}

type staticKey struct {
	organism string
	source   entity.DataSource
	id       string
	target   entity.DataSource
}

// NewStatic returns an empty table.
func NewStatic() *Static {
	return &Static{entries: make(map[staticKey]string)}
}

// LoadStatic reads a TOML mapping file.
func LoadStatic(path string) (*Static, error) {
	var f mappingFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("read mapping file %s: %w", path, err)
	}
	s := NewStatic()
	for i, x := range f.Xref {
		if err := s.AddXref(x); err != nil {
			return nil, fmt.Errorf("%s: xref %d: %w", path, i+1, err)
		}
	}
	return s, nil
}

// AddXref adds a mapping entry. Namespaces are given by name or BridgeDb
// system code.
func (s *Static) AddXref(x Xref) error {
	src, ok := entity.ParseDataSource(x.Source)
	if !ok {
		return fmt.Errorf("unknown source namespace %q", x.Source)
	}
	tgt, ok := entity.ParseDataSource(x.Target)
	if !ok {
		return fmt.Errorf("unknown target namespace %q", x.Target)
	}
	if x.ID == "" || x.Value == "" {
		return fmt.Errorf("id and value are required")
	}
	s.Add(x.Organism, src, x.ID, tgt, x.Value)
	return nil
}

// Add maps (source, id) to value in target. An empty organism matches
// every organism.
func (s *Static) Add(organism string, source entity.DataSource, id string, target entity.DataSource, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[staticKey{strings.ToLower(organism), source, id, target}] = value
}

// Len returns the number of entries.
func (s *Static) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Resolve implements [Resolver]. Organism-specific entries win over
// organism-independent ones.
func (s *Static) Resolve(_ context.Context, e entity.Entity, target entity.DataSource) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org := strings.ToLower(e.OrganismOrDefault())
	if v, ok := s.entries[staticKey{org, e.DataSource, e.ID, target}]; ok {
		return v, true, nil
	}
	if v, ok := s.entries[staticKey{"", e.DataSource, e.ID, target}]; ok {
		return v, true, nil
	}
	return "", false, nil
}
