package suggest

import (
	"sync"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/errors"
)

// Descriptor describes an installed provider relative to one hub.
// Descriptors are computed on demand and never cached.
type Descriptor struct {
	Name        string   `json:"name"`
	Group       string   `json:"group"`
	Attribution string   `json:"attribution,omitempty"`
	Applicable  bool     `json:"applicable"`
	Provider    Provider `json:"-"`
}

type registration struct {
	name     string
	group    string
	provider Provider
	gate     Gate
}

// applies consults the override gate if one is set, else the provider.
func (r registration) applies(hub entity.Entity) bool {
	if r.gate != nil {
		return r.gate.Allow(hub)
	}
	return r.provider.CanSuggest(hub)
}

// Registry is an ordered set of named providers. Registration happens
// during setup; lookups are safe from any goroutine.
type Registry struct {
	mu      sync.RWMutex
	entries []registration
	index   map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register installs p under name in group. Names are unique.
func (r *Registry) Register(name, group string, p Provider) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "provider name cannot be empty")
	}
	if p == nil {
		return errors.New(errors.ErrCodeInvalidInput, "provider %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[name]; exists {
		return errors.New(errors.ErrCodeInvalidInput, "provider %q already registered", name)
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, registration{name: name, group: group, provider: p})
	return nil
}

// SetGate replaces the applicability test of a registered provider.
// A nil gate restores the provider's own CanSuggest.
func (r *Registry) SetGate(name string, g Gate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[name]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "unknown provider %q", name)
	}
	r.entries[i].gate = g
	return nil
}

// Lookup returns the provider registered under name.
func (r *Registry) Lookup(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.entries[i].provider, true
}

// Applies reports whether the named provider applies to hub.
// Unknown names report false.
func (r *Registry) Applies(name string, hub entity.Entity) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[name]
	return ok && r.entries[i].applies(hub)
}

// Names returns provider names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Descriptors returns every provider with its applicability for hub, in
// registration order.
func (r *Registry) Descriptors(hub entity.Entity) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, len(r.entries))
	for i, e := range r.entries {
		out[i] = Descriptor{
			Name:        e.name,
			Group:       e.group,
			Attribution: AttributionOf(e.provider),
			Applicable:  e.applies(hub),
			Provider:    e.provider,
		}
	}
	return out
}

// Applicable returns only the descriptors that apply to hub.
func (r *Registry) Applicable(hub entity.Entity) []Descriptor {
	all := r.Descriptors(hub)
	out := all[:0]
	for _, d := range all {
		if d.Applicable {
			out = append(out, d)
		}
	}
	return out
}

// Groups returns group names in order of first appearance.
func (r *Registry) Groups() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	var groups []string
	for _, e := range r.entries {
		if !seen[e.group] {
			seen[e.group] = true
			groups = append(groups, e.group)
		}
	}
	return groups
}
