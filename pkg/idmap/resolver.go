package idmap

import (
	"context"

	"github.com/matzehuels/pathloom/pkg/entity"
)

// Resolver maps an entity into a target namespace.
//
// ok is false when no mapping exists; that is not an error. err reports a
// failure of the mapping service itself.
type Resolver interface {
	Resolve(ctx context.Context, e entity.Entity, target entity.DataSource) (id string, ok bool, err error)
}

// Func adapts a function to the Resolver interface.
type Func func(ctx context.Context, e entity.Entity, target entity.DataSource) (string, bool, error)

// Resolve calls f.
func (f Func) Resolve(ctx context.Context, e entity.Entity, target entity.DataSource) (string, bool, error) {
	return f(ctx, e, target)
}

// Identity resolves entities that are already in the target namespace.
type Identity struct{}

// Resolve implements [Resolver].
func (Identity) Resolve(_ context.Context, e entity.Entity, target entity.DataSource) (string, bool, error) {
	if e.DataSource == target && e.HasID() {
		return e.ID, true, nil
	}
	return "", false, nil
}

// Chain tries each resolver in order and returns the first mapping found.
// A failing resolver stops the chain.
type Chain []Resolver

// Resolve implements [Resolver].
func (c Chain) Resolve(ctx context.Context, e entity.Entity, target entity.DataSource) (string, bool, error) {
	for _, r := range c {
		id, ok, err := r.Resolve(ctx, e, target)
		if err != nil {
			return "", false, err
		}
		if ok {
			return id, true, nil
		}
	}
	return "", false, nil
}
