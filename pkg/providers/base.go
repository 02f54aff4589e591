package providers

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/errors"
	"github.com/matzehuels/pathloom/pkg/idmap"
	"github.com/matzehuels/pathloom/pkg/integrations"
)

// DefaultTimeout bounds a single Suggest call.
const DefaultTimeout = 2 * time.Minute

// Options are shared by all providers.
type Options struct {
	// Resolver maps hubs into upstream namespaces. Defaults to [idmap.Identity].
	Resolver idmap.Resolver

	// Timeout bounds each Suggest call. Defaults to [DefaultTimeout].
	Timeout time.Duration

	// Refresh bypasses the upstream response cache.
	Refresh bool
}

func (o Options) withDefaults() Options {
	if o.Resolver == nil {
		o.Resolver = idmap.Identity{}
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// base carries what every provider needs besides its client.
type base struct {
	upstream    string
	attribution string
	opts        Options
}

func newBase(upstream, attribution string, opts Options) base {
	return base{upstream: upstream, attribution: attribution, opts: opts.withDefaults()}
}

// Attribution implements suggest.Attributor.
func (b base) Attribution() string { return b.attribution }

// bound applies the provider's own time limit.
func (b base) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.opts.Timeout)
}

// resolve maps hub into target or fails with UNSUPPORTED.
func (b base) resolve(ctx context.Context, hub entity.Entity, target entity.DataSource) (string, error) {
	id, ok, err := b.opts.Resolver.Resolve(ctx, hub, target)
	if err != nil {
		return "", b.fail(ctx, err)
	}
	if !ok || id == "" {
		return "", errors.New(errors.ErrCodeUnsupported,
			"no %s identifier for %s", target, hub.Key())
	}
	return id, nil
}

// fail classifies an upstream error. The context is consulted first since
// database drivers do not always wrap context errors.
func (b base) fail(ctx context.Context, err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	switch {
	case stderrors.Is(ctx.Err(), context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "%s did not answer within %s", b.upstream, b.opts.Timeout)
	case stderrors.Is(ctx.Err(), context.Canceled):
		return errors.Wrap(errors.ErrCodeCancelled, err, "%s request cancelled", b.upstream)
	}
	return integrations.Classify(err, b.upstream)
}

func notKind(hub entity.Entity, k entity.Kind) bool {
	return hub.Kind != k
}

// drafts collects spokes, dropping duplicates of (namespace, id, label).
type drafts struct {
	seen map[[3]string]bool
	out  []entity.SpokeDraft
}

func (d *drafts) add(s entity.SpokeDraft) {
	if d.seen == nil {
		d.seen = make(map[[3]string]bool)
	}
	k := [3]string{string(s.DataSource), s.ID, s.Label}
	if s.ID != entity.Unassigned {
		k[2] = ""
	}
	if d.seen[k] {
		return
	}
	d.seen[k] = true
	d.out = append(d.out, s)
}

func (d *drafts) list() []entity.SpokeDraft {
	if d.out == nil {
		return []entity.SpokeDraft{}
	}
	return d.out
}
