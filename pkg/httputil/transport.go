package httputil

import (
	"net/http"
	"time"

	"github.com/matzehuels/pathloom/pkg/buildinfo"
	"github.com/matzehuels/pathloom/pkg/observability"
)

// DefaultTimeout bounds a single upstream HTTP exchange. Providers apply
// their own, longer, per-suggestion bound on top.
const DefaultTimeout = 30 * time.Second

// Transport is an http.RoundTripper that reports requests to the HTTP
// hooks and sets a default User-Agent.
type Transport struct {
	Base      http.RoundTripper
	UserAgent string
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.UserAgent)
	}

	ctx := req.Context()
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path

	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := base.RoundTrip(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, err
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}

// NewClient returns an instrumented client with [DefaultTimeout].
func NewClient() *http.Client {
	return WrapClient(&http.Client{Timeout: DefaultTimeout})
}

// WrapClient instruments an existing client in place and returns it.
// Tests use it to wrap httptest server clients.
func WrapClient(c *http.Client) *http.Client {
	if _, ok := c.Transport.(*Transport); ok {
		return c
	}
	c.Transport = &Transport{Base: c.Transport, UserAgent: UserAgent()}
	return c
}

// UserAgent returns "pathloom/<version>".
func UserAgent() string {
	return "pathloom/" + buildinfo.Version
}
