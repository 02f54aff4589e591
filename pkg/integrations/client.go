package integrations

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/pathloom/pkg/cache"
)

// Client provides shared HTTP functionality for all upstream clients.
// It handles caching, retry logic, request coalescing and default headers.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	keyer     cache.Keyer
	namespace string
	ttl       time.Duration
	headers   map[string]string
	flight    singleflight.Group
}

// NewClient creates a Client. Cached values are stored under keys in
// namespace for ttl. Headers are applied to every request; nil is fine.
func NewClient(backend cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	return &Client{
		http:      NewHTTPClient(),
		cache:     backend,
		keyer:     cache.NewDefaultKeyer(),
		namespace: namespace,
		ttl:       ttl,
		headers:   headers,
	}
}

// WithKeyer replaces the key generator, for scoped caches.
func (c *Client) WithKeyer(k cache.Keyer) *Client {
	c.keyer = k
	return c
}

// WithHTTPClient replaces the HTTP client. The client is instrumented.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// Cached retrieves v from cache or runs fetch and caches the result.
// If refresh is true, the cache is bypassed. Concurrent calls with the same
// key share one fetch. fetch must populate v.
//
// A shared fetch runs on the context of the call that started it. When
// that context ends, waiting callers whose own context is still live fetch
// again instead of returning the other caller's cancellation.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	fullKey := c.keyer.HTTPKey(c.namespace, key)
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, fullKey); ok {
			if err := json.Unmarshal(data, v); err == nil {
				return nil
			}
		}
	}

	for {
		leader := false
		data, err, _ := c.flight.Do(fullKey, func() (any, error) {
			leader = true
			if err := cache.RetryWithBackoff(ctx, fetch); err != nil {
				return nil, err
			}
			data, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			_ = c.cache.Set(ctx, fullKey, data, c.ttl)
			return data, nil
		})
		if leader {
			return err
		}
		if err != nil {
			if isContextErr(err) && ctx.Err() == nil {
				continue
			}
			return err
		}
		return json.Unmarshal(data.([]byte), v)
	}
}

func isContextErr(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrMalformed, url, err)
	}
	return nil
}

// GetText performs an HTTP GET request and returns the response body as a string.
// KEGG flat files, BridgeDb TSV and the XML services use it.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	return c.GetTextWithHeaders(ctx, url, nil)
}

// GetTextWithHeaders is GetText with extra headers.
func (c *Client) GetTextWithHeaders(ctx context.Context, url string, headers map[string]string) (string, error) {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return "", cache.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	return string(data), nil
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests, code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
