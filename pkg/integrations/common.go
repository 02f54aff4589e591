package integrations

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/matzehuels/pathloom/pkg/errors"
	"github.com/matzehuels/pathloom/pkg/httputil"
)

var (
	// ErrNotFound is returned when the upstream has no such resource.
	ErrNotFound = stderrors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = stderrors.New("network error")

	// ErrMalformed is returned when a response cannot be decoded.
	ErrMalformed = stderrors.New("malformed response")
)

// NewHTTPClient creates an instrumented HTTP client for upstream requests.
func NewHTTPClient() *http.Client {
	return httputil.NewClient()
}

// Classify converts an integration error into a coded error for upstream.
//
//   - context deadline: TIMEOUT
//   - context cancellation: CANCELLED
//   - ErrMalformed and JSON decoding errors: MALFORMED_RESPONSE
//   - everything else: UPSTREAM_UNAVAILABLE
//
// Already coded errors are returned unchanged.
func Classify(err error, upstream string) error {
	if err == nil {
		return nil
	}
	if errors.GetCode(err) != "" {
		return err
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "%s did not answer in time", upstream)
	case stderrors.Is(err, context.Canceled):
		return errors.Wrap(errors.ErrCodeCancelled, err, "%s request cancelled", upstream)
	case stderrors.Is(err, ErrMalformed), stderrors.As(err, &syntaxErr), stderrors.As(err, &typeErr):
		return errors.Wrap(errors.ErrCodeMalformedResponse, err, "%s returned an unusable response", upstream)
	default:
		return errors.Wrap(errors.ErrCodeUpstreamUnavailable, err, "%s is unavailable", upstream)
	}
}

// URLEncode percent-encodes a string for use in query parameters.
func URLEncode(s string) string { return url.QueryEscape(s) }

// PathEscape percent-encodes a string for use as a path segment.
func PathEscape(s string) string { return url.PathEscape(s) }

// JoinURL joins a base URL and path segments with single slashes.
func JoinURL(base string, parts ...string) string {
	out := strings.TrimRight(base, "/")
	for _, p := range parts {
		out += "/" + strings.Trim(p, "/")
	}
	return out
}
