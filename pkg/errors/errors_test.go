package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeUnsupported, "no %s identifier", "EntrezGene")

	if err.Code != ErrCodeUnsupported {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnsupported)
	}

	if err.Message != "no EntrezGene identifier" {
		t.Errorf("Message = %v, want %v", err.Message, "no EntrezGene identifier")
	}

	expected := "UNSUPPORTED: no EntrezGene identifier"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeUpstreamUnavailable, cause, "query KEGG")

	if err.Code != ErrCodeUpstreamUnavailable {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUpstreamUnavailable)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeTimeout, "test"),
			code:     ErrCodeTimeout,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeTimeout, "test"),
			code:     ErrCodeCancelled,
			expected: false,
		},
		{
			name:     "wrapped by fmt",
			err:      fmt.Errorf("outer: %w", New(ErrCodeMalformedResponse, "inner")),
			code:     ErrCodeMalformedResponse,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInternal,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := New(ErrCodeNotApplicable, "provider kegg does not apply")
	if GetCode(err) != ErrCodeNotApplicable {
		t.Errorf("GetCode() = %v", GetCode(err))
	}
	if UserMessage(err) != "provider kegg does not apply" {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}

	plain := errors.New("boom")
	if GetCode(plain) != "" {
		t.Errorf("GetCode(plain) = %v, want empty", GetCode(plain))
	}
	if UserMessage(plain) != "boom" {
		t.Errorf("UserMessage(plain) = %q", UserMessage(plain))
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"coded passes through", New(ErrCodeUnsupported, "x"), ErrCodeUnsupported},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), ErrCodeTimeout},
		{"cancel", context.Canceled, ErrCodeCancelled},
		{"plain", errors.New("boom"), ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got.Code != tt.want {
				t.Errorf("Classify() code = %v, want %v", got.Code, tt.want)
			}
		})
	}

	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
}

func TestCodeRetryable(t *testing.T) {
	if !ErrCodeUpstreamUnavailable.Retryable() || !ErrCodeTimeout.Retryable() {
		t.Error("transport failures should be retryable by the caller")
	}
	if ErrCodeUnsupported.Retryable() || ErrCodeNotApplicable.Retryable() {
		t.Error("mapping and gating failures should not be retryable")
	}
}
