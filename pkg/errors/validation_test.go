package errors

import (
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"8854", false},
		{"HMDB00031", false},
		{"ec:1.2.1.36", false},
		{"", true},
		{"has space", true},
		{"a/b", true},
		{"<script>", true},
		{"x\x00y", true},
		{strings.Repeat("a", 129), true},
	}

	for _, tt := range tests {
		err := ValidateIdentifier(tt.id)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidateIdentifier(%q) code = %v, want INVALID_INPUT", tt.id, GetCode(err))
		}
	}
}

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		label   string
		wantErr bool
	}{
		{"ALDH1A2", false},
		{"", false},
		{"aldehyde dehydrogenase 1 family, member A2", false},
		{"bad\x07bell", true},
		{strings.Repeat("x", 257), true},
	}

	for _, tt := range tests {
		err := ValidateLabel(tt.label)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://rest.kegg.jp", false},
		{"http://localhost:8080/sparql", false},
		{"", true},
		{"ftp://example.org", true},
	}

	for _, tt := range tests {
		err := ValidateURL(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}
