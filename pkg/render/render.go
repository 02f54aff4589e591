package render

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pathloom/pkg/errors"
	"github.com/matzehuels/pathloom/pkg/layout"
)

// Format names an output format.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
)

// Formats lists every format in the order the CLI shows them.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatDOT, FormatSVG, FormatPNG, FormatPDF}
}

// ParseFormat accepts a format name or a file extension with its dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	if f == "yml" {
		f = FormatYAML
	}
	if f == "gv" {
		f = FormatDOT
	}
	if !slices.Contains(Formats(), f) {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown format %q", s)
	}
	return f, nil
}

// Binary reports whether the format is unsuitable for a terminal.
func (f Format) Binary() bool {
	return f == FormatPNG || f == FormatPDF
}

// Options configures drawing. JSON and YAML ignore it.
type Options struct {
	// Scale multiplies PNG resolution. Defaults to 2.
	Scale float64

	// Detailed adds namespace and identifier lines under each label.
	Detailed bool
}

// Render writes frag in the given format.
func Render(frag layout.Fragment, f Format, opts Options) ([]byte, error) {
	switch f {
	case FormatJSON:
		return JSON(frag)
	case FormatYAML:
		return YAML(frag)
	case FormatDOT:
		return []byte(ToDOT(frag, opts)), nil
	case FormatSVG:
		return RenderSVG(ToDOT(frag, opts))
	case FormatPNG:
		svg, err := RenderSVG(ToDOT(frag, opts))
		if err != nil {
			return nil, err
		}
		scale := opts.Scale
		if scale <= 0 {
			scale = 2
		}
		return ToPNG(svg, scale)
	case FormatPDF:
		svg, err := RenderSVG(ToDOT(frag, opts))
		if err != nil {
			return nil, err
		}
		return ToPDF(svg)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown format %q", f)
}

// JSON encodes the fragment with indentation.
func JSON(frag layout.Fragment) ([]byte, error) {
	b, err := json.MarshalIndent(frag, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return append(b, '\n'), nil
}

// YAML encodes the fragment.
func YAML(frag layout.Fragment) ([]byte, error) {
	b, err := yaml.Marshal(frag)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return b, nil
}
