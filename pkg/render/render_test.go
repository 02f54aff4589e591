package render

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/errors"
	"github.com/matzehuels/pathloom/pkg/layout"
)

func testFragment() layout.Fragment {
	hub := layout.NewNode(entity.Entity{ID: "8854", DataSource: entity.EntrezGene, Kind: entity.GeneProduct, Label: "ALDH1A2"})
	hub.Attribution = "KEGG (http://www.genome.jp/kegg/)"
	return layout.Radial(hub, []layout.Node{
		layout.NewNode(entity.Entity{ID: "1.2.1.36", DataSource: entity.EnzymeCode, Kind: entity.GeneProduct, Label: "retinal dehydrogenase"}),
		layout.NewNode(entity.Entity{ID: entity.Unassigned, DataSource: entity.Other, Kind: entity.Unknown, Label: "retinal"}),
	})
}

func TestToDOT(t *testing.T) {
	frag := testFragment()
	dot := ToDOT(frag, Options{})

	for _, want := range []string{
		"graph fragment {",
		"layout=neato;",
		`hub [label="ALDH1A2", pos="0.0000,0.0000!"`,
		`s0 [label="retinal dehydrogenase"`,
		`tooltip="KEGG (http://www.genome.jp/kegg/)"`,
		"hub -- s0;",
		"hub -- s1;",
		`style="filled,dashed"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() should produce an undirected graph")
	}

	// First spoke sits at angle zero on the circle.
	wantPos := `pos="` + inches(frag.Radius) + `,0.0000!"`
	if !strings.Contains(dot, wantPos) {
		t.Errorf("ToDOT() missing first spoke position %s\n%s", wantPos, dot)
	}
}

func TestToDOT_NoSpokes(t *testing.T) {
	frag := layout.Radial(layout.NewNode(entity.Entity{ID: "C00376", DataSource: entity.KEGGCompound, Kind: entity.Metabolite}), nil)
	dot := ToDOT(frag, Options{})
	if strings.Contains(dot, "--") {
		t.Errorf("ToDOT() with no spokes has edges:\n%s", dot)
	}
	if !strings.Contains(dot, `label="C00376"`) {
		t.Errorf("unlabelled hub should show its id:\n%s", dot)
	}
}

func TestNodeLabel(t *testing.T) {
	e := entity.Entity{ID: "8854", DataSource: entity.EntrezGene, Label: "ALDH1A2"}
	if got := nodeLabel(e, false); got != "ALDH1A2" {
		t.Errorf("nodeLabel() = %q", got)
	}
	if got := nodeLabel(e, true); got != "ALDH1A2\nEntrezGene:8854" {
		t.Errorf("nodeLabel(detailed) = %q", got)
	}
	labelOnly := entity.Entity{ID: entity.Unassigned, DataSource: entity.Other, Label: "retinal"}
	if got := nodeLabel(labelOnly, true); got != "retinal" {
		t.Errorf("nodeLabel(label only) = %q", got)
	}
}

func TestInches(t *testing.T) {
	tests := []struct {
		points float64
		want   string
	}{
		{0, "0.0000"},
		{math.Copysign(0, -1), "0.0000"},
		{-1e-12, "0.0000"},
		{72, "1.0000"},
		{36, "0.5000"},
		{-144, "-2.0000"},
	}
	for _, tt := range tests {
		if got := inches(tt.points); got != tt.want {
			t.Errorf("inches(%v) = %q, want %q", tt.points, got, tt.want)
		}
	}
}

func TestJSON(t *testing.T) {
	frag := testFragment()
	b, err := JSON(frag)
	if err != nil {
		t.Fatal(err)
	}
	var got layout.Fragment
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Hub.Entity.Label != "ALDH1A2" || len(got.Spokes) != 2 || got.Radius != frag.Radius {
		t.Errorf("JSON() lost data: %+v", got)
	}
}

func TestYAML(t *testing.T) {
	b, err := YAML(testFragment())
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	for _, key := range []string{"hub", "spokes", "radius"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("YAML() missing %q", key)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"SVG", FormatSVG, false},
		{".yml", FormatYAML, false},
		{"gv", FormatDOT, false},
		{" pdf ", FormatPDF, false},
		{"gif", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ParseFormat(%q) code = %v", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRender_TextFormats(t *testing.T) {
	frag := testFragment()
	for _, f := range []Format{FormatJSON, FormatYAML, FormatDOT} {
		out, err := Render(frag, f, Options{})
		if err != nil {
			t.Errorf("Render(%s): %v", f, err)
		}
		if len(out) == 0 {
			t.Errorf("Render(%s) is empty", f)
		}
		if f.Binary() {
			t.Errorf("%s should not be binary", f)
		}
	}
	if _, err := Render(frag, "bmp", Options{}); err == nil {
		t.Error("Render() accepted an unknown format")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s", got)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() changed an svg without viewBox")
	}
}
