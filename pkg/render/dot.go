package render

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pathloom/pkg/entity"
	"github.com/matzehuels/pathloom/pkg/layout"
)

// Graphviz positions are in inches, layout coordinates in points.
const pointsPerInch = 72.0

var kindColors = map[entity.Kind]string{
	entity.GeneProduct: "#e8f1fb",
	entity.Protein:     "#e8f1fb",
	entity.Rna:         "#fdf1e3",
	entity.Metabolite:  "#e6f6ea",
	entity.Enzyme:      "#f3e9f9",
	entity.Pathway:     "#fbf8dc",
}

// ToDOT converts a fragment to an undirected Graphviz graph. Every node is
// pinned at its laid-out centre with its laid-out size, and the hub is joined
// to each spoke. The y axis is flipped since Graphviz grows upwards.
func ToDOT(frag layout.Fragment, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph fragment {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [shape=box, style=\"filled\", fillcolor=white, fontsize=9, fixedsize=true, pin=true];\n")
	buf.WriteString("  edge [color=\"#888888\"];\n")
	buf.WriteString("\n")

	writeNode(&buf, "hub", frag.Hub, opts.Detailed, true)
	for i, s := range frag.Spokes {
		writeNode(&buf, spokeID(i), s, opts.Detailed, false)
	}

	if len(frag.Spokes) > 0 {
		buf.WriteString("\n")
	}
	for i := range frag.Spokes {
		fmt.Fprintf(&buf, "  hub -- %s;\n", spokeID(i))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func spokeID(i int) string { return "s" + strconv.Itoa(i) }

func writeNode(buf *bytes.Buffer, id string, n layout.Node, detailed, hub bool) {
	attrs := []string{
		fmt.Sprintf("label=%q", nodeLabel(n.Entity, detailed)),
		fmt.Sprintf("pos=\"%s,%s!\"", inches(n.X), inches(-n.Y)),
		fmt.Sprintf("width=%s", inches(n.Width)),
		fmt.Sprintf("height=%s", inches(n.Height)),
	}
	if c, ok := kindColors[n.Entity.Kind]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c))
	}
	if hub {
		attrs = append(attrs, "penwidth=2")
		if n.Attribution != "" {
			attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Attribution))
		}
	}
	if !n.Entity.HasID() {
		attrs = append(attrs, "style=\"filled,dashed\"")
	}
	fmt.Fprintf(buf, "  %s [%s];\n", id, strings.Join(attrs, ", "))
}

func nodeLabel(e entity.Entity, detailed bool) string {
	label := e.DisplayLabel()
	if !detailed || !e.HasID() {
		return label
	}
	return label + "\n" + string(e.DataSource) + ":" + e.ID
}

func inches(points float64) string {
	v := math.Round(points/pointsPerInch*1e4) / 1e4
	if v == 0 {
		v = 0 // no "-0.0000"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// RenderSVG draws DOT source with the neato engine.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.SetLayout(graphviz.NEATO).Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's svg element with one that scales.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
