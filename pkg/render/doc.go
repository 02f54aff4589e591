// Package render turns laid-out fragments into files.
//
// # Formats
//
// A [layout.Fragment] already carries final coordinates, so rendering never
// re-runs a layout algorithm:
//
//   - json, yaml: the fragment as data, for other tools to place into a
//     larger pathway diagram
//   - dot: Graphviz source with every node pinned at its computed position
//   - svg: the dot output drawn by the neato engine, which honours pins
//   - png, pdf: the SVG converted with rsvg-convert
//
// Use [Render] to pick a format by name:
//
//	out, err := render.Render(frag, render.FormatSVG, render.Options{})
//
// # Dependencies
//
// SVG output uses [github.com/goccy/go-graphviz] in-process. PNG and PDF
// additionally require librsvg (rsvg-convert) on the PATH.
package render
