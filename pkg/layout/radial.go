package layout

import (
	"math"

	"github.com/matzehuels/pathloom/pkg/entity"
)

// Default datanode box.
const (
	DatanodeWidth  = 60.0
	DatanodeHeight = 20.0
)

// Spacing constants.
const (
	MinRadius = 80.0
	Gap       = 10.0
)

// Node is a positioned entity. X and Y are the centre of the box.
type Node struct {
	Entity      entity.Entity `json:"entity" yaml:"entity"`
	X           float64       `json:"x" yaml:"x"`
	Y           float64       `json:"y" yaml:"y"`
	Width       float64       `json:"width" yaml:"width"`
	Height      float64       `json:"height" yaml:"height"`
	Attribution string        `json:"attribution,omitempty" yaml:"attribution,omitempty"`
}

// NewNode wraps e in a default-sized box at the origin.
func NewNode(e entity.Entity) Node {
	return Node{Entity: e, Width: DatanodeWidth, Height: DatanodeHeight}
}

// Fragment is a hub with its laid-out spokes. An empty Spokes slice means
// the provider found nothing.
type Fragment struct {
	Hub    Node    `json:"hub" yaml:"hub"`
	Spokes []Node  `json:"spokes" yaml:"spokes"`
	Radius float64 `json:"radius" yaml:"radius"`
}

// Radial places hub at the origin and spokes on a circle around it, in
// input order. Neither argument is modified.
func Radial(hub Node, spokes []Node) Fragment {
	hub.X, hub.Y = 0, 0
	n := len(spokes)
	frag := Fragment{Hub: hub, Spokes: make([]Node, n)}
	if n == 0 {
		return frag
	}

	r := Radius(hub, spokes)
	frag.Radius = r
	for i, s := range spokes {
		theta := Angle(i, n)
		s.X = r * math.Cos(theta)
		s.Y = r * math.Sin(theta)
		frag.Spokes[i] = s
	}
	return frag
}

// Angle returns the angle in radians of spoke i out of n.
func Angle(i, n int) float64 {
	if n <= 0 {
		return 0
	}
	return 2 * math.Pi * float64(i) / float64(n)
}

// Radius returns the circle radius Radial would use for these boxes.
func Radius(hub Node, spokes []Node) float64 {
	n := len(spokes)
	if n == 0 {
		return 0
	}
	var w, h float64
	for _, s := range spokes {
		w = max(w, s.Width)
		h = max(h, s.Height)
	}

	clearHub := math.Hypot((hub.Width+w)/2, (hub.Height+h)/2) + Gap
	r := max(MinRadius, clearHub)
	if n >= 2 {
		clearNeighbours := (math.Hypot(w, h) + Gap) / (2 * math.Sin(math.Pi/float64(n)))
		r = max(r, clearNeighbours)
	}
	return r
}

// Translate returns a copy of f moved by (dx, dy).
func (f Fragment) Translate(dx, dy float64) Fragment {
	out := Fragment{Hub: f.Hub, Spokes: make([]Node, len(f.Spokes)), Radius: f.Radius}
	out.Hub.X += dx
	out.Hub.Y += dy
	for i, s := range f.Spokes {
		s.X += dx
		s.Y += dy
		out.Spokes[i] = s
	}
	return out
}

// Bounds returns the bounding box of every node as min and max corners.
func (f Fragment) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = f.Hub.X-f.Hub.Width/2, f.Hub.Y-f.Hub.Height/2
	maxX, maxY = f.Hub.X+f.Hub.Width/2, f.Hub.Y+f.Hub.Height/2
	for _, s := range f.Spokes {
		minX = min(minX, s.X-s.Width/2)
		minY = min(minY, s.Y-s.Height/2)
		maxX = max(maxX, s.X+s.Width/2)
		maxY = max(maxY, s.Y+s.Height/2)
	}
	return
}

// Overlaps reports whether the boxes of a and b intersect.
func Overlaps(a, b Node) bool {
	return math.Abs(a.X-b.X) < (a.Width+b.Width)/2 &&
		math.Abs(a.Y-b.Y) < (a.Height+b.Height)/2
}
