// Package layout positions suggestion results as a star: the hub at the
// origin and the spokes evenly spaced on a circle around it.
//
// Coordinates are node centres relative to the hub. Spoke i of n sits at
// angle 2πi/n measured from the +x axis, so the first spoke is always to
// the right of the hub. The radius is the smallest value that keeps spokes
// clear of the hub and of each other, and never below [MinRadius].
//
// [Radial] is a pure function: the same input yields the same fragment.
package layout
