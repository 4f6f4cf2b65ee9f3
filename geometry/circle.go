// Package geometry models circles, their tangent points and the nodes the
// search walks through.
//
// A node is one tangent point of one circle: the LEFT point (X-R, Y) or the
// RIGHT point (X+R, Y). Moving from a node to the next circle up costs the
// Euclidean distance between the two tangent points, and the heuristic of a
// node is the number of circles still to pass.
package geometry

import (
	"math"
	"sort"

	"circle-planner/errors"
)

// Circle is one obstacle of the layout.
type Circle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Center returns the centre of the circle as a Point.
func (c Circle) Center() Point {
	return Point{X: c.X, Y: c.Y}
}

// Validate checks that circles form a usable layout: at least one circle,
// finite coordinates, positive radii and strictly increasing Y.
func Validate(circles []Circle) error {
	if len(circles) == 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "layout has no circles")
	}

	for i, c := range circles {
		if !finite(c.X) || !finite(c.Y) || !finite(c.Radius) {
			return errors.New(errors.ErrCodeInvalidCircle, "circle %d has a non-finite value (%v, %v, %v)", i, c.X, c.Y, c.Radius)
		}
		if c.Radius <= 0 {
			return errors.New(errors.ErrCodeInvalidCircle, "circle %d has non-positive radius %v", i, c.Radius)
		}
		// Equal Y is rejected too: the successor scan would skip the circle
		// and the remaining-circle heuristic would stop matching the index.
		if i > 0 && c.Y <= circles[i-1].Y {
			return errors.New(errors.ErrCodeUnsortedLayout, "circle %d (y=%v) is not above circle %d (y=%v)", i, c.Y, i-1, circles[i-1].Y)
		}
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Layout is a validated, read-only sequence of circles sorted by ascending Y.
// It is safe to share between concurrent searches.
type Layout struct {
	circles []Circle
}

// NewLayout validates circles and copies them into a Layout.
func NewLayout(circles []Circle) (*Layout, error) {
	if err := Validate(circles); err != nil {
		return nil, err
	}
	owned := make([]Circle, len(circles))
	copy(owned, circles)
	return &Layout{circles: owned}, nil
}

// Len returns the number of circles.
func (l *Layout) Len() int { return len(l.circles) }

// Circle returns the circle at index i.
func (l *Layout) Circle(i int) Circle { return l.circles[i] }

// Last returns the index of the goal circle.
func (l *Layout) Last() int { return len(l.circles) - 1 }

// Circles returns a copy of the circles in sequence order.
func (l *Layout) Circles() []Circle {
	out := make([]Circle, len(l.circles))
	copy(out, l.circles)
	return out
}

// Successor returns the index of the first circle, in sequence order, whose
// centre lies strictly above y. ok is false when no such circle exists.
func (l *Layout) Successor(y float64) (index int, ok bool) {
	index = sort.Search(len(l.circles), func(i int) bool {
		return l.circles[i].Y > y
	})
	return index, index < len(l.circles)
}
