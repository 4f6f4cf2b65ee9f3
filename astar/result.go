package astar

import (
	"sort"
	"time"

	"circle-planner/geometry"
)

// Result contains the outcome of a search
type Result struct {
	Root      geometry.Side   `json:"root"`
	Path      []geometry.Node `json:"path"`
	TotalCost float64         `json:"totalCost"`
	Runtime   time.Duration   `json:"runtimeNanoseconds"`
	Expanded  int             `json:"expanded"`
	Found     bool            `json:"found"`
}

// RuntimeNanoseconds returns the wall-clock duration of the search loop.
func (r Result) RuntimeNanoseconds() int64 {
	return r.Runtime.Nanoseconds()
}

// Waypoints returns the tangent points of the path in order.
func (r Result) Waypoints() []geometry.Point {
	points := make([]geometry.Point, 0, len(r.Path))
	for _, n := range r.Path {
		points = append(points, n.TangentPoint())
	}
	return points
}

// StepSnapshot exposes the per-iteration state of the search
type StepSnapshot struct {
	Current   geometry.Key
	Open      []geometry.Key
	Closed    []geometry.Key
	Done      bool
	Found     bool
	Path      []geometry.Node
	StepIndex int
}

func (e *Engine) snapshot() StepSnapshot {
	open := make([]geometry.Key, 0, len(e.openMap))
	for idx := range e.openMap {
		open = append(open, geometry.KeyFromIndex(idx))
	}
	sort.Slice(open, func(i, j int) bool { return open[i].Index() < open[j].Index() })

	closed := make([]geometry.Key, 0, e.closed.Count())
	e.closed.Range(func(idx uint32) {
		closed = append(closed, geometry.KeyFromIndex(idx))
	})

	s := StepSnapshot{
		Current:   e.current,
		Open:      open,
		Closed:    closed,
		Done:      e.done,
		Found:     e.result.Found,
		StepIndex: e.stepCount,
	}
	if e.result.Found {
		s.Path = e.result.Path
	}
	return s
}
