// Package layout produces circle layouts for the planner: random layouts for
// demos and benchmarks, and JSON or GeoJSON layout files.
package layout

import (
	"math/rand"
	"sort"

	"circle-planner/errors"
	"circle-planner/geometry"
)

// MaxCount bounds the number of circles a single layout may hold.
const MaxCount = 100_000

// Options controls random layout generation. x is drawn from
// [RadiusRange, CoordRange] and the radius from [MinRadius, RadiusRange];
// RadiusRange is also the row pitch unit.
type Options struct {
	Count       int     `json:"count" toml:"count"`
	CoordRange  float64 `json:"coordRange" toml:"coord_range"`
	RadiusRange float64 `json:"radiusRange" toml:"radius_range"`
	MinRadius   float64 `json:"minRadius" toml:"min_radius"`
}

// DefaultOptions matches a 500x500 canvas of ten rows.
func DefaultOptions() Options {
	return Options{
		Count:       10,
		CoordRange:  250,
		RadiusRange: 15,
		MinRadius:   10,
	}
}

// Validate rejects options that cannot produce a valid layout.
func (o Options) Validate() error {
	if o.Count < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "count must be at least 1, got %d", o.Count)
	}
	if o.Count > MaxCount {
		return errors.New(errors.ErrCodeInvalidInput, "count must be at most %d, got %d", MaxCount, o.Count)
	}
	if o.MinRadius <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "min radius must be positive, got %v", o.MinRadius)
	}
	if o.RadiusRange < o.MinRadius {
		return errors.New(errors.ErrCodeInvalidInput, "radius range %v is below min radius %v", o.RadiusRange, o.MinRadius)
	}
	if o.CoordRange < o.RadiusRange {
		return errors.New(errors.ErrCodeInvalidInput, "coord range %v is below radius range %v", o.CoordRange, o.RadiusRange)
	}
	return nil
}

// Generate places Count circles in rows three radius-ranges apart, so y is
// strictly increasing and circles never share a row. x and radius are drawn
// uniformly from rng.
func Generate(opts Options, rng *rand.Rand) ([]geometry.Circle, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	circles := make([]geometry.Circle, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		radius := opts.MinRadius + rng.Float64()*(opts.RadiusRange-opts.MinRadius)
		x := opts.RadiusRange + rng.Float64()*(opts.CoordRange-opts.RadiusRange)
		y := 3*float64(i)*opts.RadiusRange + opts.RadiusRange
		circles = append(circles, geometry.Circle{X: x, Y: y, Radius: radius})
	}
	return circles, nil
}

// SortByY orders circles by ascending centre y, keeping the input order of
// equal rows.
func SortByY(circles []geometry.Circle) {
	sort.SliceStable(circles, func(i, j int) bool {
		return circles[i].Y < circles[j].Y
	})
}
