// Package planner runs the two root searches of a layout and picks the
// cheaper path.
//
// A layout can be entered on either tangent point of its first circle, so one
// search is seeded from the LEFT root and one from the RIGHT root. The two
// searches share only the read-only layout and run concurrently unless
// WithSequential is given. Either side may fail to find a path on its own;
// only when both fail does Plan report NOT_FOUND.
package planner

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"circle-planner/astar"
	"circle-planner/errors"
	"circle-planner/geometry"
)

// Outcome is the result of one root search.
type Outcome struct {
	Result astar.Result `json:"result"`
	Err    error        `json:"-"`
	Error  string       `json:"error,omitempty"`
}

// Found reports whether the search reached a goal.
func (o Outcome) Found() bool {
	return o.Err == nil && o.Result.Found
}

// Solution is the cheaper of the two root searches.
type Solution struct {
	ID        string          `json:"id"`
	Best      geometry.Side   `json:"best"`
	Path      []geometry.Node `json:"path"`
	TotalCost float64         `json:"totalCost"`
	Runtime   time.Duration   `json:"runtimeNanoseconds"`
	Left      Outcome         `json:"left"`
	Right     Outcome         `json:"right"`
	Overlaps  [][2]int        `json:"overlaps"`
}

// Waypoints returns the tangent points of the chosen path.
func (s *Solution) Waypoints() []geometry.Point {
	return s.outcome(s.Best).Result.Waypoints()
}

func (s *Solution) outcome(side geometry.Side) Outcome {
	if side == geometry.Right {
		return s.Right
	}
	return s.Left
}

// Options defines parameters for Plan.
type Options struct {
	Sequential    bool
	MaxExpansions int
	Timeout       time.Duration
	Logger        *log.Logger
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithSequential runs the LEFT search and then the RIGHT search on the calling
// goroutine.
func WithSequential() Option {
	return func(o *Options) { o.Sequential = true }
}

// WithMaxExpansions caps the number of pops of each root search.
func WithMaxExpansions(n int) Option {
	return func(o *Options) { o.MaxExpansions = n }
}

// WithTimeout bounds the whole plan.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// WithLogger sets the logger for search summaries and overlap warnings.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// Plan searches layout from both roots and returns the cheaper path. Search
// errors other than NOT_FOUND (cancellation, expansion limit) are returned as
// is; a NOT_FOUND on one side only is recorded in that side's Outcome.
func Plan(ctx context.Context, layout *geometry.Layout, options ...Option) (*Solution, error) {
	opts := Options{Logger: log.Default()}
	for _, option := range options {
		option(&opts)
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	sol := &Solution{
		ID:       uuid.NewString(),
		Overlaps: geometry.NewSpatialIndex(layout).Overlaps(),
	}
	for _, pair := range sol.Overlaps {
		opts.Logger.Warn("circles overlap", "a", pair[0], "b", pair[1])
	}

	var outcomes [2]Outcome
	if opts.Sequential {
		for i, side := range geometry.Sides {
			outcomes[i] = search(ctx, layout, side, opts)
		}
	} else {
		var g errgroup.Group
		for i, side := range geometry.Sides {
			i, side := i, side
			g.Go(func() error {
				outcomes[i] = search(ctx, layout, side, opts)
				return nil
			})
		}
		_ = g.Wait()
	}
	sol.Left, sol.Right = outcomes[0], outcomes[1]

	for _, o := range outcomes {
		if o.Err != nil && !errors.Is(o.Err, errors.ErrCodeNotFound) {
			return nil, o.Err
		}
	}

	best, ok := choose(sol.Left, sol.Right)
	if !ok {
		return nil, errors.Wrap(errors.ErrCodeNotFound, astar.ErrNotFound, "neither root reaches the last circle")
	}
	chosen := sol.outcome(best).Result
	sol.Best = best
	sol.Path = chosen.Path
	sol.TotalCost = chosen.TotalCost
	sol.Runtime = chosen.Runtime

	opts.Logger.Info("plan complete", "id", sol.ID, "best", best, "cost", sol.TotalCost, "circles", layout.Len())
	return sol, nil
}

// choose picks the cheaper found side. An exact tie goes to RIGHT.
func choose(left, right Outcome) (geometry.Side, bool) {
	switch {
	case left.Found() && right.Found():
		if left.Result.TotalCost < right.Result.TotalCost {
			return geometry.Left, true
		}
		return geometry.Right, true
	case left.Found():
		return geometry.Left, true
	case right.Found():
		return geometry.Right, true
	}
	return geometry.Left, false
}

func search(ctx context.Context, layout *geometry.Layout, side geometry.Side, opts Options) Outcome {
	result, err := astar.Search(ctx, layout, side,
		astar.WithMaxExpansions(opts.MaxExpansions),
		astar.WithLogger(opts.Logger),
	)

	searchDuration.WithLabelValues(side.String()).Observe(result.Runtime.Seconds())
	searchExpanded.Observe(float64(result.Expanded))
	searchTotal.WithLabelValues(side.String(), resultLabel(err)).Inc()

	if err != nil {
		opts.Logger.Warn("search failed", "side", side, "expanded", result.Expanded, "err", err)
		return Outcome{Result: result, Err: err, Error: errors.UserMessage(err)}
	}
	opts.Logger.Debug("search finished", "side", side, "cost", result.TotalCost, "expanded", result.Expanded, "runtime", result.Runtime)
	return Outcome{Result: result}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "found"
	case errors.Is(err, errors.ErrCodeNotFound):
		return "not_found"
	case errors.Is(err, errors.ErrCodeCanceled):
		return "canceled"
	case errors.Is(err, errors.ErrCodeIterationLimit):
		return "limit"
	}
	return "error"
}
