// Package astar runs a best-first (A*) search over the tangent points of a
// circle layout.
//
// Nodes are created lazily: a node's children are generated the first time it
// is popped from the frontier. Every node lives in an arena owned by the
// Engine and keyed by (circle, side), so a node reached from both tangent
// points of the previous circle is the same arena entry and can be re-parented
// in place while it is still open.
//
// It exposes two entry points:
//
//   - Engine.Search: run the algorithm to completion and get a Result.
//   - Engine.Step: advance one expansion at a time to drive UIs or debugging tools.
package astar

import (
	"container/heap"
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kelindar/bitmap"

	"circle-planner/errors"
	"circle-planner/geometry"
)

// ErrNotFound is returned when the frontier drains without reaching a goal.
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "no path found")

// Options defines parameters for the search.
type Options struct {
	// MaxExpansions stops the search after that many pops. Zero means no limit.
	MaxExpansions int
	Logger        *log.Logger
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithMaxExpansions caps the number of nodes the search may pop.
func WithMaxExpansions(n int) Option {
	return func(o *Options) { o.MaxExpansions = n }
}

// WithLogger sets the logger used for per-expansion debug output.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// Engine is a single search from one root. It is not safe for concurrent use;
// run one Engine per goroutine.
type Engine struct {
	layout *geometry.Layout
	root   geometry.Side
	opts   Options

	nodes   []*geometry.Node // arena, indexed by Key.Index()
	open    PriorityQueue
	openMap map[uint32]*queueItem
	closed  bitmap.Bitmap
	seq     uint64

	current   geometry.Key
	stepCount int
	elapsed   time.Duration
	done      bool
	result    Result
}

// NewEngine creates a search seeded with the root tangent point on the given
// side of the first circle.
func NewEngine(layout *geometry.Layout, root geometry.Side, options ...Option) *Engine {
	opts := Options{Logger: log.Default()}
	for _, option := range options {
		option(&opts)
	}

	e := &Engine{
		layout:  layout,
		root:    root,
		opts:    opts,
		nodes:   make([]*geometry.Node, layout.Len()*2),
		openMap: make(map[uint32]*queueItem),
		result:  Result{Root: root},
	}

	heap.Init(&e.open)
	rootNode := geometry.NewRoot(layout, root)
	e.nodes[rootNode.Key.Index()] = &rootNode
	e.push(&rootNode)

	return e
}

// Search executes the A* search algorithm until a goal is popped, the
// frontier drains, ctx is done or the expansion cap is hit.
func Search(ctx context.Context, layout *geometry.Layout, root geometry.Side, options ...Option) (Result, error) {
	return NewEngine(layout, root, options...).Search(ctx)
}

// Search runs the engine to completion. Calling it again returns the same
// outcome without searching again.
func (e *Engine) Search(ctx context.Context) (Result, error) {
	if e.done {
		return e.outcome()
	}

	start := time.Now()
	for !e.done {
		if err := e.step(ctx); err != nil {
			e.result.Runtime = time.Since(start)
			return e.result, err
		}
	}
	e.result.Runtime = time.Since(start)
	return e.outcome()
}

func (e *Engine) outcome() (Result, error) {
	if !e.result.Found {
		return e.result, errors.Wrap(errors.ErrCodeNotFound, ErrNotFound, "%s root", e.root)
	}
	return e.result, nil
}

// Step advances the search by one node expansion and returns a snapshot
// of the frontier. Building the snapshot is linear in the nodes reached so
// far, so Search steps without one.
func (e *Engine) Step(ctx context.Context) (StepSnapshot, error) {
	err := e.step(ctx)
	return e.snapshot(), err
}

func (e *Engine) step(ctx context.Context) error {
	if e.done {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeCanceled, err, "%s root search stopped after %d expansions", e.root, e.stepCount)
	}
	if e.opts.MaxExpansions > 0 && e.stepCount >= e.opts.MaxExpansions {
		return errors.New(errors.ErrCodeIterationLimit, "%s root search hit the limit of %d expansions", e.root, e.opts.MaxExpansions)
	}

	start := time.Now()
	defer func() {
		e.elapsed += time.Since(start)
		e.result.Runtime = e.elapsed
	}()

	if e.open.Len() == 0 {
		e.finish(false)
		return nil
	}

	e.stepCount++
	item := heap.Pop(&e.open).(*queueItem)
	idx := item.Key.Index()
	delete(e.openMap, idx)
	e.closed.Set(idx)

	current := e.nodes[idx]
	e.current = current.Key
	e.result.Expanded = e.stepCount
	e.opts.Logger.Debug("expand", "root", e.root, "node", current.Key, "g", current.Cost, "h", current.Heuristic, "f", current.F)

	if current.IsGoal {
		e.result.TotalCost = current.Cost
		e.result.Path = e.pathTo(current)
		e.finish(true)
		return nil
	}

	for _, key := range e.expand(current) {
		childIdx := key.Index()
		// Closed nodes are final; they are never reopened.
		if e.closed.Contains(childIdx) {
			continue
		}
		child := e.nodes[childIdx]
		open, inOpen := e.openMap[childIdx]
		if !inOpen {
			e.push(child)
			continue
		}
		if cost := current.Cost + geometry.Distance(*current, *child); cost < child.Cost {
			child.Reparent(*current)
			e.open.update(open, child.F)
		}
	}

	return nil
}

// expand generates current's children once and caches their keys. Children
// already in the arena, reached earlier through the other side of the same
// circle, keep their existing state.
func (e *Engine) expand(current *geometry.Node) []geometry.Key {
	if current.Expanded {
		return current.Children
	}
	current.Expanded = true
	for _, child := range geometry.GenerateChildren(e.layout, *current) {
		child := child
		current.Children = append(current.Children, child.Key)
		idx := child.Key.Index()
		if e.nodes[idx] == nil {
			e.nodes[idx] = &child
		}
	}
	return current.Children
}

func (e *Engine) push(n *geometry.Node) {
	item := &queueItem{Key: n.Key, F: n.F, Seq: e.seq}
	e.seq++
	heap.Push(&e.open, item)
	e.openMap[n.Key.Index()] = item
}

func (e *Engine) finish(found bool) {
	e.done = true
	e.result.Found = found
}

// pathTo walks parent keys from n back to the root and reverses the result.
func (e *Engine) pathTo(n *geometry.Node) []geometry.Node {
	path := []geometry.Node{}
	for {
		path = append(path, cloneNode(n))
		if !n.HasParent {
			break
		}
		n = e.nodes[n.Parent.Index()]
	}
	slices.Reverse(path)
	return path
}

// Reached returns a copy of every node the search has created so far,
// ordered by circle then side.
func (e *Engine) Reached() []geometry.Node {
	reached := []geometry.Node{}
	for _, n := range e.nodes {
		if n != nil {
			reached = append(reached, cloneNode(n))
		}
	}
	return reached
}

func cloneNode(n *geometry.Node) geometry.Node {
	c := *n
	c.Children = slices.Clone(n.Children)
	return c
}
