package geometry

import (
	"fmt"
	"math"
	"strings"

	"circle-planner/errors"
)

// Point is a position in the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Side selects which tangent point of a circle a node stands on.
type Side uint8

const (
	Left Side = iota
	Right
)

// Sides lists both sides in generation order.
var Sides = [2]Side{Left, Right}

func (s Side) String() string {
	if s == Right {
		return "R"
	}
	return "L"
}

// ParseSide accepts "L", "R", "left" or "right" in any case.
func ParseSide(v string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "l", "left":
		return Left, nil
	case "r", "right":
		return Right, nil
	}
	return Left, errors.New(errors.ErrCodeInvalidInput, "unknown side %q", v)
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	parsed, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Key identifies a node independently of the search tree it sits in.
type Key struct {
	Circle int  `json:"circle"`
	Side   Side `json:"side"`
}

// Index maps the key to a dense integer: two slots per circle.
func (k Key) Index() uint32 {
	return uint32(k.Circle)*2 + uint32(k.Side)
}

// KeyFromIndex is the inverse of Key.Index.
func KeyFromIndex(i uint32) Key {
	return Key{Circle: int(i / 2), Side: Side(i % 2)}
}

func (k Key) String() string {
	return fmt.Sprintf("%d%s", k.Circle, k.Side)
}

// Node is one tangent point of one circle together with its search state.
// Parent is a key into whatever store owns the nodes, not a pointer, so it can
// be reassigned in place.
type Node struct {
	Key       Key     `json:"key"`
	Circle    Circle  `json:"circle"`
	Parent    Key     `json:"parent"`
	HasParent bool    `json:"hasParent"`
	Children  []Key   `json:"children,omitempty"`
	Expanded  bool    `json:"-"`
	Cost      float64 `json:"cost"`
	Heuristic int     `json:"heuristic"`
	F         float64 `json:"f"`
	IsGoal    bool    `json:"isGoal"`
}

// TangentPoint returns the waypoint the node stands for.
func (n Node) TangentPoint() Point {
	return TangentPoint(n.Circle, n.Key.Side)
}

// TangentPoint returns (X-R, Y) for Left and (X+R, Y) for Right.
func TangentPoint(c Circle, side Side) Point {
	if side == Right {
		return Point{X: c.X + c.Radius, Y: c.Y}
	}
	return Point{X: c.X - c.Radius, Y: c.Y}
}

// Distance is the Euclidean distance between the tangent points of a and b.
func Distance(a, b Node) float64 {
	return a.TangentPoint().Distance(b.TangentPoint())
}

// NewRoot builds the start node on the first circle.
func NewRoot(layout *Layout, side Side) Node {
	return Node{
		Key:       Key{Circle: 0, Side: side},
		Circle:    layout.Circle(0),
		Heuristic: layout.Len() - 1,
		F:         float64(layout.Len() - 1),
		IsGoal:    layout.Len() == 1,
	}
}

// NewChild builds the node for circle/side reached from parent.
func NewChild(layout *Layout, parent Node, circle int, side Side) Node {
	child := Node{
		Key:       Key{Circle: circle, Side: side},
		Circle:    layout.Circle(circle),
		Heuristic: parent.Heuristic - 1,
		IsGoal:    circle == layout.Last(),
	}
	child.Reparent(parent)
	return child
}

// GenerateChildren returns the LEFT and RIGHT node of the next circle above
// node. A node with no circle above it has no children.
func GenerateChildren(layout *Layout, node Node) []Node {
	next, ok := layout.Successor(node.Circle.Y)
	if !ok {
		return nil
	}
	children := make([]Node, 0, len(Sides))
	for _, side := range Sides {
		children = append(children, NewChild(layout, node, next, side))
	}
	return children
}

// Reparent attaches n below parent and recomputes Cost and F together.
func (n *Node) Reparent(parent Node) {
	n.Parent = parent.Key
	n.HasParent = true
	n.Cost = parent.Cost + Distance(parent, *n)
	n.F = n.Cost + float64(n.Heuristic)
}

func (n Node) String() string {
	return fmt.Sprintf("(x:%g, y:%g, radius:%g, side:%s, isGoal:%t)", n.Circle.X, n.Circle.Y, n.Circle.Radius, n.Key.Side, n.IsGoal)
}
