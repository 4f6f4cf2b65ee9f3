package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// PathLineString returns the tangent points of path as a line string.
func PathLineString(path []Node) orb.LineString {
	ls := make(orb.LineString, 0, len(path))
	for _, n := range path {
		p := n.TangentPoint()
		ls = append(ls, orb.Point{p.X, p.Y})
	}
	return ls
}

// PathLength is the planar length of the path through its tangent points.
func PathLength(path []Node) float64 {
	return planar.Length(PathLineString(path))
}

// Segments returns consecutive tangent-point pairs, one per drawn line.
func Segments(path []Node) [][2]orb.Point {
	ls := PathLineString(path)
	if len(ls) < 2 {
		return [][2]orb.Point{}
	}
	segments := make([][2]orb.Point, 0, len(ls)-1)
	for i := 1; i < len(ls); i++ {
		segments = append(segments, [2]orb.Point{ls[i-1], ls[i]})
	}
	return segments
}

// Bound returns the box enclosing every circle of the layout.
func (l *Layout) Bound() orb.Bound {
	bound := circleBound(l.circles[0])
	for _, c := range l.circles[1:] {
		bound = bound.Union(circleBound(c))
	}
	return bound
}

func circleBound(c Circle) orb.Bound {
	return orb.Bound{
		Min: orb.Point{c.X - c.Radius, c.Y - c.Radius},
		Max: orb.Point{c.X + c.Radius, c.Y + c.Radius},
	}
}

// FeatureCollection exports the layout and a path for external renderers.
// Every circle becomes a Point feature carrying its index and radius; the path,
// when it has at least two nodes, becomes a LineString feature.
func FeatureCollection(layout *Layout, path []Node) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.BBox = geojson.NewBBox(layout.Bound())

	for i, c := range layout.circles {
		f := geojson.NewFeature(orb.Point{c.X, c.Y})
		f.Properties["kind"] = "circle"
		f.Properties["index"] = i
		f.Properties["radius"] = c.Radius
		fc.Append(f)
	}

	if len(path) >= 2 {
		sides := make([]string, 0, len(path))
		for _, n := range path {
			sides = append(sides, n.Key.Side.String())
		}
		f := geojson.NewFeature(PathLineString(path))
		f.Properties["kind"] = "path"
		f.Properties["sides"] = sides
		f.Properties["cost"] = path[len(path)-1].Cost
		fc.Append(f)
	}

	return fc
}
