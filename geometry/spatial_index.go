package geometry

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// circleEntry wraps a circle for R-tree storage
type circleEntry struct {
	Index int
	BBox  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (c *circleEntry) Bounds() rtreego.Rect {
	return c.BBox
}

// SpatialIndex answers region and overlap queries over a layout.
type SpatialIndex struct {
	layout *Layout
	tree   *rtreego.Rtree
}

// NewSpatialIndex creates a new spatial index
func NewSpatialIndex(layout *Layout) *SpatialIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for i, c := range layout.circles {
		bbox, err := circleBoundingBox(c)
		if err == nil {
			tree.Insert(&circleEntry{Index: i, BBox: bbox})
		}
	}

	return &SpatialIndex{layout: layout, tree: tree}
}

// QueryRegion returns the indices of circles whose bounding box intersects
// the given box, in sequence order.
func (si *SpatialIndex) QueryRegion(minX, minY, maxX, maxY float64) []int {
	bbox, err := rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{positive(maxX - minX), positive(maxY - minY)},
	)
	if err != nil {
		return []int{}
	}
	return si.search(bbox)
}

// Overlaps returns every pair of circles that intersect, lower index first.
// Circles that only touch are not reported.
func (si *SpatialIndex) Overlaps() [][2]int {
	pairs := [][2]int{}
	for i, c := range si.layout.circles {
		bbox, err := circleBoundingBox(c)
		if err != nil {
			continue
		}
		for _, j := range si.search(bbox) {
			if j <= i {
				continue
			}
			other := si.layout.circles[j]
			if c.Center().Distance(other.Center()) < c.Radius+other.Radius {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

func (si *SpatialIndex) search(bbox rtreego.Rect) []int {
	results := si.tree.SearchIntersect(bbox)
	indices := make([]int, 0, len(results))
	for _, item := range results {
		indices = append(indices, item.(*circleEntry).Index)
	}
	sort.Ints(indices)
	return indices
}

// circleBoundingBox computes the axis-aligned bounding box for a circle
func circleBoundingBox(c Circle) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{c.X - c.Radius, c.Y - c.Radius},
		[]float64{2 * c.Radius, 2 * c.Radius},
	)
}

// rtreego rejects zero-length sides, so degenerate query boxes get a sliver.
func positive(length float64) float64 {
	const sliver = 1e-9
	if length < sliver {
		return sliver
	}
	return length
}
