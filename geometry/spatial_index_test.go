package geometry

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"github.com/paulmach/orb"
)

func TestQueryRegion(t *testing.T) {
	layout := mustLayout(t,
		Circle{50, 15, 10},
		Circle{150, 45, 10},
		Circle{50, 75, 10},
	)
	index := NewSpatialIndex(layout)

	tests := []struct {
		name                   string
		minX, minY, maxX, maxY float64
		want                   []int
	}{
		{"left column", 0, 0, 70, 100, []int{0, 2}},
		{"right column", 120, 0, 200, 100, []int{1}},
		{"everything", -1000, -1000, 1000, 1000, []int{0, 1, 2}},
		{"empty area", 300, 300, 400, 400, []int{}},
		{"point inside circle 1", 150, 45, 150, 45, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := index.QueryRegion(tt.minX, tt.minY, tt.maxX, tt.maxY)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("QueryRegion() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	layout := mustLayout(t,
		Circle{50, 15, 10},
		Circle{55, 25, 10}, // overlaps 0
		Circle{50, 100, 10},
		Circle{70, 100.5, 10}, // near miss with 2: centres 20.006 apart
	)

	got := NewSpatialIndex(layout).Overlaps()
	want := [][2]int{{0, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Overlaps() = %v, want %v", got, want)
	}
}

func TestPathLengthMatchesCost(t *testing.T) {
	layout := mustLayout(t, Circle{50, 15, 10}, Circle{80, 45, 5}, Circle{40, 75, 12})
	root := NewRoot(layout, Left)
	mid := NewChild(layout, root, 1, Right)
	goal := NewChild(layout, mid, 2, Left)
	path := []Node{root, mid, goal}

	if got := PathLength(path); math.Abs(got-goal.Cost) > epsilon {
		t.Errorf("PathLength() = %v, want %v", got, goal.Cost)
	}

	segments := Segments(path)
	if len(segments) != 2 {
		t.Fatalf("len(Segments) = %d, want 2", len(segments))
	}
	if segments[0][0] != (orb.Point{40, 15}) || segments[1][1] != (orb.Point{28, 75}) {
		t.Errorf("Segments() = %v", segments)
	}
	if got := Segments(path[:1]); len(got) != 0 {
		t.Errorf("Segments(single) = %v, want empty", got)
	}
}

func TestFeatureCollection(t *testing.T) {
	layout := mustLayout(t, Circle{50, 15, 10}, Circle{50, 45, 10})
	root := NewRoot(layout, Right)
	goal := NewChild(layout, root, 1, Right)

	fc := FeatureCollection(layout, []Node{root, goal})
	if len(fc.Features) != 3 {
		t.Fatalf("len(Features) = %d, want 3", len(fc.Features))
	}
	line, ok := fc.Features[2].Geometry.(orb.LineString)
	if !ok || len(line) != 2 {
		t.Fatalf("path feature geometry = %#v", fc.Features[2].Geometry)
	}

	bound := layout.Bound()
	if bound.Min != (orb.Point{40, 5}) || bound.Max != (orb.Point{60, 55}) {
		t.Errorf("Bound() = %v", bound)
	}

	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Error("empty GeoJSON")
	}

	if got := FeatureCollection(layout, []Node{root}); len(got.Features) != 2 {
		t.Errorf("single-node path should add no line feature, got %d features", len(got.Features))
	}
}
