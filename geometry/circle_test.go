package geometry

import (
	"math"
	"testing"

	"circle-planner/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		circles []Circle
		code    errors.Code
	}{
		{
			name:    "valid stack",
			circles: []Circle{{50, 15, 10}, {50, 45, 10}, {50, 75, 10}},
		},
		{
			name:    "single circle",
			circles: []Circle{{0, 0, 1}},
		},
		{
			name: "empty",
			code: errors.ErrCodeInvalidLayout,
		},
		{
			name:    "zero radius",
			circles: []Circle{{50, 15, 10}, {50, 45, 0}},
			code:    errors.ErrCodeInvalidCircle,
		},
		{
			name:    "negative radius",
			circles: []Circle{{50, 15, -3}},
			code:    errors.ErrCodeInvalidCircle,
		},
		{
			name:    "nan coordinate",
			circles: []Circle{{math.NaN(), 15, 3}},
			code:    errors.ErrCodeInvalidCircle,
		},
		{
			name:    "descending y",
			circles: []Circle{{50, 45, 10}, {50, 15, 10}},
			code:    errors.ErrCodeUnsortedLayout,
		},
		{
			name:    "equal y",
			circles: []Circle{{10, 15, 10}, {80, 15, 10}},
			code:    errors.ErrCodeUnsortedLayout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.circles)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Fatalf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestNewLayoutCopiesInput(t *testing.T) {
	circles := []Circle{{50, 15, 10}, {50, 45, 10}}
	layout, err := NewLayout(circles)
	if err != nil {
		t.Fatalf("NewLayout() error: %v", err)
	}

	circles[0].X = 999
	if layout.Circle(0).X != 50 {
		t.Error("layout should not alias the caller's slice")
	}

	out := layout.Circles()
	out[1].Radius = 1
	if layout.Circle(1).Radius != 10 {
		t.Error("Circles() should return a copy")
	}
}

func TestSuccessor(t *testing.T) {
	layout, err := NewLayout([]Circle{{50, 15, 10}, {50, 45, 10}, {50, 75, 10}})
	if err != nil {
		t.Fatalf("NewLayout() error: %v", err)
	}

	tests := []struct {
		y      float64
		want   int
		wantOK bool
	}{
		{y: -100, want: 0, wantOK: true},
		{y: 15, want: 1, wantOK: true},
		{y: 44.9, want: 1, wantOK: true},
		{y: 45, want: 2, wantOK: true},
		{y: 75, wantOK: false},
	}

	for _, tt := range tests {
		got, ok := layout.Successor(tt.y)
		if ok != tt.wantOK {
			t.Errorf("Successor(%v) ok = %v, want %v", tt.y, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("Successor(%v) = %d, want %d", tt.y, got, tt.want)
		}
	}
}
