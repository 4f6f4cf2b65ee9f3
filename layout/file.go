package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"circle-planner/errors"
	"circle-planner/geometry"
)

// File is the on-disk layout format.
type File struct {
	Circles []geometry.Circle `json:"circles"`
}

// Save serializes and saves the circles to a JSON file
func Save(path string, circles []geometry.Circle) error {
	data, err := json.MarshalIndent(File{Circles: circles}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	log.Debug("layout saved", "path", path, "circles", len(circles), "bytes", len(data))
	return nil
}

// Load reads a layout file. Both the native {"circles": [...]} format and a
// GeoJSON FeatureCollection of Point features with a "radius" property are
// accepted; non-point features, such as an exported path, are skipped.
func Load(path string) ([]geometry.Circle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	circles, err := Decode(data)
	if err != nil {
		return nil, err
	}
	log.Debug("layout loaded", "path", path, "circles", len(circles))
	return circles, nil
}

// Decode parses layout data in either supported format.
func Decode(data []byte) ([]geometry.Circle, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "layout is not valid JSON")
	}

	if probe.Type == "FeatureCollection" {
		return decodeGeoJSON(data)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to parse layout")
	}
	return file.Circles, nil
}

func decodeGeoJSON(data []byte) ([]geometry.Circle, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to parse GeoJSON layout")
	}

	circles := make([]geometry.Circle, 0, len(fc.Features))
	for i, f := range fc.Features {
		p, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		radius := f.Properties.MustFloat64("radius", 0)
		if radius <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidCircle, "feature %d has no positive radius property", i)
		}
		circles = append(circles, geometry.Circle{X: p.X(), Y: p.Y(), Radius: radius})
	}
	return circles, nil
}
