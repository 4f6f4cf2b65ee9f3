package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"circle-planner/errors"
	"circle-planner/geometry"
	"circle-planner/layout"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "absent.toml")))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateThenSolve(t *testing.T) {
	dir := t.TempDir()
	layoutPath := filepath.Join(dir, "layout.json")
	geojsonPath := filepath.Join(dir, "path.geojson")

	out, err := runCLI(t, "generate", "--out", layoutPath, "--count", "5", "--seed", "11")
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "generated 5 circles") {
		t.Errorf("generate output = %q", out)
	}
	circles, err := layout.Load(layoutPath)
	if err != nil || len(circles) != 5 {
		t.Fatalf("Load() = %d circles, %v", len(circles), err)
	}

	out, err = runCLI(t, "solve", "--layout", layoutPath, "--geojson", geojsonPath, "--sequential")
	if err != nil {
		t.Fatalf("solve: %v\n%s", err, out)
	}
	for _, want := range []string{"Path", "best", "cost", geojsonPath} {
		if !strings.Contains(out, want) {
			t.Errorf("solve output missing %q:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(geojsonPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got, err := layout.Decode(data); err != nil || len(got) != 5 {
		t.Errorf("exported GeoJSON decodes to %d circles, %v", len(got), err)
	}
}

func TestSolveRandomLayout(t *testing.T) {
	out, err := runCLI(t, "solve", "--seed", "3")
	if err != nil {
		t.Fatalf("solve: %v\n%s", err, out)
	}
	if !strings.Contains(out, "root L") || !strings.Contains(out, "root R") {
		t.Errorf("solve output should describe both roots:\n%s", out)
	}
}

func TestSolveUnsortedLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unsorted.json")
	circles := []geometry.Circle{{X: 0, Y: 30, Radius: 2}, {X: 0, Y: 10, Radius: 2}}
	if err := layout.Save(path, circles); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := runCLI(t, "solve", "--layout", path); !errors.Is(err, errors.ErrCodeUnsortedLayout) {
		t.Errorf("solve error = %v, want %s", err, errors.ErrCodeUnsortedLayout)
	}
	if out, err := runCLI(t, "solve", "--layout", path, "--sort"); err != nil {
		t.Errorf("solve --sort: %v\n%s", err, out)
	}
}

func TestSolveBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[search]\nmax_expansions = -3\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"solve", "--config", path})
	if err := root.ExecuteContext(context.Background()); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}
