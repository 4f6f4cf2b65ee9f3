package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"circle-planner/geometry"
	"circle-planner/planner"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconArrow   = "→"
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+styleWarning.Render(msg))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+styleValue.Render(value))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// printSolution writes the chosen path, one tangent point per line, followed
// by the per-root costs.
func printSolution(w io.Writer, sol *planner.Solution) {
	fmt.Fprintln(w, styleTitle.Render("Path"))
	for _, n := range sol.Path {
		p := n.TangentPoint()
		fmt.Fprintf(w, "  %s %s\n",
			styleValue.Render(fmt.Sprintf("%-4s", n.Key)),
			styleDim.Render(fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)))
	}
	fmt.Fprintln(w)

	printKeyValue(w, "best", sol.Best.String())
	printKeyValue(w, "cost", styleNumber.Render(fmt.Sprintf("%.3f", sol.TotalCost)))
	printKeyValue(w, "runtime", sol.Runtime.String())
	for _, side := range geometry.Sides {
		printKeyValue(w, "root "+side.String(), describeOutcome(sol, side))
	}

	for _, pair := range sol.Overlaps {
		printWarning(w, "circles %d and %d overlap", pair[0], pair[1])
	}
}

func describeOutcome(sol *planner.Solution, side geometry.Side) string {
	o := sol.Left
	if side == geometry.Right {
		o = sol.Right
	}
	if !o.Found() {
		return "no path: " + o.Error
	}
	parts := []string{
		fmt.Sprintf("cost %.3f", o.Result.TotalCost),
		fmt.Sprintf("%d expanded", o.Result.Expanded),
	}
	return strings.Join(parts, ", ")
}
