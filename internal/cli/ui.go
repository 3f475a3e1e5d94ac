package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/treelayout/pkg/hierarchy"
	"github.com/matzehuels/treelayout/pkg/pipeline"
)

// stdout receives all human-facing output; tests swap it out.
var stdout io.Writer = os.Stdout

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings in the browser.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleWarning renders failed roots and other warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// marker is the leading glyph of a status line.
type marker struct {
	glyph string
	style lipgloss.Style
}

var (
	markOK   = marker{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	markFail = marker{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	markWarn = marker{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	markInfo = marker{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (m marker) line(msg string) string {
	return m.style.Render(m.glyph) + " " + msg
}

func (m marker) printf(format string, args ...any) {
	fmt.Fprintln(stdout, m.line(fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { markOK.printf(format, args...) }
func printError(format string, args ...any)   { markFail.printf(format, args...) }
func printInfo(format string, args ...any)    { markInfo.printf(format, args...) }

func printWarning(format string, args ...any) {
	markWarn.printf("%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile announces a written output file.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+styleValue.Render(value))
}

// printStats summarizes a run on one line, e.g.
//
//	12 edges · 2 trees · 14 records · 1 failed · cached
func printStats(stats pipeline.Stats, cached bool) {
	counts := []struct {
		n    int
		unit string
	}{
		{stats.EdgeCount, "edges"},
		{stats.TreeCount, "trees"},
		{stats.RecordCount, "records"},
	}
	var parts []string
	for _, c := range counts {
		if c.unit == "edges" && c.n == 0 {
			continue // render recomputes from a cached forest and never sees edges
		}
		parts = append(parts, styleNumber.Render(strconv.Itoa(c.n))+" "+StyleDim.Render(c.unit))
	}
	if stats.FailureCount > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d failed", stats.FailureCount)))
	}
	if cached {
		parts = append(parts, markOK.style.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printFailures warns once per root that could not be laid out.
func printFailures(f *hierarchy.Forest) {
	for _, e := range f.Failures {
		printWarning("%s: %v", e.Root, e.Err)
	}
	if n := len(f.Unreached); n > 0 {
		printDetail("%d nodes are not reachable from any root", n)
	}
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() { fmt.Fprintln(stdout) }
