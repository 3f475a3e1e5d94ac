package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treelayout/pkg/hierarchy"
)

// DefaultScale is the distance in inches between neighbouring depths and
// between neighbouring slots.
const DefaultScale = 1.5

// Options configures node-link diagram rendering.
type Options struct {
	// Scale multiplies layout coordinates into inches. Zero means
	// [DefaultScale].
	Scale float64
	// Detailed adds depth, slot range and capacity to node labels.
	// When false, only the node ID is shown.
	Detailed bool
}

// ToDOT converts a tree layout to Graphviz DOT with every node pinned at its
// computed coordinates. Depth runs left to right and y runs top to bottom,
// so the first slot is drawn at the top.
//
// The output is meant for the neato engine, which honours pinned positions;
// [RenderSVG] selects it.
func ToDOT(t *hierarchy.Tree, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", t.Root)
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("\n")

	for _, r := range t.Records {
		x := float64(r.XCord) * scale
		y := float64(t.Span+1) - r.YCord // flip: slot 1 on top
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(r, opts.Detailed)),
			fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(x), fmtFloat(y*scale)),
		}
		if r.IsRoot() {
			attrs = append(attrs, "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", r.Node, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, r := range t.Records {
		if !r.IsRoot() {
			fmt.Fprintf(&buf, "  %q -> %q;\n", r.Target, r.Node)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(r hierarchy.Record, detailed bool) string {
	if !detailed {
		return r.Node
	}
	return fmt.Sprintf("%s\nx: %d  y: %s\nslots: %d-%d (%d)",
		r.Node, r.XCord, fmtFloat(r.YCord), r.RangeMin, r.RangeMax, r.MaxDownstreamClusterSize)
}

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// RenderSVG lays out a DOT graph from [ToDOT] with neato, which keeps the
// pinned positions, and returns it as a responsive SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse dot: %w", err)
	}
	defer g.Close()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("graphviz: %w", err)
	}
	defer gv.Close()

	var out bytes.Buffer
	if err := gv.SetLayout(graphviz.NEATO).Render(ctx, g, graphviz.SVG, &out); err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	return scalableSVG(out.Bytes()), nil
}

// svgOpenRe matches the root <svg> tag and captures the width and height
// of its viewBox.
var svgOpenRe = regexp.MustCompile(`<svg[^>]*\sviewBox="[0-9.]+\s+[0-9.]+\s+([0-9.]+)\s+([0-9.]+)"[^>]*>`)

// scalableSVG swaps the fixed pt width and height Graphviz writes for a
// viewBox origin at zero, so browsers and spreadsheets can resize the
// diagram. Input without a usable viewBox is returned unchanged.
func scalableSVG(svg []byte) []byte {
	loc := svgOpenRe.FindSubmatchIndex(svg)
	if loc == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(svg[loc[2]:loc[3]]), 64)
	h, _ := strconv.ParseFloat(string(svg[loc[4]:loc[5]]), 64)
	if w <= 0 || h <= 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	out := make([]byte, 0, len(svg)+len(tag))
	out = append(out, svg[:loc[0]]...)
	out = append(out, tag...)
	return append(out, svg[loc[1]:]...)
}
