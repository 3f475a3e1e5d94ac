package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/treelayout/pkg/hierarchy"
)

func testTree(t *testing.T) *hierarchy.Tree {
	t.Helper()
	f, err := hierarchy.Layout([]hierarchy.Edge{
		{Child: "A"},
		{Child: "B", Parent: "A"},
		{Child: "C", Parent: "A"},
		{Child: "D", Parent: "B"},
		{Child: "E", Parent: "B"},
		{Child: "F", Parent: "C"},
	})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	tree, ok := f.Tree("A")
	if !ok {
		t.Fatalf("Tree(A) missing: %v", f.Err())
	}
	return tree
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testTree(t), Options{Scale: 1})

	for _, want := range []string{
		`digraph "A" {`,
		`layout=neato;`,
		`"A" [label="A", pos="0,2!", fillcolor=lightgrey];`,
		`"B" [label="B", pos="1,2.5!"];`,
		`"D" [label="D", pos="2,3!"];`,
		`"F" [label="F", pos="2,1!"];`,
		`"A" -> "B";`,
		`"C" -> "F";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if got := strings.Count(dot, "->"); got != 5 {
		t.Errorf("edges = %d, want 5", got)
	}
}

func TestToDOTDefaults(t *testing.T) {
	dot := ToDOT(testTree(t), Options{Detailed: true})
	if !strings.Contains(dot, `pos="1.5,3.75!"`) {
		t.Errorf("ToDOT() did not apply DefaultScale to B:\n%s", dot)
	}
	if !strings.Contains(dot, `slots: 1-2 (2)`) {
		t.Errorf("ToDOT() detailed label missing range:\n%s", dot)
	}
}

func TestScalableSVG(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(scalableSVG(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if got != want {
		t.Errorf("scalableSVG() = %s, want %s", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := scalableSVG(plain); string(got) != string(plain) {
		t.Errorf("scalableSVG() changed svg without viewBox: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testTree(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	out := string(svg)
	if !strings.Contains(out, `viewBox="0 0 `) {
		t.Errorf("RenderSVG() root tag not scalable:\n%.300s", out)
	}
	for _, node := range []string{">A<", ">F<"} {
		if !strings.Contains(out, node) {
			t.Errorf("RenderSVG() missing node label %s", node)
		}
	}

	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("RenderSVG() accepted malformed dot")
	}
}
