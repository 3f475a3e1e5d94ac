package sink

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/treelayout/pkg/errors"
	"github.com/matzehuels/treelayout/pkg/export"
	"github.com/matzehuels/treelayout/pkg/hierarchy"
)

func testForest(t *testing.T) *hierarchy.Forest {
	t.Helper()
	f, err := hierarchy.Layout([]hierarchy.Edge{
		{Child: "A"},
		{Child: "B", Parent: "A"},
		{Child: "C", Parent: "A"},
		{Child: "Z"},
		{Child: "Z", Parent: "Z"},
		{Child: "solo"},
	})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	return f
}

func TestRenderCSV(t *testing.T) {
	f := testForest(t)
	tree, _ := f.Tree("A")

	data, err := RenderCSV(export.Flatten(tree))
	if err != nil {
		t.Fatalf("RenderCSV() error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 6 {
		t.Fatalf("lines = %d, want 6 (header + 2 target + 3 source)", len(lines))
	}
	if lines[0] != strings.Join(export.Columns, ",") {
		t.Errorf("header = %q", lines[0])
	}
	if want := "A,B,A,0,1.5,1,2,1,2,1,2,target"; lines[1] != want {
		t.Errorf("first row = %q, want %q", lines[1], want)
	}
}

func TestRenderJSON(t *testing.T) {
	f := testForest(t)

	data, err := RenderJSON(f, WithJSONRunID("run-1"), WithJSONVersion("v1.2.3"))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", out.RunID)
	}
	if out.Version != "v1.2.3" {
		t.Errorf("Version = %q, want v1.2.3", out.Version)
	}
	if !slices.Equal(out.Roots, []string{"A", "Z", "solo"}) {
		t.Errorf("Roots = %v, want [A Z solo]", out.Roots)
	}
	if len(out.Trees) != 2 {
		t.Fatalf("Trees = %d, want 2", len(out.Trees))
	}
	if out.Trees[0].Records != nil {
		t.Error("Records included without WithJSONRecords")
	}
	if len(out.Failures) != 1 || out.Failures[0].Root != "Z" {
		t.Errorf("Failures = %v, want one for Z", out.Failures)
	}
}

func TestRenderJSONWithRecords(t *testing.T) {
	data, err := RenderJSON(testForest(t), WithJSONRecords())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if got := len(out.Trees[0].Records); got != 3 {
		t.Errorf("Records = %d, want 3", got)
	}
	if out.RunID != "" {
		t.Errorf("RunID = %q, want empty", out.RunID)
	}
}

func TestRenderXLSX(t *testing.T) {
	f := testForest(t)

	data, err := RenderXLSX(f.Trees)
	if err != nil {
		t.Fatalf("RenderXLSX() error: %v", err)
	}

	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error: %v", err)
	}
	defer book.Close()

	if got := book.GetSheetList(); !slices.Equal(got, []string{"A", "solo"}) {
		t.Errorf("sheets = %v, want [A solo]", got)
	}
	rows, err := book.GetRows("A")
	if err != nil {
		t.Fatalf("GetRows() error: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want 6", len(rows))
	}
	if !slices.Equal(rows[0], export.Columns) {
		t.Errorf("header = %v", rows[0])
	}
	if rows[5][1] != "C" || rows[5][4] != "2" {
		t.Errorf("last row = %v, want node C at y 2", rows[5])
	}
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"A", "A"},
		{"a/b:c", "a_b_c"},
		{"[x]*?", "_x___"},
		{"'quoted'", "quoted"},
		{strings.Repeat("n", 40), strings.Repeat("n", 31)},
		{"", "root"},
	}
	for _, tt := range tests {
		if got := SheetName(tt.in); got != tt.want {
			t.Errorf("SheetName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUniqueSheetName(t *testing.T) {
	used := map[string]bool{}
	long := strings.Repeat("n", 31)
	got := []string{
		uniqueSheetName("a/b", used),
		uniqueSheetName("A/B", used),
		uniqueSheetName(long, used),
		uniqueSheetName(long, used),
	}
	want := []string{"a/b", "A/B~2", long, strings.Repeat("n", 29) + "~2"}
	if !slices.Equal(got, want) {
		t.Errorf("uniqueSheetName() = %v, want %v", got, want)
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats("CSV, xlsx,csv,,svg")
	if err != nil {
		t.Fatalf("ParseFormats() error: %v", err)
	}
	if want := []string{"csv", "xlsx", "svg"}; !slices.Equal(got, want) {
		t.Errorf("ParseFormats() = %v, want %v", got, want)
	}

	for _, in := range []string{"", "pdf", "csv,png"} {
		if _, err := ParseFormats(in); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ParseFormats(%q) error = %v, want INVALID_FORMAT", in, err)
		}
	}
}

func TestIsTabular(t *testing.T) {
	for _, f := range Formats {
		want := f != FormatDOT && f != FormatSVG
		if got := IsTabular(f); got != want {
			t.Errorf("IsTabular(%q) = %v, want %v", f, got, want)
		}
	}
}
