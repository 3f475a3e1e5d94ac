package hierarchy

import (
	"errors"
	"testing"
)

func TestRangeMid(t *testing.T) {
	tests := []struct {
		r    Range
		want float64
	}{
		{Range{1, 1}, 1.0},
		{Range{1, 2}, 1.5},
		{Range{1, 3}, 2.0},
		{Range{4, 7}, 5.5},
	}
	for _, tt := range tests {
		if got := tt.r.Mid(); got != tt.want {
			t.Errorf("%v.Mid() = %v, want %v", tt.r, got, tt.want)
		}
		if got, want := tt.r.Width(), tt.r.Max-tt.r.Min+1; got != want {
			t.Errorf("%v.Width() = %d, want %d", tt.r, got, want)
		}
	}
}

func TestCapacities(t *testing.T) {
	g, err := NewGraph(scenarioEdges())
	if err != nil {
		t.Fatal(err)
	}
	caps := capacities(g, []string{"A", "B", "D", "E", "C", "F"})
	want := map[string]int{"A": 3, "B": 2, "C": 1, "D": 1, "E": 1, "F": 1}
	for id, w := range want {
		if caps[id] != w {
			t.Errorf("capacity(%s) = %d, want %d", id, caps[id], w)
		}
	}
}

func TestAllocate(t *testing.T) {
	g, err := NewGraph(scenarioEdges())
	if err != nil {
		t.Fatal(err)
	}
	caps := map[string]int{"A": 3, "B": 2, "C": 1, "D": 1, "E": 1, "F": 1}
	ranges, err := allocate(g, "A", caps)
	if err != nil {
		t.Fatalf("allocate() error: %v", err)
	}
	want := map[string]Range{
		"A": {1, 3},
		"B": {1, 2},
		"D": {1, 1},
		"E": {2, 2},
		"C": {3, 3},
		"F": {3, 3},
	}
	for id, w := range want {
		if ranges[id] != w {
			t.Errorf("range(%s) = %v, want %v", id, ranges[id], w)
		}
	}
}

func TestAllocateOverflow(t *testing.T) {
	g, err := NewGraph(scenarioEdges())
	if err != nil {
		t.Fatal(err)
	}
	// Root capacity too small for its children.
	caps := map[string]int{"A": 2, "B": 2, "C": 1, "D": 1, "E": 1, "F": 1}
	_, err = allocate(g, "A", caps)
	if !errors.Is(err, ErrCapacityOverflow) {
		t.Fatalf("allocate() error = %v, want %v", err, ErrCapacityOverflow)
	}
	var ce *CapacityOverflowError
	if !errors.As(err, &ce) {
		t.Fatalf("error %T is not *CapacityOverflowError", err)
	}
	if ce.Node != "C" || ce.Parent != "A" || ce.Needed != 1 || ce.Remaining != 0 {
		t.Errorf("CapacityOverflowError = %+v, want {C A 1 0}", *ce)
	}
}
