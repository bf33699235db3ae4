package dsm

import (
	"fmt"
	"testing"

	"github.com/cszdzs/sonarqube/pkg/graph"
)

func refUUID(ref int64) (string, error) {
	return fmt.Sprintf("uuid-%d", ref), nil
}

func TestBuild_SparseCellsInMatrixOrder(t *testing.T) {
	g := buildGraph(
		graph.Dependency{From: 1, To: 2, Weight: 3},
		graph.Dependency{From: 2, To: 3, Weight: 4},
	)
	m := New(g, solve(g))
	if err := m.Sort(); err != nil {
		t.Fatalf("Sort() error = %v", err)
	}

	data, err := Build(m, refUUID)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantComponents := []string{"uuid-1", "uuid-2", "uuid-3"}
	for i, want := range wantComponents {
		if data.Components[i] != want {
			t.Errorf("Components[%d] = %q, want %q", i, data.Components[i], want)
		}
	}

	want := []CellData{
		{Row: 1, Col: 0, Weight: 3},
		{Row: 2, Col: 1, Weight: 4},
	}
	if len(data.Cells) != len(want) {
		t.Fatalf("got %d cells, want %d: %v", len(data.Cells), len(want), data.Cells)
	}
	for i := range want {
		if data.Cells[i] != want[i] {
			t.Errorf("Cells[%d] = %+v, want %+v", i, data.Cells[i], want[i])
		}
	}
}

func TestBuild_ResolveFailureAborts(t *testing.T) {
	g := buildGraph(graph.Dependency{From: 1, To: 2, Weight: 1})
	m := New(g, solve(g))

	_, err := Build(m, func(ref int64) (string, error) {
		return "", fmt.Errorf("unknown ref %d", ref)
	})
	if err == nil {
		t.Fatal("Build() error = nil, want resolution failure")
	}
}

func TestEncodeDecode_PreservesFeedbackFlag(t *testing.T) {
	g := buildGraph(
		graph.Dependency{From: 1, To: 2, Weight: 1},
		graph.Dependency{From: 2, To: 1, Weight: 2},
	)
	m := New(g, solve(g))
	if err := m.Sort(); err != nil {
		t.Fatalf("Sort() error = %v", err)
	}

	data, err := Build(m, refUUID)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	raw, err := data.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	feedback := 0
	for _, cell := range decoded.Cells {
		if cell.Feedback {
			feedback++
		}
	}
	if feedback != 1 {
		t.Errorf("decoded feedback cells = %d, want 1", feedback)
	}
	if len(decoded.Components) != 2 {
		t.Errorf("decoded components = %d, want 2", len(decoded.Components))
	}
}
