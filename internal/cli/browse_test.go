package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cszdzs/sonarqube/pkg/dsm"
	"github.com/cszdzs/sonarqube/pkg/measure"
	"github.com/cszdzs/sonarqube/pkg/report"
)

func browserFixture(t *testing.T) MeasureBrowserModel {
	t.Helper()
	rep, err := report.New(1, []report.Component{
		{Ref: 1, Kind: report.KindProject, Path: "", Children: []int64{2, 3}},
		{Ref: 2, Kind: report.KindDirectory, Path: "src"},
		{Ref: 3, Kind: report.KindDirectory, Path: "lib"},
	}, nil)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}

	data := &dsm.Data{
		Components: []string{"a", "b"},
		Cells:      []dsm.CellData{{Row: 1, Col: 0, Weight: 2}, {Row: 0, Col: 1, Weight: 1, Feedback: true}},
	}
	raw, err := data.Encode()
	if err != nil {
		t.Fatalf("encode matrix: %v", err)
	}

	sink := measure.NewMemorySink()
	ctx := context.Background()
	if err := sink.Append(ctx, 2,
		measure.Numeric(measure.FileCyclesKey, 1),
		measure.Numeric(measure.FileFeedbackEdgesKey, 1),
		measure.Numeric(measure.FileTanglesKey, 1),
		measure.Numeric(measure.FileEdgesWeightKey, 3),
		measure.Binary(measure.DependencyMatrixKey, raw),
	); err != nil {
		t.Fatalf("seed sink: %v", err)
	}
	if err := sink.Append(ctx, 3,
		measure.Numeric(measure.FileCyclesKey, 0),
	); err != nil {
		t.Fatalf("seed sink: %v", err)
	}

	model, err := newMeasureBrowserModel(rep, sink)
	if err != nil {
		t.Fatalf("newMeasureBrowserModel() error = %v", err)
	}
	return model
}

func TestMeasureBrowser_RowsSortedByPath(t *testing.T) {
	m := browserFixture(t)

	if len(m.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(m.Rows))
	}
	if m.Rows[0].Path != "lib" || m.Rows[1].Path != "src" {
		t.Errorf("row order = %s, %s, want lib, src", m.Rows[0].Path, m.Rows[1].Path)
	}
}

func TestMeasureBrowser_RowMetrics(t *testing.T) {
	m := browserFixture(t)

	src := m.Rows[1]
	if src.Cycles != 1 || src.Feedback != 1 || src.Tangles != 1 || src.Weight != 3 {
		t.Errorf("src metrics = %+v", src)
	}
	if src.Matrix == nil {
		t.Error("src row has no decoded matrix")
	}
	if m.Rows[0].Matrix != nil {
		t.Error("lib row has a matrix, want none")
	}
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestMeasureBrowser_Navigation(t *testing.T) {
	m := browserFixture(t)

	next, _ := m.Update(keyMsg("j"))
	m = next.(MeasureBrowserModel)
	if m.Cursor != 1 {
		t.Errorf("cursor after j = %d, want 1", m.Cursor)
	}

	next, _ = m.Update(keyMsg("j"))
	m = next.(MeasureBrowserModel)
	if m.Cursor != 1 {
		t.Errorf("cursor clamped = %d, want 1", m.Cursor)
	}

	next, _ = m.Update(keyMsg("k"))
	m = next.(MeasureBrowserModel)
	if m.Cursor != 0 {
		t.Errorf("cursor after k = %d, want 0", m.Cursor)
	}
}

func TestMeasureBrowser_GridToggle(t *testing.T) {
	m := browserFixture(t)

	// lib has no matrix; enter must not open the grid.
	next, _ := m.Update(keyMsg("enter"))
	m = next.(MeasureBrowserModel)
	if m.ShowGrid {
		t.Error("grid opened for a row without a matrix")
	}

	next, _ = m.Update(keyMsg("j"))
	m = next.(MeasureBrowserModel)
	next, _ = m.Update(keyMsg("enter"))
	m = next.(MeasureBrowserModel)
	if !m.ShowGrid {
		t.Error("grid did not open for the src row")
	}

	next, _ = m.Update(keyMsg("esc"))
	m = next.(MeasureBrowserModel)
	if m.ShowGrid {
		t.Error("esc did not leave the grid view")
	}
}

func TestMeasureBrowser_Views(t *testing.T) {
	m := browserFixture(t)

	list := m.View()
	for _, want := range []string{"Dependency Measures", "src", "lib"} {
		if !strings.Contains(list, want) {
			t.Errorf("list view missing %q", want)
		}
	}

	m.Cursor = 1
	m.ShowGrid = true
	grid := m.View()
	if !strings.Contains(grid, "DSM src") {
		t.Errorf("grid view missing title:\n%s", grid)
	}
	if !strings.Contains(grid, "1*") {
		t.Errorf("grid view missing feedback marker:\n%s", grid)
	}
}
