package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/cszdzs/sonarqube/pkg/dsm"
	"github.com/cszdzs/sonarqube/pkg/measure"
	"github.com/cszdzs/sonarqube/pkg/report"
)

// List styles
var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// browseCommand creates the browse command for inspecting measures in a TUI.
func (c *CLI) browseCommand() *cobra.Command {
	opts := pipelineOptions{}
	var measuresPath string

	cmd := &cobra.Command{
		Use:   "browse [report.json]",
		Short: "Browse computed measures in an interactive table",
		Long: `Browse computed measures in an interactive table.

The browse command runs the aggregation over the report and opens an
interactive table of every component that produced a matrix, with its cycle,
feedback edge, tangle and edge weight measures. Selecting a component shows
its dependency structure matrix: forward dependencies below the diagonal,
feedback edges above it.

With --measures, a previously written JSON-lines file is loaded instead of
recomputing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.reportPath = args[0]

			rep, err := report.LoadFile(opts.reportPath)
			if err != nil {
				return err
			}
			var sink *measure.MemorySink
			if measuresPath != "" {
				if sink, err = measure.ReadFile(measuresPath); err != nil {
					return err
				}
			} else {
				res, err := c.runPipeline(cmd.Context(), opts)
				if err != nil {
					return err
				}
				sink = res.measures
			}

			model, err := newMeasureBrowserModel(rep, sink)
			if err != nil {
				return err
			}
			if len(model.Rows) == 0 {
				printWarning("No matrices were computed; nothing to browse")
				return nil
			}
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	addPipelineFlags(cmd, &opts)
	cmd.Flags().StringVar(&measuresPath, "measures", "", "load measures from a JSON-lines file instead of recomputing")

	return cmd
}

// =============================================================================
// MeasureBrowserModel - Interactive measure table with a matrix detail view
// =============================================================================

// measureRow is one component's metrics in the browser table.
type measureRow struct {
	Ref      int64
	Path     string
	Kind     report.Kind
	Cycles   int
	Feedback int
	Tangles  int
	Weight   int
	Matrix   *dsm.Data
}

// MeasureBrowserModel is the bubbletea model for browsing computed measures.
type MeasureBrowserModel struct {
	Rows     []measureRow
	Cursor   int
	Height   int
	Offset   int
	ShowGrid bool // detail view of the selected component's matrix
}

// newMeasureBrowserModel builds the table rows from the report and the sink.
func newMeasureBrowserModel(rep *report.Report, sink *measure.MemorySink) (MeasureBrowserModel, error) {
	m := MeasureBrowserModel{Height: 15}
	for _, ref := range sink.Refs() {
		c, err := rep.Component(ref)
		if err != nil {
			return m, err
		}
		row := measureRow{Ref: ref, Path: c.Path, Kind: c.Kind}
		if row.Path == "" {
			row.Path = "(root)"
		}
		for _, ms := range sink.ByRef(ref) {
			switch ms.MetricKey {
			case measure.FileCyclesKey, measure.DirectoryCyclesKey:
				row.Cycles = int(ms.Value)
			case measure.FileFeedbackEdgesKey, measure.DirectoryFeedbackEdgesKey:
				row.Feedback = int(ms.Value)
			case measure.FileTanglesKey, measure.DirectoryTanglesKey:
				row.Tangles = int(ms.Value)
			case measure.FileEdgesWeightKey, measure.DirectoryEdgesWeightKey:
				row.Weight = int(ms.Value)
			case measure.DependencyMatrixKey:
				data, err := dsm.Decode(ms.Data)
				if err != nil {
					return m, err
				}
				row.Matrix = data
			}
		}
		m.Rows = append(m.Rows, row)
	}
	sort.Slice(m.Rows, func(i, j int) bool { return m.Rows[i].Path < m.Rows[j].Path })
	return m, nil
}

func (m MeasureBrowserModel) Init() tea.Cmd {
	return nil
}

func (m MeasureBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.ShowGrid {
				m.ShowGrid = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if !m.ShowGrid && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if !m.ShowGrid && m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if m.Rows[m.Cursor].Matrix != nil {
				m.ShowGrid = true
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m MeasureBrowserModel) View() string {
	if m.ShowGrid {
		return m.gridView()
	}
	return m.listView()
}

// listView draws the measure table.
func (m MeasureBrowserModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Dependency Measures"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ matrix  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor, r.Path, string(r.Kind),
			fmt.Sprintf("%d", r.Cycles),
			fmt.Sprintf("%d", r.Feedback),
			fmt.Sprintf("%d", r.Tangles),
			fmt.Sprintf("%d", r.Weight),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Component", "Kind", "Cycles", "Feedback", "Tangles", "Weight").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.Offset + row
			if actualIdx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			r := m.Rows[actualIdx]
			base := lipgloss.NewStyle()
			if actualIdx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			if r.Cycles > 0 && col >= 3 {
				return base.Foreground(colorYellow)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// gridView draws the selected component's matrix: rows and columns share one
// index order, cell (i,j) holds the weight of the dependency j→i, and
// feedback cells are highlighted.
func (m MeasureBrowserModel) gridView() string {
	r := m.Rows[m.Cursor]
	data := r.Matrix
	n := len(data.Components)

	cells := make(map[[2]int]dsm.CellData, len(data.Cells))
	for _, cell := range data.Cells {
		cells[[2]int{cell.Row, cell.Col}] = cell
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("DSM %s", r.Path)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, n)
	headers := make([]string, n+1)
	headers[0] = ""
	for j := 0; j < n; j++ {
		headers[j+1] = fmt.Sprintf("%d", j+1)
	}
	for i := 0; i < n; i++ {
		row := make([]string, n+1)
		row[0] = fmt.Sprintf("%d", i+1)
		for j := 0; j < n; j++ {
			if i == j {
				row[j+1] = "·"
				continue
			}
			cell, ok := cells[[2]int{i, j}]
			if !ok {
				row[j+1] = ""
				continue
			}
			if cell.Feedback {
				row[j+1] = fmt.Sprintf("%d*", cell.Weight)
			} else {
				row[j+1] = fmt.Sprintf("%d", cell.Weight)
			}
		}
		rows[i] = row
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 || col == 0 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			if _, ok := cells[[2]int{row, col - 1}]; ok {
				if cells[[2]int{row, col - 1}].Feedback {
					return lipgloss.NewStyle().Foreground(colorRed).Bold(true)
				}
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d components  %d feedback edges (*)", n, r.Feedback)))

	return b.String()
}
