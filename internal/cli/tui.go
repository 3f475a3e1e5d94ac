package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/treelayout/pkg/hierarchy"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// scroller - cursor over a windowed list
// =============================================================================

type scroller struct {
	Cursor int
	Offset int
	Height int
}

func (s *scroller) up() {
	if s.Cursor > 0 {
		s.Cursor--
		if s.Cursor < s.Offset {
			s.Offset = s.Cursor
		}
	}
}

func (s *scroller) down(n int) {
	if s.Cursor < n-1 {
		s.Cursor++
		if s.Cursor >= s.Offset+s.Height {
			s.Offset = s.Cursor - s.Height + 1
		}
	}
}

// window returns the visible index range [start, end).
func (s *scroller) window(n int) (int, int) {
	return s.Offset, min(s.Offset+s.Height, n)
}

func (s *scroller) resize(height int) {
	s.Height = max(height, 5)
	if s.Cursor >= s.Offset+s.Height {
		s.Offset = s.Cursor - s.Height + 1
	}
}

// =============================================================================
// BrowseModel - roots list with drill-down into records
// =============================================================================

// BrowseModel is the bubbletea model for exploring a forest. It starts on
// the list of roots; enter opens the records of the selected tree and esc
// returns to the list.
type BrowseModel struct {
	Forest *hierarchy.Forest

	roots   scroller
	records scroller
	tree    *hierarchy.Tree // nil while the roots list is shown
}

// NewBrowseModel creates a browser over f.
func NewBrowseModel(f *hierarchy.Forest) BrowseModel {
	return BrowseModel{
		Forest:  f,
		roots:   scroller{Height: 15},
		records: scroller{Height: 15},
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.tree != nil {
			return m.updateRecords(msg)
		}
		return m.updateRoots(msg)
	case tea.WindowSizeMsg:
		m.roots.resize(msg.Height - 8)
		m.records.resize(msg.Height - 8)
	}
	return m, nil
}

func (m BrowseModel) updateRoots(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.roots.up()
	case "down", "j":
		m.roots.down(len(m.Forest.Roots))
	case "enter":
		if len(m.Forest.Roots) == 0 {
			return m, nil
		}
		t, ok := m.Forest.Tree(m.Forest.Roots[m.roots.Cursor])
		if !ok {
			return m, nil // failed root, nothing to show
		}
		m.tree = t
		m.records = scroller{Height: m.records.Height}
	}
	return m, nil
}

func (m BrowseModel) updateRecords(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace", "left", "h":
		m.tree = nil
	case "up", "k":
		m.records.up()
	case "down", "j":
		m.records.down(len(m.tree.Records))
	}
	return m, nil
}

func (m BrowseModel) View() string {
	if m.tree != nil {
		return m.recordsView()
	}
	return m.rootsView()
}

func (m BrowseModel) rootsView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Trees"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	failures := make(map[string]error, len(m.Forest.Failures))
	for _, e := range m.Forest.Failures {
		failures[e.Root] = e.Err
	}

	start, end := m.roots.window(len(m.Forest.Roots))
	rows := [][]string{}
	for i := start; i < end; i++ {
		root := m.Forest.Roots[i]
		cursor := "  "
		if i == m.roots.Cursor {
			cursor = "▸ "
		}
		t, ok := m.Forest.Tree(root)
		if !ok {
			rows = append(rows, []string{cursor, root, "—", "—", "—", truncate(fmt.Sprint(failures[root]), 48)})
			continue
		}
		rows = append(rows, []string{
			cursor, root,
			strconv.Itoa(t.Span),
			strconv.Itoa(t.Depth()),
			strconv.Itoa(len(t.Records)),
			"ok",
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Root", "Span", "Depth", "Records", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := start + row
			if idx >= len(m.Forest.Roots) {
				return lipgloss.NewStyle()
			}
			_, failed := failures[m.Forest.Roots[idx]]
			base := lipgloss.NewStyle()
			if idx == m.roots.Cursor {
				base = base.Bold(true)
			}
			switch {
			case failed:
				return base.Foreground(colorRed)
			case idx == m.roots.Cursor:
				return base.Foreground(colorGreen)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.roots.Cursor+1, len(m.Forest.Roots))))
	if n := len(m.Forest.Unreached); n > 0 {
		b.WriteString("  ")
		b.WriteString(StyleWarning.Render(fmt.Sprintf("%d nodes unreachable from any root", n)))
	}

	return b.String()
}

func (m BrowseModel) recordsView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tree " + m.tree.Root))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  span %d", m.tree.Span)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  esc back  q quit"))
	b.WriteString("\n\n")

	start, end := m.records.window(len(m.tree.Records))
	rows := [][]string{}
	for i := start; i < end; i++ {
		r := m.tree.Records[i]
		target := r.Target
		if target == "" {
			target = "—"
		}
		rows = append(rows, []string{
			strings.Repeat("  ", r.XCord) + r.Node,
			target,
			strconv.Itoa(r.XCord),
			fmtCoord(r.YCord),
			fmt.Sprintf("%d–%d", r.RangeMin, r.RangeMax),
			fmt.Sprintf("%d/%d", r.BranchOrder, r.NodeClusterCount),
			strconv.Itoa(r.MaxDownstreamClusterSize),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Parent", "X", "Y", "Range", "Branch", "Capacity").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if start+row == m.records.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.records.Cursor+1, len(m.tree.Records))))

	if r := m.tree.Records[m.records.Cursor]; len(r.NodeClusterList) > 1 {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("  siblings: " + truncate(strings.Join(r.NodeClusterList, ", "), 72)))
	}

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func fmtCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
