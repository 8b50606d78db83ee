package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/ifcqto/pkg/takeoff"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ElementBrowserModel - Interactive takeoff browser
// =============================================================================

// ElementBrowserModel is the bubbletea model of the browse command: a
// scrolling element table above a detail pane with the material shares of
// the element under the cursor.
type ElementBrowserModel struct {
	Title    string
	Elements []takeoff.Element
	Cursor   int
	Offset   int
	Height   int
	Selected *takeoff.Element
}

// NewElementBrowserModel creates a browser over elements.
func NewElementBrowserModel(title string, elements []takeoff.Element) ElementBrowserModel {
	return ElementBrowserModel{
		Title:    title,
		Elements: elements,
		Height:   12,
	}
}

func (m ElementBrowserModel) Init() tea.Cmd {
	return nil
}

func (m ElementBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor - 1)
		case "down", "j":
			m.moveTo(m.Cursor + 1)
		case "pgup":
			m.moveTo(m.Cursor - m.Height)
		case "pgdown", " ":
			m.moveTo(m.Cursor + m.Height)
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(len(m.Elements) - 1)
		case "enter":
			if len(m.Elements) == 0 {
				return m, nil
			}
			el := m.Elements[m.Cursor]
			m.Selected = &el
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		// Leave room for the title, help line and the detail pane.
		m.Height = msg.Height - 20
		if m.Height < 5 {
			m.Height = 5
		}
		m.moveTo(m.Cursor)
	}
	return m, nil
}

// moveTo places the cursor at i, clamped to the list, and scrolls it into
// view.
func (m *ElementBrowserModel) moveTo(i int) {
	if i >= len(m.Elements) {
		i = len(m.Elements) - 1
	}
	if i < 0 {
		i = 0
	}
	m.Cursor = i
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m ElementBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  pgup/pgdn page  ⏎ print element  q quit"))
	b.WriteString("\n\n")

	if len(m.Elements) == 0 {
		b.WriteString(listDimStyle.Render("  No elements"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Elements))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		el := m.Elements[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		var net *float64
		if el.Volume != nil {
			net = el.Volume.Net
		}
		rows = append(rows, []string{
			cursor, el.ID, el.Type, truncate(el.Name, 36), el.Level,
			formatOptional(net, 3), formatOptional(&el.Area, 3),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Type", "Name", "Level", "Net Volume", "Area").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			style := listNormalStyle
			if m.Offset+row == m.Cursor {
				style = listSelectedStyle
			}
			if col >= 5 {
				style = style.Align(lipgloss.Right)
			}
			return style
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Elements))))
	b.WriteString("\n\n")
	b.WriteString(m.detail(m.Elements[m.Cursor]))

	return b.String()
}

// detail renders the classification and material shares of el.
func (m ElementBrowserModel) detail(el takeoff.Element) string {
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(el.Name))
	b.WriteString(listDimStyle.Render("  " + el.GlobalID))
	b.WriteString("\n")
	if el.ClassificationID != "" {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%s %s %s", el.ClassificationSystem, el.ClassificationID, el.ClassificationName)))
		b.WriteString("\n")
	}
	if el.MaterialVolumes.Len() == 0 {
		b.WriteString(listDimStyle.Render("No materials"))
		return b.String()
	}
	t := newTable([]string{"Material", "Share", "Volume", "Width (mm)"}, 1, 2, 3).Rows(materialRows(el.MaterialVolumes)...)
	b.WriteString(t.Render())
	return b.String()
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
