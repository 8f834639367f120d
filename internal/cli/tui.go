package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/enorganic/requirements/pkg/deps"
	"github.com/enorganic/requirements/pkg/deps/python"
	"github.com/enorganic/requirements/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// SourceListModel - Interactive requirement file selection
// =============================================================================

// SourceListModel is the bubbletea model for picking requirement files.
// Every file starts selected.
type SourceListModel struct {
	Files     []string
	Types     []string
	Cursor    int
	Chosen    []bool
	Done      bool
	Cancelled bool
}

// NewSourceListModel creates a picker for files.
func NewSourceListModel(files []string) SourceListModel {
	m := SourceListModel{
		Files:  files,
		Types:  make([]string, len(files)),
		Chosen: make([]bool, len(files)),
	}
	for i, f := range files {
		m.Chosen[i] = true
		if s, err := deps.DetectSource(f, python.Sources()...); err == nil {
			m.Types[i] = s.Type()
		}
	}
	return m
}

func (m SourceListModel) Init() tea.Cmd {
	return nil
}

func (m SourceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.Cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Files)-1 {
			m.Cursor++
		}
	case " ", "x":
		m.Chosen[m.Cursor] = !m.Chosen[m.Cursor]
	case "a":
		all := !m.allChosen()
		for i := range m.Chosen {
			m.Chosen[i] = all
		}
	case "enter":
		m.Done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SourceListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Requirement Files"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Files))
	for i, f := range m.Files {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		if m.Chosen[i] {
			mark = "[" + iconSuccess + "]"
		}
		rows[i] = []string{cursor, mark, f, m.Types[i]}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "File", "Type").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == m.Cursor:
				return listSelectedStyle
			case !m.Chosen[row]:
				return listDimStyle
			default:
				return listNormalStyle
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", len(m.Selected()), len(m.Files))))
	return b.String()
}

// Selected returns the chosen files in list order.
func (m SourceListModel) Selected() []string {
	var out []string
	for i, f := range m.Files {
		if m.Chosen[i] {
			out = append(out, f)
		}
	}
	return out
}

func (m SourceListModel) allChosen() bool {
	for _, c := range m.Chosen {
		if !c {
			return false
		}
	}
	return true
}

// pickSources lets the user choose among files on the terminal.
func pickSources(files []string) ([]string, error) {
	final, err := tea.NewProgram(NewSourceListModel(files), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "file picker")
	}
	m := final.(SourceListModel)
	if m.Cancelled {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no requirement files selected")
	}
	selected := m.Selected()
	if len(selected) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no requirement files selected")
	}
	return selected, nil
}
