// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selector

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	itemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Picker is a full-screen terminal list of candidate files.
type Picker struct {
	In  io.Reader
	Out io.Writer
}

func (p *Picker) Select(files []string) (string, error) {
	if len(files) == 0 {
		fmt.Fprintln(p.Out, "No .md files found.")
		return "", ErrNoSelection
	}

	prog := tea.NewProgram(newPickerModel(files), tea.WithInput(p.In), tea.WithOutput(p.Out))
	final, err := prog.Run()
	if err != nil {
		return "", fmt.Errorf("running file picker: %w", err)
	}

	m, ok := final.(pickerModel)
	if !ok || m.cancelled || m.chosen == "" {
		return "", ErrNoSelection
	}
	return m.chosen, nil
}

// pickerModel is the bubbletea model behind Picker.
type pickerModel struct {
	files     []string
	cursor    int
	chosen    string
	cancelled bool
}

func newPickerModel(files []string) pickerModel {
	return pickerModel{files: files}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.files)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.files) - 1
	case "enter":
		m.chosen = m.files[m.cursor]
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.chosen != "" || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Select the Markdown file to convert"))
	b.WriteString("\n\n")

	for i, f := range m.files {
		cursor := "  "
		style := itemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedStyle
		}
		b.WriteString(cursor + style.Render(fmt.Sprintf("%d. %s", i+1, filepath.Base(f))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("[j/k] Navigate  [Enter] Convert  [q] Cancel"))
	return b.String()
}
