package selector

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user leaves the prompt without choosing.
var ErrCancelled = errors.New("selection cancelled")

const defaultHeight = 10

var (
	promptStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

type Model struct {
	prompt    string
	items     []string
	cursor    int
	offset    int
	height    int
	keys      keyMap
	chosen    bool
	cancelled bool
}

func New(prompt string, items []string, initial int) Model {
	m := Model{
		prompt: prompt,
		items:  items,
		height: defaultHeight,
		keys:   defaultKeyMap(),
	}
	if initial >= 0 && initial < len(items) {
		m.cursor = initial
	}
	m.scroll()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// prompt line + help line
		if h := msg.Height - 2; h > 0 && h < defaultHeight {
			m.height = h
		} else {
			m.height = defaultHeight
		}
		m.scroll()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			if len(m.items) > 0 {
				m.chosen = true
				return m, tea.Quit
			}
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Top):
			m.cursor = 0
		case key.Matches(msg, m.keys.Bottom):
			m.cursor = max(len(m.items)-1, 0)
		}
		m.scroll()
	}
	return m, nil
}

func (m *Model) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m Model) View() string {
	if m.chosen || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(promptStyle.Render("? " + m.prompt))
	b.WriteString("\n")
	end := min(m.offset+m.height, len(m.items))
	for i := m.offset; i < end; i++ {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "))
			b.WriteString(selectedStyle.Render(m.items[i]))
		} else {
			b.WriteString("  ")
			b.WriteString(m.items[i])
		}
		b.WriteString("\n")
	}
	help := make([]string, 0, 4)
	for _, binding := range m.keys.help() {
		h := binding.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return b.String()
}

// Cursor returns the highlighted index.
func (m Model) Cursor() int {
	return m.cursor
}

// Result reports the chosen index once the program has finished.
func (m Model) Result() (int, error) {
	if m.cancelled || !m.chosen {
		return -1, ErrCancelled
	}
	return m.cursor, nil
}

// Picker runs the prompt as a bubbletea program on the given streams.
type Picker struct {
	In  io.Reader
	Out io.Writer
}

func (p Picker) Pick(prompt string, items []string, initial int) (int, error) {
	if len(items) == 0 {
		return -1, errors.New("selector: nothing to choose from")
	}
	opts := []tea.ProgramOption{}
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}
	final, err := tea.NewProgram(New(prompt, items, initial), opts...).Run()
	if err != nil {
		return -1, fmt.Errorf("selector: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return -1, fmt.Errorf("selector: unexpected model %T", final)
	}
	return m.Result()
}
