// Package menu implements a single-select terminal menu. Options written
// as "[k] label" can be picked directly by pressing k.
package menu

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/seqmail/internal/keys"
	"github.com/nhle/seqmail/internal/theme"
)

// shortcutPattern matches a leading "[k] " mnemonic.
var shortcutPattern = regexp.MustCompile(`^\[([^\]\s]+)\]\s`)

// Shortcut returns the mnemonic key of an option, or "" if it has none.
func Shortcut(option string) string {
	m := shortcutPattern.FindStringSubmatch(option)
	if m == nil {
		return ""
	}
	return m[1]
}

// Model is the Bubble Tea model for one menu invocation.
type Model struct {
	title       string
	options     []string
	shortcuts   []string
	cursor      int
	keys        *keys.KeyMap
	help        help.Model
	chosen      int
	done        bool
	interrupted bool
}

// New creates a menu model. A nil km selects keys.DefaultKeyMap.
func New(title string, options []string, km *keys.KeyMap) Model {
	if km == nil {
		km = keys.DefaultKeyMap()
	}

	shortcuts := make([]string, len(options))
	for i, opt := range options {
		shortcuts[i] = Shortcut(opt)
	}

	return Model{
		title:     title,
		options:   options,
		shortcuts: shortcuts,
		keys:      km,
		help:      help.New(),
		chosen:    -1,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses. Shortcuts take precedence over navigation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.done {
		return m, nil
	}

	if idx := m.shortcutIndex(keyMsg.String()); idx >= 0 {
		return m.finish(idx), tea.Quit
	}

	switch {
	case key.Matches(keyMsg, m.keys.Interrupt):
		m.interrupted = true
		return m.finish(-1), tea.Quit
	case key.Matches(keyMsg, m.keys.Back):
		return m.finish(-1), tea.Quit
	case key.Matches(keyMsg, m.keys.Select):
		if len(m.options) == 0 {
			return m.finish(-1), tea.Quit
		}
		return m.finish(m.cursor), tea.Quit
	case key.Matches(keyMsg, m.keys.Down):
		if len(m.options) > 0 {
			m.cursor = (m.cursor + 1) % len(m.options)
		}
	case key.Matches(keyMsg, m.keys.Up):
		if len(m.options) > 0 {
			m.cursor = (m.cursor - 1 + len(m.options)) % len(m.options)
		}
	}

	return m, nil
}

func (m Model) shortcutIndex(pressed string) int {
	for i, s := range m.shortcuts {
		if s != "" && s == pressed {
			return i
		}
	}
	return -1
}

func (m Model) finish(idx int) Model {
	m.chosen = idx
	m.done = true
	return m
}

// Chosen returns the selected index, or false if the menu was cancelled.
func (m Model) Chosen() (int, bool) {
	if !m.done || m.chosen < 0 {
		return 0, false
	}
	return m.chosen, true
}

// Interrupted reports whether the menu was closed with ctrl+c.
func (m Model) Interrupted() bool {
	return m.interrupted
}

// Cursor returns the index of the focused option.
func (m Model) Cursor() int {
	return m.cursor
}

// View renders the menu. Once finished only the title and the choice
// remain on screen.
func (m Model) View() string {
	title := theme.TitleStyle.Render(m.title)

	if m.done {
		if m.chosen < 0 {
			return ""
		}
		return title + " " + theme.SuccessStyle.Render(m.options[m.chosen]) + "\n"
	}

	lines := make([]string, 0, len(m.options)+2)
	lines = append(lines, title)
	for i, opt := range m.options {
		if i == m.cursor {
			lines = append(lines, theme.SelectedItemStyle.Render(opt))
		} else {
			lines = append(lines, theme.ListItemStyle.Render(opt))
		}
	}
	lines = append(lines, theme.HelpStyle.Render(m.help.View(m.keys)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

// String renders the options as plain text, mainly for logs.
func (m Model) String() string {
	return m.title + ": " + strings.Join(m.options, ", ")
}
