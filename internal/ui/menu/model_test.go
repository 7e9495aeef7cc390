package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

var options = []string{"[s] Skip", "[d] Delete", "Plain entry", "[1] Delete after 1 year"}

func TestShortcut(t *testing.T) {
	assert.Equal(t, "s", Shortcut("[s] Skip"))
	assert.Equal(t, "1", Shortcut("[1] Delete after 1 year"))
	assert.Equal(t, "", Shortcut("Plain entry"))
	assert.Equal(t, "", Shortcut("[s]NoSpace"))
}

func TestModel_ShortcutSelects(t *testing.T) {
	m, cmd := press(t, New("Pick", options, nil), runes("1"))

	idx, ok := m.Chosen()
	require.True(t, ok)
	assert.Equal(t, 3, idx)
	assert.NotNil(t, cmd, "menu quits after a choice")
}

func TestModel_NavigateAndSelect(t *testing.T) {
	m, _ := press(t, New("Pick", options, nil),
		tea.KeyMsg{Type: tea.KeyDown},
		runes("j"),
		tea.KeyMsg{Type: tea.KeyUp},
	)
	assert.Equal(t, 1, m.Cursor())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	idx, ok := m.Chosen()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestModel_CursorWraps(t *testing.T) {
	m, _ := press(t, New("Pick", options, nil), tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, len(options)-1, m.Cursor())
}

func TestModel_EscCancels(t *testing.T) {
	m, cmd := press(t, New("Pick", options, nil), tea.KeyMsg{Type: tea.KeyEsc})

	_, ok := m.Chosen()
	assert.False(t, ok)
	assert.False(t, m.Interrupted())
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestModel_CtrlCInterrupts(t *testing.T) {
	m, _ := press(t, New("Pick", options, nil), tea.KeyMsg{Type: tea.KeyCtrlC})

	_, ok := m.Chosen()
	assert.False(t, ok)
	assert.True(t, m.Interrupted())
}

func TestModel_UnknownKeyIgnored(t *testing.T) {
	m, cmd := press(t, New("Pick", options, nil), runes("z"))

	_, ok := m.Chosen()
	assert.False(t, ok)
	assert.Nil(t, cmd)
}

func TestModel_ViewListsOptions(t *testing.T) {
	view := New("What do you want to do?", options, nil).View()

	assert.Contains(t, view, "What do you want to do?")
	for _, opt := range options {
		assert.Contains(t, view, opt)
	}
}

func TestModel_EmptyMenuEnterCancels(t *testing.T) {
	m, _ := press(t, New("Nothing", nil, nil), tea.KeyMsg{Type: tea.KeyEnter})
	_, ok := m.Chosen()
	assert.False(t, ok)
}
