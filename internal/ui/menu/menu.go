package menu

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/seqmail/internal/keys"
	"github.com/nhle/seqmail/internal/ui"
)

// Menu runs menus on the terminal.
type Menu struct {
	keys   *keys.KeyMap
	input  io.Reader
	output io.Writer
}

// NewMenu returns a Menu reading from stdin and drawing on stdout.
func NewMenu(km *keys.KeyMap) *Menu {
	return &Menu{keys: km, input: os.Stdin, output: os.Stdout}
}

// Show displays options and blocks until the operator picks one or
// cancels. It returns the chosen index, or ok=false on cancel.
func (m *Menu) Show(title string, options []string) (int, bool, error) {
	p := tea.NewProgram(
		New(title, options, m.keys),
		tea.WithInput(m.input),
		tea.WithOutput(m.output),
	)

	final, err := p.Run()
	if err != nil {
		return 0, false, fmt.Errorf("running menu %q: %w", title, err)
	}

	model, ok := final.(Model)
	if !ok {
		return 0, false, fmt.Errorf("running menu %q: unexpected model %T", title, final)
	}
	if model.Interrupted() {
		return 0, false, ui.ErrInterrupted
	}

	idx, chosen := model.Chosen()
	return idx, chosen, nil
}
