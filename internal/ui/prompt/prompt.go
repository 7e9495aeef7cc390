// Package prompt asks the operator for a line of free text.
package prompt

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/nhle/seqmail/internal/ui"
)

// Prompt reads answers with a huh input field.
type Prompt struct {
	Placeholder string
}

// New returns a Prompt.
func New() *Prompt {
	return &Prompt{Placeholder: "> "}
}

// Ask shows question and returns the text entered, which may be empty.
func (p *Prompt) Ask(question string) (string, error) {
	return p.run(question, huh.EchoModeNormal)
}

// AskSecret is Ask with the input hidden.
func (p *Prompt) AskSecret(question string) (string, error) {
	return p.run(question, huh.EchoModePassword)
}

func (p *Prompt) run(question string, mode huh.EchoMode) (string, error) {
	var answer string

	err := huh.NewInput().
		Title(question).
		Prompt(p.Placeholder).
		EchoMode(mode).
		Value(&answer).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return "", ui.ErrInterrupted
	}
	if err != nil {
		return "", fmt.Errorf("prompting %q: %w", question, err)
	}

	return answer, nil
}
