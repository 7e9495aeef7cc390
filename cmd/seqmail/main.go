// Command seqmail triages a JMAP inbox one message at a time.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nhle/seqmail/internal/theme"
	"github.com/nhle/seqmail/internal/ui"
)

func main() {
	err := rootCmd.Execute()
	if errors.Is(err, ui.ErrInterrupted) {
		os.Exit(130)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
