package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/nhle/seqmail/internal/model"
)

var setupNoEdit bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the settings file and open it in $EDITOR",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		created, err := model.WriteConfigTemplate(configPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if created {
			fmt.Fprintf(out, "Wrote settings template to %s\n", configPath)
		} else {
			fmt.Fprintf(out, "Settings file %s already exists\n", configPath)
		}

		editor := os.Getenv("EDITOR")
		if setupNoEdit || editor == "" {
			return nil
		}

		c := exec.Command(editor, configPath)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("running %s: %w", editor, err)
		}
		return nil
	},
}

func init() {
	setupCmd.Flags().BoolVar(&setupNoEdit, "no-edit", false, "only write the template")
	rootCmd.AddCommand(setupCmd)
}
