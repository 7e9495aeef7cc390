package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/seqmail/internal/credential"
	"github.com/nhle/seqmail/internal/theme"
	"github.com/nhle/seqmail/internal/ui/prompt"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage tokens stored in the system keyring",
	Long: `Store or remove the JMAP API token and the Todoist API key in the
system keyring. Stored values are used whenever the settings file leaves
jmap.token or todoist.key empty.`,
}

var authSetCmd = &cobra.Command{
	Use:       "set <jmap|todoist>",
	Short:     "Prompt for a token and store it",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"jmap", "todoist"},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := credential.KeyFor(args[0])
		if err != nil {
			return err
		}

		value, err := prompt.New().AskSecret("Token for " + args[0])
		if err != nil {
			return err
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return errors.New("empty token, nothing stored")
		}

		if err := credential.Set(key, value); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessStyle.Render("Stored "+key+" in the keyring."))
		return nil
	},
}

var authDeleteCmd = &cobra.Command{
	Use:       "delete <jmap|todoist>",
	Short:     "Remove a stored token",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"jmap", "todoist"},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := credential.KeyFor(args[0])
		if err != nil {
			return err
		}
		if err := credential.Delete(key); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessStyle.Render("Removed "+key+" from the keyring."))
		return nil
	},
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authDeleteCmd)
	rootCmd.AddCommand(authCmd)
}
