package main

import (
	"github.com/spf13/cobra"

	"github.com/nhle/seqmail/internal/model"
)

// Global flags
var (
	configPath string
	debugLog   bool
)

var rootCmd = &cobra.Command{
	Use:   "seqmail",
	Short: "Triage your inbox one message at a time",
	Long: `seqmail walks through the Inbox of a JMAP account, newest first, and
asks what to do with each message: skip, delete, mark as read, turn into a
Todoist task, file into a mailbox, unsubscribe or open in the browser.

Run "seqmail setup" once to create the settings file, and
"seqmail auth set jmap" to keep the API token in the system keyring.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTriage,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(),
		"path to the settings file")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false,
		"log every JMAP call at debug level")
}
