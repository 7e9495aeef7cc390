package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/seqmail/internal/apperr"
	"github.com/nhle/seqmail/internal/browser"
	"github.com/nhle/seqmail/internal/credential"
	"github.com/nhle/seqmail/internal/jmap"
	"github.com/nhle/seqmail/internal/keys"
	"github.com/nhle/seqmail/internal/logging"
	"github.com/nhle/seqmail/internal/model"
	"github.com/nhle/seqmail/internal/todoist"
	"github.com/nhle/seqmail/internal/triage"
	"github.com/nhle/seqmail/internal/ui/menu"
	"github.com/nhle/seqmail/internal/ui/prompt"
)

// credentialGet is swapped out in tests so they never touch the keyring.
var credentialGet credential.Getter = credential.Get

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Triage the inbox (default command)",
	Args:  cobra.NoArgs,
	RunE:  runTriage,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runTriage(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(configPath)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if debugLog {
		level = "debug"
	}
	logger, err := logging.New(cfg.Log.File, level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	t := buildTriager(cfg, cmd.OutOrStdout(), logger)
	sum, err := t.Run(cmd.Context())
	if err != nil {
		logger.Error("triage aborted", zap.Error(err))
		return err
	}

	logger.Info("triage finished",
		zap.Int("total", sum.Total),
		zap.Int("handled", sum.Handled),
		zap.Bool("quit", sum.Quit),
	)
	return nil
}

// loadSettings reads the settings file, fills secrets from the keyring and
// checks that everything required is present.
func loadSettings(path string) (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(path)
	if err != nil {
		return nil, &apperr.ConfigurationError{Message: err.Error()}
	}

	if err := credential.FillMissing(cfg, credentialGet); err != nil {
		return nil, fmt.Errorf("reading keyring: %w", err)
	}

	if missing := cfg.Validate(); len(missing) > 0 {
		return nil, &apperr.ConfigurationError{
			Message: fmt.Sprintf("missing %s in %s (run `seqmail setup`)",
				strings.Join(missing, ", "), path),
		}
	}

	return cfg, nil
}

func buildTriager(cfg *model.AppConfig, out io.Writer, logger *zap.Logger) *triage.Triager {
	return triage.New(triage.Options{
		Mail: jmap.NewClient(cfg.JMAP.Hostname, cfg.JMAP.Token,
			jmap.WithLogger(logger.Named("jmap"))),
		Tasks:      todoist.NewClient("", cfg.Todoist.Key, logger.Named("todoist")),
		Browser:    browser.New(cfg.Browser.Name, logger.Named("browser")),
		Menu:       menu.NewMenu(keys.DefaultKeyMap()),
		Prompt:     prompt.New(),
		Out:        out,
		Logger:     logger.Named("triage"),
		WebBaseURL: cfg.Web.BaseURL,
	})
}
