package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finance-dashboard/monzo-mail/internal/config"
)

const configDefault = config.DefaultFile

// loadSettings resolves config with precedence flags > env > file > defaults.
// Flag values are applied by the caller for the flags it owns.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	path, _ := cmd.Flags().GetString("config")
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOptional(configDefault)
	}
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// override copies a flag value onto dst when the flag was set explicitly.
func override[T any](cmd *cobra.Command, name string, dst *T, val T) {
	if cmd.Flags().Changed(name) {
		*dst = val
	}
}
