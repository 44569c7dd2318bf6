package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finance-dashboard/monzo-mail/internal/buildinfo"
	"github.com/finance-dashboard/monzo-mail/internal/logger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var logOpts logger.Options

	rootCmd := &cobra.Command{
		Use:     "monzo-mail",
		Short:   "Turn Monzo email alerts into a dashboard transaction log",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			l := logger.NewWithWriter(cmd.ErrOrStderr(), logOpts)
			cmd.SetContext(logger.WithContext(cmd.Context(), l))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&logOpts.Verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&logOpts.JSON, "log-json", false, "log as JSON lines")
	rootCmd.PersistentFlags().String("config", "", "config file (default "+configDefault+" if present)")

	rootCmd.AddCommand(newFetchCommand())
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newAuthCommand())

	return rootCmd
}
