package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/finance-dashboard/monzo-mail/internal/config"
	"github.com/finance-dashboard/monzo-mail/internal/dates"
	"github.com/finance-dashboard/monzo-mail/internal/export"
	"github.com/finance-dashboard/monzo-mail/internal/gmail"
	"github.com/finance-dashboard/monzo-mail/internal/importer"
	"github.com/finance-dashboard/monzo-mail/internal/logger"
	"github.com/finance-dashboard/monzo-mail/internal/runlog"
)

type fetchOptions struct {
	input  string
	merge  bool
	dryRun bool
	strict bool
}

func newFetchCommand() *cobra.Command {
	var (
		opts        fetchOptions
		maxResults  int
		output      string
		account     string
		format      string
		query       string
		credentials string
		token       string
		runLog      string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch Monzo notification emails and write transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			override(cmd, "max-results", &cfg.MaxResults, maxResults)
			override(cmd, "output", &cfg.Output, output)
			override(cmd, "account", &cfg.Account, account)
			override(cmd, "format", &cfg.Format, format)
			override(cmd, "query", &cfg.Gmail.Query, query)
			override(cmd, "credentials", &cfg.Gmail.CredentialsFile, credentials)
			override(cmd, "token", &cfg.Gmail.TokenFile, token)
			override(cmd, "run-log", &cfg.RunLog, runLog)

			return runFetch(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), cfg, opts)
		},
	}

	defaults := config.Default()
	cmd.Flags().IntVar(&maxResults, "max-results", defaults.MaxResults, "max emails to fetch")
	cmd.Flags().StringVarP(&output, "output", "o", defaults.Output, "output file")
	cmd.Flags().StringVar(&account, "account", defaults.Account, "Gmail account to search")
	cmd.Flags().StringVar(&format, "format", defaults.Format, "output format: json, csv or xlsx")
	cmd.Flags().StringVar(&query, "query", gmail.DefaultQuery, "Gmail search query")
	cmd.Flags().StringVar(&credentials, "credentials", defaults.Gmail.CredentialsFile, "OAuth client secret file")
	cmd.Flags().StringVar(&token, "token", defaults.Gmail.TokenFile, "OAuth token file")
	cmd.Flags().StringVar(&runLog, "run-log", "", "append run counts to this CSV file")
	cmd.Flags().StringVar(&opts.input, "input", "", "read notifications from a JSON file (- for stdin) instead of Gmail")
	cmd.Flags().BoolVar(&opts.merge, "merge", false, "merge into an existing JSON output, keeping known transactions")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse without writing output")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when the transaction log breaks an invariant")

	return cmd
}

func runFetch(ctx context.Context, out io.Writer, stdin io.Reader, cfg *config.Config, opts fetchOptions) error {
	log := logger.FromContext(ctx)

	writer := export.DefaultRegistry().Get(cfg.Format)
	if writer == nil {
		return fmt.Errorf("unknown format %q", cfg.Format)
	}
	if opts.merge && writer.Format() != "json" {
		return errors.New("--merge requires json output")
	}

	src, err := newSource(ctx, out, stdin, cfg, opts)
	if err != nil {
		return err
	}

	res, err := importer.Run(ctx, src, cfg.MaxResults, dates.New())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Found %d Monzo notification emails\n", res.Fetched)

	txns := res.Transactions
	if opts.merge {
		existing, err := export.ReadJSON(cfg.Output)
		if err != nil {
			return fmt.Errorf("reading existing output: %w", err)
		}
		var added int
		txns, added = export.Merge(existing, txns)
		fmt.Fprintf(out, "Merged %d new transactions into %d existing\n", added, len(existing))
	}

	// Validate what will be written, including records carried over by --merge.
	if verrs := importer.Validate(txns); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			log.Warn().Int("invariant", ve.Invariant).Str("id", ve.TransactionID).Msg(ve.Description)
			msgs[i] = ve.Error()
		}
		if opts.strict {
			return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
		}
	}

	fmt.Fprintf(out, "Parsed %d transactions (%d skipped)\n", res.Parsed, res.Skipped)
	if n := len(res.DateFallbacks); n > 0 {
		fmt.Fprintf(out, "Warning: %d dates could not be parsed and were set to today\n", n)
	}

	if opts.dryRun {
		fmt.Fprintln(out, "Dry run, nothing written")
	} else {
		if err := export.WriteFile(cfg.Output, writer, txns); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Fprintf(out, "Written to %s\n", cfg.Output)
	}

	if cfg.RunLog != "" {
		entry := runlog.Entry{
			Timestamp:     time.Now().UTC(),
			Account:       cfg.Account,
			Source:        src.Name(),
			Fetched:       res.Fetched,
			Parsed:        res.Parsed,
			Skipped:       res.Skipped,
			DateFallbacks: len(res.DateFallbacks),
			Output:        cfg.Output,
		}
		if opts.dryRun {
			entry.Output = ""
		}
		if err := runlog.Append(cfg.RunLog, []runlog.Entry{entry}); err != nil {
			log.Warn().Err(err).Msg("failed to write run log")
		}
	}
	return nil
}

func newSource(ctx context.Context, out io.Writer, stdin io.Reader, cfg *config.Config, opts fetchOptions) (importer.Source, error) {
	if opts.input != "" {
		fmt.Fprintf(out, "Reading notifications from %s...\n", opts.input)
		return &importer.FileSource{Path: opts.input, Stdin: stdin}, nil
	}

	fmt.Fprintf(out, "Authenticating as %s...\n", cfg.Account)
	svc, err := gmail.NewService(ctx, cfg.Gmail.CredentialsFile, cfg.Gmail.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("connecting to gmail: %w", err)
	}
	fmt.Fprintf(out, "Searching for Monzo emails (max %d)...\n", cfg.MaxResults)
	return gmail.NewServiceSource(svc, cfg.Account,
		gmail.WithQuery(cfg.Gmail.Query),
		gmail.WithConcurrency(cfg.Gmail.Concurrency),
	), nil
}
