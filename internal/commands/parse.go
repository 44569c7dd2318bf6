package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finance-dashboard/monzo-mail/internal/subject"
)

func newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [subject...]",
		Short: "Classify notification subjects (one per line on stdin if no args)",
		RunE: func(cmd *cobra.Command, args []string) error {
			subjects := args
			if len(subjects) == 0 {
				var err error
				subjects, err = readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}
			return printParsed(cmd.OutOrStdout(), subjects)
		},
	}
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimRight(sc.Text(), "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading subjects: %w", err)
	}
	return lines, nil
}

func printParsed(out io.Writer, subjects []string) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tAMOUNT\tDESCRIPTION")
	for _, s := range subjects {
		r := subject.Parse(s)
		amount, desc := "-", "-"
		if r.OK() {
			amount = r.Amount.StringFixed(2)
			desc = r.Description
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Kind, amount, desc)
	}
	return tw.Flush()
}
