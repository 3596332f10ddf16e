package cmd

import (
	"errors"
	"fmt"

	"github.com/dendrascience/filekit/catalog"
	"github.com/spf13/cobra"
)

// errMismatches is returned when verify finds differences so the process
// exits non-zero.
var errMismatches = errors.New("report does not match the filesystem")

// NewVerifyCmd creates and returns the verify subcommand for the filekit CLI.
// It re-checks a metadata report against the files it lists.
func NewVerifyCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "verify <report>",
		Short: "Check a metadata report against the filesystem",
		Long: `Re-read every file listed in a metadata report (xlsx, csv or json) and
compare its size and MD5 hash with the recorded values.

Missing files, size changes and content changes are listed. The command
exits with status 1 when anything differs, which makes it usable to audit a
migration against an earlier catalogue.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args[0], verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

func runVerify(cmd *cobra.Command, reportPath string, verbose bool) error {
	e, err := envFrom(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	inv, err := catalog.LoadReport(reportPath)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(out, "Verifying %d files from %s\n", inv.Len(), reportPath)
	}

	mismatches, err := catalog.Verify(cmd.Context(), inv)
	if err != nil {
		return err
	}
	for _, m := range mismatches {
		fmt.Fprintf(out, "  - %s\n", m)
		e.log.Debug().Str("path", m.Path).Str("reason", m.Reason).Msg("mismatch")
	}

	fmt.Fprintf(out, "\nVerification complete:\n")
	fmt.Fprintf(out, "  Files checked: %d\n", inv.Len())
	fmt.Fprintf(out, "  Mismatches: %d\n", len(mismatches))

	if len(mismatches) > 0 {
		return fmt.Errorf("%w: %d mismatches", errMismatches, len(mismatches))
	}
	return nil
}
