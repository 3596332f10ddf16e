package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/dendrascience/filekit/catalog"
	"github.com/spf13/cobra"
)

// NewCollectCmd creates and returns the collect subcommand for the filekit CLI.
// It writes a metadata report for every file below a directory.
func NewCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect <directory_path>",
		Short: "Write a metadata report for every file in a directory tree",
		Long: `Walk a directory recursively and record, for every file, its absolute path,
name, extension, size in KB and MD5 hash.

The report is saved inside the scanned directory as metadata.xlsx (or
metadata.csv / metadata.json with --format). Files that cannot be read are
still listed, with their size or hash left blank.`,
		Args: cobra.ExactArgs(1),
		RunE: runCollect,
	}

	cmd.Flags().StringP("format", "f", "", "Report format: xlsx, csv or json")
	cmd.Flags().IntP("workers", "w", 0, "Files hashed concurrently (default 1, sequential; 0 uses every CPU)")
	bindFlag(cmd.Flags(), "format", "collect.format")
	bindFlag(cmd.Flags(), "workers", "collect.workers")

	return cmd
}

func runCollect(cmd *cobra.Command, args []string) error {
	e, err := envFrom(cmd)
	if err != nil {
		return err
	}

	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("%w: %s: %w", catalog.ErrInvalidInput, args[0], err)
	}
	out, err := catalog.ReportPath(dir, e.cfg.Collect.Format)
	if err != nil {
		return err
	}

	inv, err := catalog.Collect(cmd.Context(), dir,
		catalog.WithWorkers(e.cfg.Collect.Workers),
		catalog.WithLogger(e.log),
	)
	if err != nil {
		return err
	}
	if err := catalog.WriteReport(out, inv); err != nil {
		return err
	}

	s := inv.Summary()
	fmt.Fprintf(cmd.OutOrStdout(), "Metadata saved to %s\n", out)
	fmt.Fprintf(cmd.OutOrStdout(), "%d files, %.2f KB total, %d with missing size or hash\n",
		s.Files, s.TotalSizeKB, s.Unreadable)
	return nil
}
