package cmd

import (
	"fmt"

	"github.com/dendrascience/filekit/batch"
	"github.com/spf13/cobra"
)

// NewRenameCmd creates and returns the rename subcommand for the filekit CLI.
func NewRenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <workbook> <new_directory> <original_path_column> <new_filename_column>",
		Short: "Copy files under new names listed in a workbook",
		Long: `Copy every file named in the original path column into the new directory,
under the name given in the new filename column.

An updated copy of the workbook with a "New File Path" column is written to
the new directory, and rows that could not be copied are listed in
error_log.txt next to it.`,
		Args: cobra.ExactArgs(4),
		RunE: runRename,
	}

	cmd.Flags().Int("progress-every", 0, "Log progress every N rows")
	bindFlag(cmd.Flags(), "progress-every", "rename.progress_every")

	return cmd
}

func runRename(cmd *cobra.Command, args []string) error {
	e, err := envFrom(cmd)
	if err != nil {
		return err
	}

	res, err := batch.Rename(cmd.Context(), batch.RenameJob{
		Mapping:        args[0],
		NewDir:         args[1],
		OriginalColumn: args[2],
		NewNameColumn:  args[3],
		ProgressEvery:  e.cfg.Rename.ProgressEvery,
		Log:            e.log,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Updated workbook saved to %s\n", res.UpdatedWorkbook)
	fmt.Fprintf(out, "Copied %d of %d files\n", res.Copied, res.Rows)
	if res.ErrorLog != "" {
		fmt.Fprintf(out, "%d errors written to %s\n", len(res.Errors), res.ErrorLog)
	}
	return nil
}
