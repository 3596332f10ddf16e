package cmd

import (
	"fmt"

	"github.com/dendrascience/filekit/batch"
	"github.com/spf13/cobra"
)

// NewMoveCmd creates and returns the move subcommand for the filekit CLI.
func NewMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <workbook> <source_dir> <target_dir> <renamed_file_column>",
		Short: "Move files listed in a workbook to another directory",
		Long: `Move every file directly inside source_dir whose name appears in the
renamed file column of the workbook into target_dir. Subdirectories are not
searched.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := envFrom(cmd)
			if err != nil {
				return err
			}
			res, err := batch.Move(cmd.Context(), batch.MoveJob{
				Mapping: args[0],
				Source:  args[1],
				Target:  args[2],
				Column:  args[3],
				Log:     e.log,
			})
			if err != nil {
				return err
			}
			for _, f := range res.Failures {
				fmt.Fprintln(cmd.ErrOrStderr(), f)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %d files to %s (%d failed)\n", res.Moved, args[2], res.Skipped)
			return nil
		},
	}
}
