package cmd

import (
	"fmt"

	"github.com/dendrascience/filekit/catalog"
	"github.com/spf13/cobra"
)

// NewCountCmd creates and returns the count subcommand for the filekit CLI.
// It provides file counting functionality for directory trees.
func NewCountCmd() *cobra.Command {
	var (
		path         string
		showProgress bool
	)

	cmd := &cobra.Command{
		Use:   "count [PATH]",
		Short: "Count files in a directory tree",
		Long: `Count the files a collect run would report, without hashing anything.

Directories are not counted and symlinks to directories are not followed.
Useful for sizing up a tree before collecting it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				path = args[0]
			}
			return runCount(cmd, path, showProgress)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "./", "Path to count files in")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "Show progress every 10,000 files")

	return cmd
}

func runCount(cmd *cobra.Command, path string, showProgress bool) error {
	e, err := envFrom(cmd)
	if err != nil {
		return err
	}

	opts := []catalog.Option{catalog.WithLogger(e.log)}
	if showProgress {
		opts = append(opts, catalog.WithProgress(10000, func(n int) {
			fmt.Fprintf(cmd.OutOrStdout(), "Progress: %d files counted\n", n)
		}))
	}

	count, err := catalog.Count(cmd.Context(), path, opts...)
	if err != nil {
		return fmt.Errorf("error counting files: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Total files: %d\n", count)
	return nil
}
