package cmd

import (
	"fmt"

	"github.com/dendrascience/filekit/batch"
	"github.com/spf13/cobra"
)

// NewSeedCmd creates and returns the seed subcommand for the filekit CLI.
// It generates sample documents and a mapping workbook for the batch jobs.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath   string
		fileCount    int
		entities     int
		missingEvery int
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate sample documents and a mapping workbook",
		Long: `Generate sample documents for trying out the batch jobs.

Creates <output>/source with one small file per document and
<output>/mapping.xlsx with the columns EntityType, Number, DocumentName,
OriginalPath and NewFileName, so the same workbook drives organize, rename
and move. Every Nth row (--missing-every) names a document that is never
written, to exercise the missing files log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := envFrom(cmd)
			if err != nil {
				return err
			}
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "Generating %d documents in %s\n", fileCount, outputPath)
			}
			res, err := batch.Seed(cmd.Context(), batch.SeedJob{
				Output:       outputPath,
				Count:        fileCount,
				Entities:     entities,
				MissingEvery: missingEvery,
				Log:          e.log,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d documents in %s\n", res.Documents, res.SourceDir)
			fmt.Fprintf(cmd.OutOrStdout(), "Mapping saved to %s (%d rows without a document)\n", res.Mapping, res.Missing)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&fileCount, "count", "c", 100, "Number of mapping rows to generate")
	cmd.Flags().IntVar(&entities, "entities", 25, "Distinct entity numbers")
	cmd.Flags().IntVar(&missingEvery, "missing-every", 10, "Leave out the document of every Nth row (0 disables)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}
