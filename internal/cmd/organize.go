package cmd

import (
	"fmt"

	"github.com/dendrascience/filekit/batch"
	"github.com/spf13/cobra"
)

// NewOrganizeCmd creates and returns the organize subcommand for the filekit CLI.
// It copies documents into per-entity folders following a mapping workbook.
func NewOrganizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Copy documents into entity folders from a mapping workbook",
		Long: `Copy each document listed in a mapping workbook from the source folder to
<dest>/<entity type>/<entity number>/.

Documents missing from the source folder are written to the missing files
log; directory and copy failures go to the copy errors log. Documents that
already exist at the destination are left alone. Every setting can also come
from the [organize] section of the config file or FILEKIT_ORGANIZE_*
environment variables.`,
		Args: cobra.NoArgs,
		RunE: runOrganize,
	}

	flags := []struct{ name, key, usage string }{
		{"source", "organize.source", "Folder holding the documents"},
		{"dest", "organize.destination", "Root of the entity folder tree"},
		{"mapping", "organize.mapping", "Mapping workbook (xlsx or csv)"},
		{"entity-type-column", "organize.entity_type_column", "Column holding the entity type"},
		{"number-column", "organize.number_column", "Column holding the entity number"},
		{"document-column", "organize.document_column", "Column holding the document file name"},
		{"missing-log", "organize.missing_log", "Where to write the missing files log"},
		{"error-log", "organize.error_log", "Where to write the copy errors log"},
	}
	for _, f := range flags {
		cmd.Flags().String(f.name, "", f.usage)
		bindFlag(cmd.Flags(), f.name, f.key)
	}

	return cmd
}

func runOrganize(cmd *cobra.Command, args []string) error {
	e, err := envFrom(cmd)
	if err != nil {
		return err
	}
	c := e.cfg.Organize

	res, err := batch.Organize(cmd.Context(), batch.OrganizeJob{
		Source:           c.Source,
		Destination:      c.Destination,
		Mapping:          c.Mapping,
		EntityTypeColumn: c.EntityTypeColumn,
		NumberColumn:     c.NumberColumn,
		DocumentColumn:   c.DocumentColumn,
		MissingLog:       c.MissingLog,
		ErrorLog:         c.ErrorLog,
		Log:              e.log,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File organization completed.\n")
	fmt.Fprintf(out, "  Rows: %d\n", res.Rows)
	fmt.Fprintf(out, "  Copied: %d\n", res.Copied)
	fmt.Fprintf(out, "  Already present: %d\n", res.Skipped)
	fmt.Fprintf(out, "  Missing: %d (see %s)\n", res.Missing, c.MissingLog)
	fmt.Fprintf(out, "  Errors: %d (see %s)\n", res.Failed, c.ErrorLog)
	return nil
}
