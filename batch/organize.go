package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dendrascience/filekit/sheet"
	"github.com/rs/zerolog"
)

// OrganizeJob copies documents listed in a mapping table from a flat source
// folder into <Destination>/<entity type>/<entity number>/.
type OrganizeJob struct {
	Source      string // folder holding the downloaded documents
	Destination string // root of the entity tree
	Mapping     string // xlsx or csv mapping table

	EntityTypeColumn string
	NumberColumn     string
	DocumentColumn   string

	MissingLog string // documents listed but not found in Source
	ErrorLog   string // directory creation and copy failures

	Log zerolog.Logger
}

// OrganizeResult counts what happened to each mapping row.
type OrganizeResult struct {
	Rows    int
	Copied  int
	Skipped int // destination already existed
	Missing int
	Failed  int
}

func (j OrganizeJob) Validate() error {
	return requireFields(
		"source", j.Source,
		"destination", j.Destination,
		"mapping", j.Mapping,
		"entity type column", j.EntityTypeColumn,
		"number column", j.NumberColumn,
		"document column", j.DocumentColumn,
		"missing files log", j.MissingLog,
		"copy errors log", j.ErrorLog,
	)
}

// Organize runs the job. Per-row problems go to the two logs and the result
// counters; the returned error is reserved for an invalid job, unusable logs
// or an unreadable mapping table.
func Organize(ctx context.Context, j OrganizeJob) (OrganizeResult, error) {
	var res OrganizeResult
	if err := j.Validate(); err != nil {
		return res, err
	}

	missingLog, err := CreateFailureLog(j.MissingLog, "Missing Files Log:")
	if err != nil {
		return res, fmt.Errorf("create missing files log: %w", err)
	}
	defer missingLog.Close()
	errorLog, err := CreateFailureLog(j.ErrorLog, "Copy Errors Log:")
	if err != nil {
		return res, fmt.Errorf("create copy errors log: %w", err)
	}
	defer errorLog.Close()

	table, err := sheet.Open(j.Mapping)
	if err != nil {
		return res, fmt.Errorf("read mapping %s: %w", j.Mapping, err)
	}
	typeCol, err := table.Column(j.EntityTypeColumn)
	if err != nil {
		return res, err
	}
	numberCol, err := table.Column(j.NumberColumn)
	if err != nil {
		return res, err
	}
	docCol, err := table.Column(j.DocumentColumn)
	if err != nil {
		return res, err
	}

	for _, row := range table.Iterate {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Rows++

		entityType := row[typeCol]
		entityNumber := row[numberCol]
		document := row[docCol]

		src := filepath.Join(j.Source, document)
		destDir := filepath.Join(j.Destination, entityType, entityNumber)
		dest := filepath.Join(destDir, document)

		if err := os.MkdirAll(destDir, 0755); err != nil {
			res.Failed++
			errorLog.Printf("Error creating directory %s: %v", destDir, err)
			j.Log.Warn().Err(err).Str("dir", destDir).Msg("cannot create destination")
			continue
		}

		if !isFile(src) {
			res.Missing++
			missingLog.Printf("%s not found for entity %s.", document, entityNumber)
			j.Log.Warn().Str("document", document).Str("entity", entityNumber).Msg("document not found")
			continue
		}

		if exists(dest) {
			res.Skipped++
			j.Log.Info().Str("document", document).Str("dir", destDir).Msg("skipped, already exists")
			continue
		}
		if err := copyFile(src, dest); err != nil {
			res.Failed++
			errorLog.Printf("Error copying %s to %s: %v", document, destDir, err)
			j.Log.Warn().Err(err).Str("document", document).Msg("copy failed")
			continue
		}
		res.Copied++
		j.Log.Info().Str("document", document).Str("dir", destDir).Msg("copied")
	}

	if err := missingLog.Close(); err != nil {
		return res, err
	}
	return res, errorLog.Close()
}
