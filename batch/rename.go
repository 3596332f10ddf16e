package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dendrascience/filekit/sheet"
	"github.com/rs/zerolog"
)

const (
	// NewPathColumn is appended to the updated mapping written by Rename.
	NewPathColumn = "New File Path"
	// RenameErrorLogName is written into the new directory when any row fails.
	RenameErrorLogName = "error_log.txt"

	defaultProgressEvery = 100
)

// RenameJob copies each file named in OriginalColumn into NewDir under the
// name in NewNameColumn.
type RenameJob struct {
	Mapping        string
	NewDir         string
	OriginalColumn string
	NewNameColumn  string

	// ProgressEvery logs progress every N rows; 0 means 100.
	ProgressEvery int

	Log zerolog.Logger
}

type RenameResult struct {
	Rows            int
	Copied          int
	Errors          []string
	UpdatedWorkbook string // mapping plus the New File Path column
	ErrorLog        string // empty when there were no errors
}

func (j RenameJob) Validate() error {
	if err := requireFields(
		"mapping", j.Mapping,
		"new directory", j.NewDir,
		"original path column", j.OriginalColumn,
		"new filename column", j.NewNameColumn,
	); err != nil {
		return err
	}
	if !isFile(j.Mapping) {
		return fmt.Errorf("%w: %s is not a valid file", ErrInvalidJob, j.Mapping)
	}
	return nil
}

// UpdatedWorkbookPath is where Rename writes the updated mapping:
// <NewDir>/<mapping stem>_updated.xlsx.
func (j RenameJob) UpdatedWorkbookPath() string {
	base := filepath.Base(j.Mapping)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(j.NewDir, stem+"_updated.xlsx")
}

// Rename runs the job. Rows whose source is missing or whose copy fails are
// reported in RenameResult.Errors with their spreadsheet row number and get a
// blank New File Path.
func Rename(ctx context.Context, j RenameJob) (RenameResult, error) {
	var res RenameResult
	if err := j.Validate(); err != nil {
		return res, err
	}
	if err := os.MkdirAll(j.NewDir, 0755); err != nil {
		return res, fmt.Errorf("create %s: %w", j.NewDir, err)
	}

	j.Log.Info().Str("mapping", j.Mapping).Msg("reading mapping")
	table, err := sheet.Open(j.Mapping)
	if err != nil {
		return res, fmt.Errorf("read mapping %s: %w", j.Mapping, err)
	}
	origCol, err := table.Column(j.OriginalColumn)
	if err != nil {
		return res, err
	}
	nameCol, err := table.Column(j.NewNameColumn)
	if err != nil {
		return res, err
	}

	every := j.ProgressEvery
	if every <= 0 {
		every = defaultProgressEvery
	}
	total := table.Len()
	j.Log.Info().Int("rows", total).Msg("processing rows")

	newPaths := make([][]any, total)
	for i, row := range table.Iterate {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Rows++
		newPaths[i] = []any{nil}

		original := row[origCol]
		newName := row[nameCol]

		if !isFile(original) {
			msg := fmt.Sprintf("File not found: %s (Row %d)", original, sheet.SheetRow(i))
			j.Log.Warn().Msg(msg)
			res.Errors = append(res.Errors, msg)
			continue
		}

		dest := filepath.Join(j.NewDir, newName)
		if err := copyFile(original, dest); err != nil {
			msg := fmt.Sprintf("Error copying file %s to %s: %v (Row %d)", original, dest, err, sheet.SheetRow(i))
			j.Log.Error().Msg(msg)
			res.Errors = append(res.Errors, msg)
			continue
		}
		newPaths[i] = []any{dest}
		res.Copied++

		if (i+1)%every == 0 || i+1 == total {
			j.Log.Info().Msgf("Processed %d/%d rows.", i+1, total)
		}
	}

	res.UpdatedWorkbook = j.UpdatedWorkbookPath()
	if err := sheet.WriteTable(res.UpdatedWorkbook, table, []string{NewPathColumn}, newPaths); err != nil {
		return res, fmt.Errorf("write %s: %w", res.UpdatedWorkbook, err)
	}

	if len(res.Errors) > 0 {
		res.ErrorLog = filepath.Join(j.NewDir, RenameErrorLogName)
		if err := WriteLines(res.ErrorLog, res.Errors); err != nil {
			return res, fmt.Errorf("write %s: %w", res.ErrorLog, err)
		}
	}
	return res, nil
}
