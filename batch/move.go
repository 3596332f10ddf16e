package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dendrascience/filekit/sheet"
	"github.com/rs/zerolog"
)

// MoveJob moves the entries of Source whose names appear in Column of the
// mapping table into Target. Only the top level of Source is considered.
type MoveJob struct {
	Mapping string
	Source  string
	Target  string
	Column  string

	Log zerolog.Logger
}

type MoveResult struct {
	Moved    int
	Skipped  int
	Failures []string
}

func (j MoveJob) Validate() error {
	if err := requireFields(
		"mapping", j.Mapping,
		"source directory", j.Source,
		"target directory", j.Target,
		"renamed file column", j.Column,
	); err != nil {
		return err
	}
	if _, err := os.Stat(j.Mapping); err != nil {
		return fmt.Errorf("%w: mapping file not found: %s", ErrInvalidJob, j.Mapping)
	}
	if !isDir(j.Source) {
		return fmt.Errorf("%w: source directory not found: %s", ErrInvalidJob, j.Source)
	}
	return nil
}

// ExpectedNames returns the set of non-empty values in column.
func ExpectedNames(t *sheet.Table, column string) (map[string]bool, error) {
	col, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool)
	for _, row := range t.Iterate {
		if row[col] != "" {
			names[row[col]] = true
		}
	}
	return names, nil
}

// Move runs the job. A failed move is logged and counted as skipped.
func Move(ctx context.Context, j MoveJob) (MoveResult, error) {
	var res MoveResult
	if err := j.Validate(); err != nil {
		return res, err
	}
	if err := os.MkdirAll(j.Target, 0755); err != nil {
		return res, fmt.Errorf("create %s: %w", j.Target, err)
	}

	table, err := sheet.Open(j.Mapping)
	if err != nil {
		return res, fmt.Errorf("read mapping %s: %w", j.Mapping, err)
	}
	expected, err := ExpectedNames(table, j.Column)
	if err != nil {
		return res, err
	}

	entries, err := os.ReadDir(j.Source)
	if err != nil {
		return res, fmt.Errorf("list %s: %w", j.Source, err)
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		name := entry.Name()
		if !expected[name] {
			continue
		}
		src := filepath.Join(j.Source, name)
		dst := filepath.Join(j.Target, name)
		if err := moveFile(src, dst); err != nil {
			res.Skipped++
			res.Failures = append(res.Failures, fmt.Sprintf("Error moving %s: %v", name, err))
			j.Log.Error().Err(err).Str("file", name).Msg("move failed")
			continue
		}
		res.Moved++
		j.Log.Debug().Str("file", name).Str("target", j.Target).Msg("moved")
	}
	return res, nil
}
