package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dendrascience/filekit/sheet"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/taigrr/colorhash"
)

// SeedEntityTypes are the entity types assigned to generated documents.
var SeedEntityTypes = []string{"Parcel", "Lease", "Well", "Easement"}

// SeedJob generates sample documents and a mapping workbook that routes them
// to entity folders, for trying out Organize, Rename and Move.
type SeedJob struct {
	Output   string
	Count    int
	Entities int // distinct entity numbers per type; 0 means 25
	// MissingEvery makes every Nth mapping row reference a document that is
	// never written. 0 disables it.
	MissingEvery int

	Log zerolog.Logger
}

type SeedResult struct {
	SourceDir string
	Mapping   string
	Documents int
	Missing   int
}

// Seed mapping columns.
const (
	SeedEntityTypeColumn = "EntityType"
	SeedNumberColumn     = "Number"
	SeedDocumentColumn   = "DocumentName"
	SeedRenamedColumn    = "NewFileName"
	SeedOriginalColumn   = "OriginalPath"
)

// Seed writes Count rows into <Output>/mapping.xlsx and the documents into
// <Output>/source. Each row also carries the absolute original path and a
// new file name so the same workbook drives Rename and Move.
func Seed(ctx context.Context, j SeedJob) (SeedResult, error) {
	res := SeedResult{
		SourceDir: filepath.Join(j.Output, "source"),
		Mapping:   filepath.Join(j.Output, "mapping.xlsx"),
	}
	if j.Output == "" {
		return res, fmt.Errorf("%w: output is required", ErrInvalidJob)
	}
	if j.Count <= 0 {
		return res, fmt.Errorf("%w: count must be positive", ErrInvalidJob)
	}
	entities := j.Entities
	if entities <= 0 {
		entities = 25
	}
	sourceDir, err := filepath.Abs(res.SourceDir)
	if err != nil {
		return res, err
	}
	if err := os.MkdirAll(sourceDir, 0755); err != nil {
		return res, err
	}

	rows := make([][]any, 0, j.Count)
	for i := range j.Count {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		id := uuid.New().String()
		bucket := int(colorhash.HashString(id) % 1000)
		if bucket < 0 {
			bucket = -bucket
		}
		entityType := SeedEntityTypes[bucket%len(SeedEntityTypes)]
		number := fmt.Sprintf("%04d", bucket%entities+1)
		document := id[:8] + ".pdf"
		original := filepath.Join(sourceDir, document)

		if j.MissingEvery > 0 && (i+1)%j.MissingEvery == 0 {
			res.Missing++
		} else {
			if err := os.WriteFile(original, []byte(id+"\n"), 0644); err != nil {
				return res, fmt.Errorf("write %s: %w", original, err)
			}
			res.Documents++
		}

		renamed := fmt.Sprintf("%s_%s_%s", entityType, number, document)
		rows = append(rows, []any{entityType, number, document, original, renamed})
	}

	header := []string{SeedEntityTypeColumn, SeedNumberColumn, SeedDocumentColumn, SeedOriginalColumn, SeedRenamedColumn}
	if err := sheet.Write(res.Mapping, header, rows); err != nil {
		return res, fmt.Errorf("write %s: %w", res.Mapping, err)
	}
	j.Log.Info().
		Int("documents", res.Documents).
		Int("missing", res.Missing).
		Str("mapping", res.Mapping).
		Msg("seed complete")
	return res, nil
}
