package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dendrascience/filekit/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMapping(t *testing.T, path string, header []string, rows ...[]string) {
	t.Helper()
	out := make([][]any, len(rows))
	for i, row := range rows {
		for _, cell := range row {
			out[i] = append(out[i], cell)
		}
	}
	require.NoError(t, sheet.Write(path, header, out))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newOrganizeJob(t *testing.T) OrganizeJob {
	t.Helper()
	root := t.TempDir()
	return OrganizeJob{
		Source:           filepath.Join(root, "downloads"),
		Destination:      filepath.Join(root, "documents"),
		Mapping:          filepath.Join(root, "documents.xlsx"),
		EntityTypeColumn: "EntityType",
		NumberColumn:     "Number",
		DocumentColumn:   "DocumentName",
		MissingLog:       filepath.Join(root, "logs", "missing_files.txt"),
		ErrorLog:         filepath.Join(root, "logs", "copy_errors.txt"),
	}
}

func TestOrganize(t *testing.T) {
	job := newOrganizeJob(t)
	writeFile(t, filepath.Join(job.Source, "deed.pdf"), "deed")
	writeFile(t, filepath.Join(job.Source, "plat.tif"), "plat")
	writeFile(t, filepath.Join(job.Source, "lease.docx"), "lease")

	old := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(job.Source, "deed.pdf"), old, old))

	// already organized on a previous run
	writeFile(t, filepath.Join(job.Destination, "Lease", "7", "lease.docx"), "older lease")

	writeMapping(t, job.Mapping, []string{"EntityType", "Number", "DocumentName"},
		[]string{" Parcel ", "101", "deed.pdf"},
		[]string{"Parcel", "101", "plat.tif"},
		[]string{"Lease", "7", "lease.docx"},
		[]string{"Well", "42", "missing.pdf"},
	)

	res, err := Organize(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, OrganizeResult{Rows: 4, Copied: 2, Skipped: 1, Missing: 1}, res)

	deed := filepath.Join(job.Destination, "Parcel", "101", "deed.pdf")
	assert.Equal(t, "deed", readFile(t, deed))
	info, err := os.Stat(deed)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "modification time should be preserved")

	assert.FileExists(t, filepath.Join(job.Destination, "Parcel", "101", "plat.tif"))
	assert.Equal(t, "older lease", readFile(t, filepath.Join(job.Destination, "Lease", "7", "lease.docx")))
	assert.DirExists(t, filepath.Join(job.Destination, "Well", "42"))

	assert.Equal(t, "Missing Files Log:\nmissing.pdf not found for entity 42.\n", readFile(t, job.MissingLog))
	assert.Equal(t, "Copy Errors Log:\n", readFile(t, job.ErrorLog))
}

func TestOrganize_LogsAreTruncated(t *testing.T) {
	job := newOrganizeJob(t)
	writeFile(t, job.MissingLog, "stale entries\n")
	writeMapping(t, job.Mapping, []string{"EntityType", "Number", "DocumentName"})
	require.NoError(t, os.MkdirAll(job.Source, 0755))

	res, err := Organize(context.Background(), job)
	require.NoError(t, err)
	assert.Zero(t, res.Rows)
	assert.Equal(t, "Missing Files Log:\n", readFile(t, job.MissingLog))
}

func TestOrganize_DirectoryCreationFails(t *testing.T) {
	job := newOrganizeJob(t)
	writeFile(t, filepath.Join(job.Source, "deed.pdf"), "deed")
	// a file where the entity type directory should be
	writeFile(t, filepath.Join(job.Destination, "Parcel"), "blocker")
	writeMapping(t, job.Mapping, []string{"EntityType", "Number", "DocumentName"},
		[]string{"Parcel", "1", "deed.pdf"},
	)

	res, err := Organize(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Contains(t, readFile(t, job.ErrorLog), "Error creating directory "+filepath.Join(job.Destination, "Parcel", "1"))
}

func TestOrganize_DestinationIsSource(t *testing.T) {
	job := newOrganizeJob(t)
	job.Source = filepath.Join(job.Destination, "Parcel", "0001")
	writeFile(t, filepath.Join(job.Source, "deed.pdf"), "deed")
	writeMapping(t, job.Mapping, []string{"EntityType", "Number", "DocumentName"},
		[]string{"Parcel", "0001", "deed.pdf"},
	)

	res, err := Organize(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, OrganizeResult{Rows: 1, Skipped: 1}, res)
	assert.Equal(t, "deed", readFile(t, filepath.Join(job.Source, "deed.pdf")))
}

func TestOrganize_Fatal(t *testing.T) {
	t.Run("missing field", func(t *testing.T) {
		job := newOrganizeJob(t)
		job.Source = ""
		_, err := Organize(context.Background(), job)
		assert.ErrorIs(t, err, ErrInvalidJob)
	})

	t.Run("unreadable mapping", func(t *testing.T) {
		job := newOrganizeJob(t)
		_, err := Organize(context.Background(), job)
		assert.Error(t, err)
	})

	t.Run("missing column", func(t *testing.T) {
		job := newOrganizeJob(t)
		writeMapping(t, job.Mapping, []string{"EntityType", "DocumentName"},
			[]string{"Parcel", "deed.pdf"},
		)
		_, err := Organize(context.Background(), job)
		assert.ErrorIs(t, err, sheet.ErrColumnNotFound)
	})
}
