package catalog

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func sampleInventory() *Inventory {
	return NewInventory("/data", []FileRecord{
		{Path: "/data/a.txt", Name: "a.txt", Extension: ".txt", SizeKB: ptr(1.5), Hash: ptr("0cc175b9c0f1b6a831c399e269772661")},
		{Path: "/data/b/README", Name: "README", Extension: "", SizeKB: ptr(0.01), Hash: ptr("92eb5ffee6ae2fec3ad71c777531578f")},
		{Path: "/data/b/gone.pdf", Name: "gone.pdf", Extension: ".pdf"},
		{Path: "/data/c/a-copy.txt", Name: "a-copy.txt", Extension: ".txt", SizeKB: ptr(1.5), Hash: ptr("0cc175b9c0f1b6a831c399e269772661")},
	})
}

func TestReportPath(t *testing.T) {
	got, err := ReportPath("/scan", "xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/scan", "metadata.xlsx"), got)

	_, err = ReportPath("/scan", "ods")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteReport_RoundTrip(t *testing.T) {
	for _, format := range []string{"xlsx", "csv", "json"} {
		t.Run(format, func(t *testing.T) {
			path, err := ReportPath(t.TempDir(), format)
			require.NoError(t, err)

			inv := sampleInventory()
			require.NoError(t, WriteReport(path, inv))

			loaded, err := LoadReport(path)
			require.NoError(t, err)
			assert.True(t, SameSet(inv, loaded), "loaded %+v", loaded.Records())
		})
	}
}

func TestWriteReport_CSVLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.csv")
	require.NoError(t, WriteReport(path, sampleInventory()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 5)
	assert.Equal(t, ReportColumns, rows[0])
	assert.Equal(t, []string{"/data/a.txt", "a.txt", ".txt", "1.5", "0cc175b9c0f1b6a831c399e269772661"}, rows[1])
	assert.Equal(t, []string{"/data/b/gone.pdf", "gone.pdf", ".pdf", "", ""}, rows[3])
}

func TestWriteReport_JSONLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	require.NoError(t, WriteReport(path, sampleInventory()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 4)

	assert.Equal(t, "/data/a.txt", rows[0]["file_path"])
	assert.Equal(t, 1.5, rows[0]["file_size_kb"])
	gone := rows[2]
	assert.Contains(t, gone, "file_hash_md5")
	assert.Nil(t, gone["file_hash_md5"])
	assert.Nil(t, gone["file_size_kb"])

	empty := filepath.Join(t.TempDir(), "metadata.json")
	require.NoError(t, WriteReport(empty, NewInventory("/none", nil)))
	data, err = os.ReadFile(empty)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestWriteReport_Errors(t *testing.T) {
	inv := sampleInventory()

	err := WriteReport(filepath.Join(t.TempDir(), "metadata.ods"), inv)
	assert.ErrorIs(t, err, ErrOutputWrite)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	err = WriteReport(filepath.Join(t.TempDir(), "missing-dir", "metadata.csv"), inv)
	assert.ErrorIs(t, err, ErrOutputWrite)
}

func TestLoadReport_Malformed(t *testing.T) {
	dir := t.TempDir()

	noColumns := filepath.Join(dir, "other.csv")
	require.NoError(t, os.WriteFile(noColumns, []byte("name,size\nx,1\n"), 0644))
	_, err := LoadReport(noColumns)
	assert.ErrorIs(t, err, ErrMalformedReport)

	badSize := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(badSize, []byte(
		"file_path,filename,file_type,file_size_kb,file_hash_md5\n/x/a,a,,lots,\n"), 0644))
	_, err = LoadReport(badSize)
	assert.ErrorIs(t, err, ErrMalformedReport)
}

func TestInventory_SummaryAndDuplicates(t *testing.T) {
	inv := sampleInventory()

	s := inv.Summary()
	assert.Equal(t, 4, s.Files)
	assert.Equal(t, 1, s.Unreadable)
	assert.InDelta(t, 3.01, s.TotalSizeKB, 1e-9)
	assert.Equal(t, 2, s.UniqueHashes)

	dups := inv.Duplicates()
	require.Len(t, dups, 1)
	assert.ElementsMatch(t, []string{"/data/a.txt", "/data/c/a-copy.txt"}, dups["0cc175b9c0f1b6a831c399e269772661"])
}

func TestInventory_Accessors(t *testing.T) {
	inv := sampleInventory()
	assert.Equal(t, FileRecord{}, inv.Get(-1))
	assert.Equal(t, FileRecord{}, inv.Get(inv.Len()))

	inv.SortByPath()
	var paths []string
	for rec := range inv.Iterate {
		paths = append(paths, rec.Path)
	}
	assert.IsIncreasing(t, paths)

	recs := inv.Records()
	recs[0].Name = "mutated"
	assert.NotEqual(t, "mutated", inv.Get(0).Name)
}

func TestSameSet(t *testing.T) {
	a := sampleInventory()
	b := sampleInventory()
	b.SortByPath()
	assert.True(t, SameSet(a, b))

	changed := sampleInventory().Records()
	changed[0].Hash = ptr("ffffffffffffffffffffffffffffffff")
	assert.False(t, SameSet(a, NewInventory("/data", changed)))
	assert.False(t, SameSet(a, NewInventory("/data", changed[:2])))
}

func TestVerify(t *testing.T) {
	root := t.TempDir()
	keep := filepath.Join(root, "keep.txt")
	edit := filepath.Join(root, "edit.txt")
	gone := filepath.Join(root, "gone.txt")
	for _, p := range []string{keep, edit, gone} {
		require.NoError(t, os.WriteFile(p, []byte("original"), 0644))
	}

	inv, err := Collect(context.Background(), root)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(edit, []byte("originak"), 0644))
	require.NoError(t, os.Remove(gone))

	mismatches, err := Verify(context.Background(), inv)
	require.NoError(t, err)
	require.Len(t, mismatches, 2)

	reasons := make(map[string]string)
	for _, m := range mismatches {
		reasons[m.Path] = m.Reason
	}
	assert.Equal(t, "missing", reasons[gone])
	assert.Contains(t, reasons[edit], "hash changed")
	assert.NotContains(t, reasons, keep)
}
