package catalog

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withAfterEnumerate(fn func(paths []string)) Option {
	return func(o *options) {
		o.afterEnumerate = fn
	}
}

// buildTree creates files at several depths and returns how many it wrote.
func buildTree(t *testing.T, root string) int {
	t.Helper()
	files := map[string]string{
		"a.txt":                  "alpha",
		"README":                 "read me",
		"docs/archive.tar.gz":    "not really gzip",
		"docs/report.pdf":        "pdf bytes",
		"docs/2024/01/deed.docx": "deed",
		"docs/2024/01/map.png":   "png",
		"empty/.keep":            "",
		"deep/a/b/c/d/e/leaf":    "leaf",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "no-files", "still-none"), 0755))
	return len(files)
}

func byName(inv *Inventory) map[string]FileRecord {
	out := make(map[string]FileRecord)
	for rec := range inv.Iterate {
		out[rec.Name] = rec
	}
	return out
}

func TestCollect_OneRecordPerFile(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			root := t.TempDir()
			n := buildTree(t, root)

			inv, err := Collect(context.Background(), root, WithWorkers(workers))
			require.NoError(t, err)
			assert.Equal(t, n, inv.Len())

			seen := make(map[string]bool)
			for rec := range inv.Iterate {
				assert.False(t, seen[rec.Path], "duplicate record for %s", rec.Path)
				seen[rec.Path] = true
				assert.True(t, filepath.IsAbs(rec.Path))
				assert.True(t, rec.Complete(), "record for %s has absent fields", rec.Path)
			}
		})
	}
}

func TestCollect_RecordFields(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root)

	sized := filepath.Join(root, "two-kb.bin")
	require.NoError(t, os.WriteFile(sized, make([]byte, 2048), 0644))

	inv, err := Collect(context.Background(), root)
	require.NoError(t, err)
	recs := byName(inv)

	tests := []struct {
		name    string
		wantExt string
	}{
		{name: "archive.tar.gz", wantExt: ".gz"},
		{name: "README", wantExt: ""},
		{name: "report.pdf", wantExt: ".pdf"},
		{name: ".keep", wantExt: ""},
		{name: "leaf", wantExt: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := recs[tt.name]
			require.True(t, ok, "no record for %s", tt.name)
			assert.Equal(t, tt.name, rec.Name)
			assert.Equal(t, tt.wantExt, rec.Extension)
		})
	}

	rec := recs["two-kb.bin"]
	require.NotNil(t, rec.SizeKB)
	assert.Equal(t, 2.00, *rec.SizeKB)
	assert.Equal(t, sized, rec.Path)

	want := md5.Sum([]byte("read me"))
	require.NotNil(t, recs["README"].Hash)
	assert.Equal(t, hex.EncodeToString(want[:]), *recs["README"].Hash)
}

func TestCollect_Idempotent(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root)

	first, err := Collect(context.Background(), root)
	require.NoError(t, err)
	second, err := Collect(context.Background(), root, WithWorkers(3))
	require.NoError(t, err)

	assert.True(t, SameSet(first, second))
}

func TestCollect_InvalidRoot(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	tests := []struct {
		name string
		root string
	}{
		{name: "missing directory", root: filepath.Join(tmpDir, "nope")},
		{name: "regular file", root: file},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := Collect(context.Background(), tt.root)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, inv)
		})
	}
}

func TestCollect_FileDeletedAfterEnumeration(t *testing.T) {
	root := t.TempDir()
	n := buildTree(t, root)
	victim := filepath.Join(root, "docs", "report.pdf")

	inv, err := Collect(context.Background(), root, withAfterEnumerate(func([]string) {
		require.NoError(t, os.Remove(victim))
	}))
	require.NoError(t, err)
	require.Equal(t, n, inv.Len())

	for rec := range inv.Iterate {
		if rec.Path == victim {
			assert.Equal(t, "report.pdf", rec.Name)
			assert.Nil(t, rec.SizeKB)
			assert.Nil(t, rec.Hash)
			continue
		}
		assert.True(t, rec.Complete(), "record for %s should be unaffected", rec.Path)
	}
	assert.Equal(t, 1, inv.Summary().Unreadable)
}

func TestCollect_UnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	locked := filepath.Join(root, "locked.txt")
	require.NoError(t, os.WriteFile(locked, []byte("secret"), 0000))

	inv, err := Collect(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, 1, inv.Len())

	rec := inv.Get(0)
	require.NotNil(t, rec.SizeKB)
	assert.Nil(t, rec.Hash)
}

func TestCollect_Symlinks(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real.txt")
	require.NoError(t, os.WriteFile(target, []byte("real"), 0644))
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))

	if err := os.Symlink(target, filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	// directory link back to root would loop if followed
	require.NoError(t, os.Symlink(root, filepath.Join(sub, "loop")))
	require.NoError(t, os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "broken")))

	inv, err := Collect(context.Background(), root)
	require.NoError(t, err)

	recs := byName(inv)
	assert.Len(t, recs, 3)
	assert.NotContains(t, recs, "loop")

	require.NotNil(t, recs["link.txt"].Hash)
	assert.Equal(t, *recs["real.txt"].Hash, *recs["link.txt"].Hash)

	assert.Nil(t, recs["broken"].SizeKB)
	assert.Nil(t, recs["broken"].Hash)
}

func TestCollect_Cancelled(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collect(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCount(t *testing.T) {
	root := t.TempDir()
	n := buildTree(t, root)

	var progress []int
	got, err := Count(context.Background(), root, WithProgress(3, func(c int) {
		progress = append(progress, c)
	}))
	require.NoError(t, err)
	assert.Equal(t, n, got)
	assert.Equal(t, []int{3, 6}, progress)

	_, err = Count(context.Background(), filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExtensionAndKB(t *testing.T) {
	extTests := map[string]string{
		"archive.tar.gz": ".gz",
		"README":         "",
		"photo.JPG":      ".JPG",
		"trailing.":      ".",
		".bashrc":        "",
		"..x":            "",
		".config.toml":   ".toml",
	}
	for name, want := range extTests {
		assert.Equal(t, want, Extension(name), name)
	}

	kbTests := []struct {
		bytes int64
		want  float64
	}{
		{0, 0},
		{1, 0},
		{128, 0.12},
		{384, 0.38},
		{512, 0.5},
		{640, 0.62},
		{1000, 0.98},
		{2048, 2},
		{1536 * 1024, 1536},
	}
	for _, tt := range kbTests {
		assert.Equal(t, tt.want, KB(tt.bytes), "KB(%d)", tt.bytes)
	}
}
