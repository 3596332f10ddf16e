package catalog

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// FileRecord is the inventory entry for a single file.
// SizeKB and Hash are nil when the file could not be sized or read.
type FileRecord struct {
	Path      string   `json:"file_path"`     // absolute path of the file
	Name      string   `json:"filename"`      // final path segment
	Extension string   `json:"file_type"`     // suffix from the last '.' after leading dots, or ""
	SizeKB    *float64 `json:"file_size_kb"`  // size in KiB, two decimals
	Hash      *string  `json:"file_hash_md5"` // lowercase hex MD5 of the content
}

// NewFileRecord builds the record for path. The record is always usable:
// when the size or content cannot be read, the matching field is left nil and
// the returned error (wrapping ErrFileUnreadable) says why.
func NewFileRecord(path string) (FileRecord, error) {
	name := filepath.Base(path)
	rec := FileRecord{
		Path:      path,
		Name:      name,
		Extension: Extension(name),
	}

	info, err := os.Stat(path)
	if err != nil {
		return rec, fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}
	size := KB(info.Size())
	rec.SizeKB = &size

	hash, err := FileHash(path)
	if err != nil {
		return rec, fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}
	rec.Hash = &hash
	return rec, nil
}

// Complete reports whether both optional fields are present.
func (r FileRecord) Complete() bool {
	return r.SizeKB != nil && r.Hash != nil
}

// Extension returns the suffix of name starting at its last '.', or "" when
// the name has no dot. Leading dots do not start an extension, so ".bashrc"
// and "..x" yield "" while "archive.tar.gz" yields ".gz".
func Extension(name string) string {
	stem := strings.TrimLeft(name, ".")
	i := strings.LastIndexByte(stem, '.')
	if i < 0 {
		return ""
	}
	return stem[i:]
}

// KB converts a byte count to kilobytes rounded to two decimals, halves to
// even: 128 bytes is 0.12 KB.
func KB(bytes int64) float64 {
	return math.RoundToEven(float64(bytes)/1024*100) / 100
}

// isUnreadable reports whether err came from a per-file read failure.
func isUnreadable(err error) bool {
	return errors.Is(err, ErrFileUnreadable)
}
