package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FailureLog is a plain text log with one line per failed item.
type FailureLog struct {
	path  string
	file  *os.File
	w     *bufio.Writer
	count int
}

// CreateFailureLog truncates (or creates) the log at path and writes title as
// its first line when title is non-empty.
func CreateFailureLog(path, title string) (*FailureLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	l := &FailureLog{path: path, file: f, w: bufio.NewWriter(f)}
	if title != "" {
		if _, err := fmt.Fprintln(l.w, title); err != nil {
			f.Close()
			return nil, err
		}
	}
	return l, nil
}

// Printf appends one line to the log.
func (l *FailureLog) Printf(format string, args ...any) error {
	l.count++
	_, err := fmt.Fprintf(l.w, format+"\n", args...)
	return err
}

// Count is the number of lines written after the title.
func (l *FailureLog) Count() int {
	return l.count
}

func (l *FailureLog) Path() string {
	return l.path
}

func (l *FailureLog) Close() error {
	if err := l.w.Flush(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}

// WriteLines writes lines to path, one per line.
func WriteLines(path string, lines []string) error {
	l, err := CreateFailureLog(path, "")
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err := l.Printf("%s", line); err != nil {
			l.Close()
			return err
		}
	}
	return l.Close()
}

// isFile reports whether path names an existing regular file.
func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// copyFile copies src to dst, overwriting dst, and carries over the source
// permission bits and modification time. A dst that is src itself, or a link
// to it, is rejected with ErrSameFile before anything is truncated.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotFile, src)
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(info, dstInfo) {
		return fmt.Errorf("%w: %s and %s", ErrSameFile, src, dst)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// moveFile renames src to dst, falling back to copy and delete when a rename
// is not possible (e.g. across filesystems).
func moveFile(src, dst string) error {
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("%w (copy fallback: %w)", renameErr, err)
	}
	return os.Remove(src)
}

// requireFields takes name/value pairs and fails on the first empty value.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidJob, pairs[i])
		}
	}
	return nil
}
