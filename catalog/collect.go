package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

// Option configures Collect and Count.
type Option func(*options)

type options struct {
	workers        int
	logger         zerolog.Logger
	progressEvery  int
	progress       func(count int)
	afterEnumerate func(paths []string)
}

func defaultOptions() *options {
	return &options{
		workers: 1,
		logger:  zerolog.Nop(),
	}
}

// WithWorkers sets how many files are sized and hashed concurrently.
// Values below 1 select runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		o.workers = n
	}
}

// WithLogger attaches a logger for per-file and per-directory warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithProgress calls fn every n files discovered.
func WithProgress(n int, fn func(count int)) Option {
	return func(o *options) {
		o.progressEvery = n
		o.progress = fn
	}
}

// Collect walks root recursively and returns one FileRecord per file, in
// traversal order. Root must be an existing directory, otherwise the error
// wraps ErrInvalidInput and nothing is read.
//
// Sibling order is whatever the platform enumeration yields. Files that
// cannot be sized or hashed keep their record with nil fields. Directories
// below root that cannot be listed are logged and skipped.
func Collect(ctx context.Context, root string, opts ...Option) (*Inventory, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	walkRoot, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = walkFiles(ctx, walkRoot, o, func(path string) error {
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if o.afterEnumerate != nil {
		o.afterEnumerate(paths)
	}

	records := make([]FileRecord, len(paths))
	p := pool.New().WithMaxGoroutines(o.workers).WithContext(ctx)
	for i, path := range paths {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := NewFileRecord(path)
			if isUnreadable(err) {
				o.logger.Warn().Err(err).Str("path", path).Msg("recording file with absent fields")
			}
			records[i] = rec
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	o.logger.Debug().Str("root", walkRoot).Int("files", len(records)).Msg("collection complete")
	return &Inventory{Root: walkRoot, records: records}, nil
}

// Count returns the number of records Collect would produce for root,
// without sizing or hashing anything.
func Count(ctx context.Context, root string, opts ...Option) (int, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	walkRoot, err := resolveRoot(root)
	if err != nil {
		return 0, err
	}

	count := 0
	err = walkFiles(ctx, walkRoot, o, func(string) error {
		count++
		return nil
	})
	return count, err
}

// resolveRoot validates root and returns the absolute path to walk.
// A root that is itself a symlink to a directory is resolved so the walk
// descends into it.
func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidInput, root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidInput, root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidInput, root)
	}
	linfo, err := os.Lstat(abs)
	if err == nil && linfo.Mode()&fs.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrInvalidInput, root, err)
		}
		return resolved, nil
	}
	return abs, nil
}

// walkFiles calls fn for every non-directory entry below root, depth first.
// Symlinks to directories are neither followed nor reported, so the walk
// cannot loop.
func walkFiles(ctx context.Context, root string, o *options, fn func(path string) error) error {
	count := 0
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("%w: %s: %w", ErrInvalidInput, root, err)
			}
			o.logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if target, err := os.Stat(path); err == nil && target.IsDir() {
				return nil
			}
		}

		if err := fn(path); err != nil {
			return err
		}
		count++
		if o.progress != nil && o.progressEvery > 0 && count%o.progressEvery == 0 {
			o.progress(count)
		}
		return nil
	})
}
