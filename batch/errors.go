package batch

import "errors"

var (
	ErrInvalidJob = errors.New("invalid job")
	ErrNotFile    = errors.New("not a regular file")
	ErrSameFile   = errors.New("source and destination are the same file")
)
