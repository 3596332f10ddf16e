package catalog

import "errors"

// Sentinel errors for package catalog.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Collection errors
	ErrInvalidInput   = errors.New("invalid input")
	ErrFileUnreadable = errors.New("file unreadable")

	// File type errors
	ErrExpectedFile = errors.New("expected file, got directory")
	ErrNotRegular   = errors.New("not a regular file")

	// Report errors
	ErrOutputWrite       = errors.New("cannot write report")
	ErrUnsupportedFormat = errors.New("unsupported report format")
	ErrMalformedReport   = errors.New("malformed report")
)
