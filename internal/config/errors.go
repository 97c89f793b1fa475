package config

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a missing file, section or key.
	// It is always recoverable: the caller applies a default.
	ErrNotFound = errors.New("config: not found")

	// ErrInvalidName reports an empty or multi-line section or key name.
	ErrInvalidName = errors.New("config: invalid section or key name")

	// ErrInvalidValue reports a value that cannot be stored on one line.
	ErrInvalidValue = errors.New("config: invalid value")
)

// ParseError reports a preference file that exists but is not valid INI.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IOError reports a failure to read or write the preference file.
// The in-memory state of the caller stays valid; only durability is lost.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("config: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
