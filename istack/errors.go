package istack

import "errors"

// Errors surfaced by stack operations.  All are propagated immediately to
// the caller of the triggering operation: no retries, no silent skipping,
// no partial results.  A single unreadable member aborts an entire
// aggregation or movie-assembly call.
var (
	// ErrNotFound is returned when a stack directory or member file is missing.
	ErrNotFound = errors.New("directory or file not found")

	// ErrEmptyStack is returned by operations that require at least one member.
	ErrEmptyStack = errors.New("stack has no members")

	// ErrExhausted is returned when an iterator is advanced past its end.
	ErrExhausted = errors.New("iterator exhausted")

	// ErrDecode is returned when a codec cannot parse a member file.
	ErrDecode = errors.New("unable to decode image")

	// ErrWrite is returned when an append fails to persist a member.
	ErrWrite = errors.New("unable to write image")
)
