package rawerr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for propagation and reporting.
type Kind string

const (
	// FileUnreadable means the path is missing or cannot be opened.
	FileUnreadable Kind = "file_unreadable"
	// UnsupportedFormat means the decoder rejected the file.
	UnsupportedFormat Kind = "unsupported_format"
	// DecodeFailure means the decoder accepted the file but processing failed.
	DecodeFailure Kind = "decode_failure"
	// InvalidConfig marks a DecoderConfig that broke a translator invariant.
	// It is an internal contract violation, never a user error.
	InvalidConfig Kind = "invalid_config"
	// ExtractionUnavailable means a tool or embedded image is absent.
	// It is expected and never surfaced as a failure.
	ExtractionUnavailable Kind = "extraction_unavailable"
)

// Error is the structured error type used throughout the module.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an *Error of the given kind.
func New(kind Kind, op, path string, err error) *Error {
	if err == nil {
		err = errors.New(string(kind))
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Errorf creates an *Error with a formatted cause.
func Errorf(kind Kind, op, path, format string, args ...interface{}) *Error {
	return New(kind, op, path, fmt.Errorf(format, args...))
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsPrimaryFailure reports whether err is one of the kinds that terminate a
// primary development: FileUnreadable, UnsupportedFormat or DecodeFailure.
func IsPrimaryFailure(err error) bool {
	switch KindOf(err) {
	case FileUnreadable, UnsupportedFormat, DecodeFailure:
		return true
	}
	return false
}
