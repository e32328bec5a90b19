package seal

import (
	"errors"
	"fmt"
)

var (
	// ErrIO marks failures to read corpus files or read/write seal documents.
	ErrIO = errors.New("io error")
	// ErrParse marks a malformed seal document.
	ErrParse = errors.New("parse error")
)

// Error carries the failure kind plus the path it happened on.
type Error struct {
	Kind error
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func ioError(path string, err error) error {
	return &Error{Kind: ErrIO, Path: path, Err: err}
}

func parseErrorf(path, format string, args ...any) error {
	return &Error{Kind: ErrParse, Path: path, Err: fmt.Errorf(format, args...)}
}
