// Package errors defines typed errors with categories for user-friendly reporting.
// Each category maps onto a process exit code: usage, configuration, filesystem
// and shutdown failures exit with 1, while operation failures carry the status
// code reported by the bridge and exit with it unchanged.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Usage indicates a missing command or wrong positional arguments.
	Usage Kind = "usage"
	// Config indicates missing or unreadable configuration such as credentials.
	Config Kind = "config"
	// Filesystem indicates a local file could not be opened.
	Filesystem Kind = "filesystem"
	// Operation indicates the bridge reported a non-zero completion status.
	Operation Kind = "operation"
	// Shutdown indicates the execution loop could not be drained or closed.
	Shutdown Kind = "shutdown"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
	// Status is the operation status code; only meaningful for Operation errors.
	Status int
	// Reported is set once the message has already been shown to the user.
	Reported bool
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

// ExitCode returns the process exit code for this error.
func (e *E) ExitCode() int {
	if e.Kind == Operation && e.Status > 0 {
		return e.Status
	}
	return 1
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Reported returns an Operation error for a failure whose message was already printed.
func Reported(code int, msg string) *E {
	return &E{Kind: Operation, Message: msg, Status: code, Reported: true}
}

// As extracts the *E from err, if any.
func As(err error) (*E, bool) {
	var e *E
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

// ExitCode maps any error to a process exit code. Untyped errors exit with 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if e, ok := As(err); ok {
		return e.ExitCode()
	}
	return 1
}
