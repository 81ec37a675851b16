// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package status defines the numeric status codes reported by bridge operations.
// A non-zero code produced by a failed operation becomes the process exit code,
// so every code fits in a single byte.
package status

import (
	"context"
	"errors"
	"fmt"
)

// Status codes reported to operation completion callbacks.
const (
	OK = 0

	BridgeRequestError  = 10
	BridgeAuthError     = 11
	BridgeNotFoundError = 12
	BridgeTimeoutError  = 13
	BridgeInternalError = 14
	BridgeJSONError     = 15
	BridgeFrameError    = 16

	FileEncryptionError = 20
	FileReadError       = 21
	FileWriteError      = 22
	FileIntegrityError  = 23
)

var text = map[int]string{
	OK:                  "No errors",
	BridgeRequestError:  "Bridge request error",
	BridgeAuthError:     "Bridge request authorization error",
	BridgeNotFoundError: "Bridge resource not found",
	BridgeTimeoutError:  "Bridge request timeout error",
	BridgeInternalError: "Bridge request internal error",
	BridgeJSONError:     "Unexpected JSON response",
	BridgeFrameError:    "Bridge frame request error",
	FileEncryptionError: "File encryption error",
	FileReadError:       "File read error",
	FileWriteError:      "File write error",
	FileIntegrityError:  "File integrity error",
}

// Text returns the human readable description of a status code.
func Text(code int) string {
	if s, ok := text[code]; ok {
		return s
	}
	return fmt.Sprintf("Unknown error (%d)", code)
}

// Error attaches a status code to an underlying failure.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", Text(e.Code), e.Err)
	}
	return Text(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns err tagged with code. A nil err yields nil.
func Wrap(code int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Err: err}
}

// Of extracts the status code carried by err.
// Untagged errors map to BridgeRequestError, or BridgeTimeoutError when a deadline expired.
func Of(err error) int {
	if err == nil {
		return OK
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return BridgeTimeoutError
	}
	return BridgeRequestError
}
