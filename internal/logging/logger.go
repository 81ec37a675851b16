// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/pterm/pterm"
)

// EnvVerbose enables debug output when set to "1".
const EnvVerbose = "STORJ_VERBOSE"

var verbose atomic.Bool

func init() {
	if os.Getenv(EnvVerbose) == "1" {
		SetVerbose(true)
	}
}

// SetVerbose toggles debug output for every package.
func SetVerbose(on bool) {
	verbose.Store(on)
	if on {
		pterm.EnableDebugMessages()
	} else {
		pterm.DisableDebugMessages()
	}
}

// Verbose reports whether debug output is enabled.
func Verbose() bool { return verbose.Load() }

// Debugf prints a masked debug line to stderr when verbose output is enabled.
func Debugf(format string, args ...any) {
	if !Verbose() {
		return
	}
	pterm.Debug.WithWriter(os.Stderr).Println(Mask(pterm.Sprintf(format, args...)))
}

// Errorf prints a masked error line to w.
func Errorf(w io.Writer, format string, args ...any) {
	pterm.Error.WithWriter(w).Println(Mask(pterm.Sprintf(format, args...)))
}

// Warnf prints a masked warning line to w.
func Warnf(w io.Writer, format string, args ...any) {
	pterm.Warning.WithWriter(w).Println(Mask(pterm.Sprintf(format, args...)))
}

// Successf prints a success line to w.
func Successf(w io.Writer, format string, args ...any) {
	pterm.Success.WithWriter(w).Println(pterm.Sprintf(format, args...))
}
