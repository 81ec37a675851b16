// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package progress renders transfer progress as a pterm progress bar.
package progress

import (
	"io"
	"math"

	"storj/cli/internal/terminal"

	"github.com/pterm/pterm"
)

// Bar displays fractional progress. A Bar is not safe for concurrent use; the
// operation loop delivers every update on one goroutine.
type Bar struct {
	pb      *pterm.ProgressbarPrinter
	current int
	stopped bool
	cursor  bool
}

// Start shows a bar titled title on w. When hideCursor is set the terminal
// cursor stays hidden until Stop.
func Start(w io.Writer, title string, hideCursor bool) *Bar {
	b := &Bar{cursor: hideCursor}
	if hideCursor {
		terminal.HideCursor()
	}
	pb, err := pterm.DefaultProgressbar.
		WithTotal(100).
		WithTitle(title).
		WithWriter(w).
		WithRemoveWhenDone(false).
		Start()
	if err == nil {
		b.pb = pb
	}
	return b
}

// Update moves the bar to fraction, clamped to [0, 1]. The bar never moves backwards.
func (b *Bar) Update(fraction float64) {
	if b.stopped || math.IsNaN(fraction) {
		return
	}
	pct := int(math.Round(math.Max(0, math.Min(1, fraction)) * 100))
	if pct <= b.current {
		return
	}
	if b.pb != nil {
		b.pb.Add(pct - b.current)
	}
	b.current = pct
}

// Percent returns the last displayed percentage.
func (b *Bar) Percent() int { return b.current }

// Stop removes the bar from further updates. Calling Stop more than once is harmless.
func (b *Bar) Stop() {
	if b.stopped {
		return
	}
	b.stopped = true
	if b.pb != nil {
		_, _ = b.pb.Stop()
	}
	if b.cursor {
		terminal.ShowCursor()
	}
}
