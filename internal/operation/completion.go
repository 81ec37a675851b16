// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package operation

import "sync"

// Outcome is the terminal result of an operation.
type Outcome struct {
	Status  int
	Message string
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool { return o.Status == 0 }

// Completion records the first terminal outcome and ignores the rest.
type Completion struct {
	mu      sync.Mutex
	done    bool
	outcome Outcome
}

// Complete records o if nothing was recorded yet and reports whether it did.
func (c *Completion) Complete(o Outcome) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return false
	}
	c.done = true
	c.outcome = o
	return true
}

// Outcome returns the recorded outcome, if any.
func (c *Completion) Outcome() (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome, c.done
}
