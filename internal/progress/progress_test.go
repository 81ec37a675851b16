// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package progress

import (
	"bytes"
	"math"
	"testing"
)

func TestBarUpdate(t *testing.T) {
	var buf bytes.Buffer
	b := Start(&buf, "Uploading", false)

	steps := []struct {
		in   float64
		want int
	}{
		{0.10, 10},
		{0.05, 10},
		{0.555, 56},
		{math.NaN(), 56},
		{-1, 56},
		{2, 100},
	}
	for _, s := range steps {
		b.Update(s.in)
		if got := b.Percent(); got != s.want {
			t.Errorf("Update(%v) percent = %d, want %d", s.in, got, s.want)
		}
	}

	b.Stop()
	b.Stop()
	b.Update(0.2)
	if got := b.Percent(); got != 100 {
		t.Errorf("percent after Stop = %d, want 100", got)
	}
}
