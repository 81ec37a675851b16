// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package status

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: OK},
		{name: "tagged", err: Wrap(BridgeAuthError, errors.New("401")), want: BridgeAuthError},
		{name: "wrapped tag", err: fmt.Errorf("list: %w", Wrap(BridgeNotFoundError, errors.New("404"))), want: BridgeNotFoundError},
		{name: "deadline", err: fmt.Errorf("get: %w", context.DeadlineExceeded), want: BridgeTimeoutError},
		{name: "plain", err: errors.New("boom"), want: BridgeRequestError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Of(tt.err); got != tt.want {
				t.Errorf("Of() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTextUnknown(t *testing.T) {
	if got := Text(200); got != "Unknown error (200)" {
		t.Errorf("Text(200) = %q", got)
	}
	if Wrap(FileReadError, nil) != nil {
		t.Error("Wrap(nil) should be nil")
	}
}
