// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"bytes"
	"strings"
	"testing"

	"storj/cli/internal/status"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		code int
		want FailureCategory
	}{
		{status.BridgeRequestError, FailureNetwork},
		{status.BridgeTimeoutError, FailureNetwork},
		{status.BridgeAuthError, FailureAuth},
		{status.BridgeNotFoundError, FailureNotFound},
		{status.BridgeJSONError, FailureBridge},
		{status.FileWriteError, FailureLocalFile},
		{99, FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(status.Text(tt.code), func(t *testing.T) {
			if got := Categorize(tt.code); got != tt.want {
				t.Errorf("Categorize(%d) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestFormatHints(t *testing.T) {
	if got := FormatHints(99); got != "" {
		t.Errorf("FormatHints(unknown) = %q, want empty", got)
	}
	if got := FormatHints(status.BridgeAuthError); !strings.Contains(got, "storj login") {
		t.Errorf("auth hints should mention login, got %q", got)
	}
}

func TestPresentHintsQuietByDefault(t *testing.T) {
	SetVerbose(false)
	var buf bytes.Buffer
	PresentHints(&buf, status.BridgeAuthError)
	if buf.Len() != 0 {
		t.Errorf("expected no output when not verbose, got %q", buf.String())
	}
}
