// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"io"
	"strings"

	"storj/cli/internal/status"

	"github.com/pterm/pterm"
)

// FailureCategory groups operation status codes by what the user can do about them.
type FailureCategory int

const (
	FailureUnknown FailureCategory = iota
	FailureNetwork
	FailureAuth
	FailureNotFound
	FailureBridge
	FailureLocalFile
)

// Categorize maps a status code to its category.
func Categorize(code int) FailureCategory {
	switch code {
	case status.BridgeRequestError, status.BridgeTimeoutError:
		return FailureNetwork
	case status.BridgeAuthError:
		return FailureAuth
	case status.BridgeNotFoundError:
		return FailureNotFound
	case status.BridgeInternalError, status.BridgeJSONError, status.BridgeFrameError:
		return FailureBridge
	case status.FileEncryptionError, status.FileReadError, status.FileWriteError, status.FileIntegrityError:
		return FailureLocalFile
	}
	return FailureUnknown
}

// FormatHints returns troubleshooting advice for a failed operation status.
func FormatHints(code int) string {
	var builder strings.Builder

	switch Categorize(code) {
	case FailureNetwork:
		builder.WriteString("The bridge could not be reached.\n")
		builder.WriteString("  • Check your internet connection\n")
		builder.WriteString("  • Verify the bridge URL passed with --url or STORJ_BRIDGE\n")
	case FailureAuth:
		builder.WriteString("The bridge rejected your credentials.\n")
		builder.WriteString("  • Check STORJ_BRIDGE_USER and STORJ_BRIDGE_PASS\n")
		builder.WriteString("  • Run 'storj login' to store new credentials\n")
	case FailureNotFound:
		builder.WriteString("The bucket or file does not exist.\n")
		builder.WriteString("  • Run 'storj list-buckets' or 'storj list-files <bucket-id>' to check ids\n")
	case FailureBridge:
		builder.WriteString("The bridge returned an unexpected response.\n")
		builder.WriteString("  • The service may be under maintenance; try again later\n")
	case FailureLocalFile:
		builder.WriteString("A local file could not be processed.\n")
		builder.WriteString("  • Check the path and its permissions\n")
		builder.WriteString("  • Check STORJ_CLI_MNEMONIC matches the one used for upload\n")
	default:
		return ""
	}

	builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint(fmt.Sprintf("status %d: %s", code, status.Text(code))))
	return builder.String()
}

// PresentHints writes troubleshooting advice for code to w when verbose output is enabled.
func PresentHints(w io.Writer, code int) {
	if !Verbose() {
		return
	}
	if hints := FormatHints(code); hints != "" {
		fmt.Fprintln(w, hints)
	}
}
