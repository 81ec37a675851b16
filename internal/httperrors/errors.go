// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors explains network failures between the CLI and the bridge.
package httperrors

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// Class is the kind of network failure detected in an error chain.
type Class int

const (
	// NotNetwork means the error did not come from the network.
	NotNetwork Class = iota
	Timeout
	DNS
	ConnectionRefused
	TLS
)

func (c Class) String() string {
	switch c {
	case Timeout:
		return "timeout"
	case DNS:
		return "dns"
	case ConnectionRefused:
		return "connection refused"
	case TLS:
		return "tls"
	}
	return "other"
}

// Classify detects the network failure class of err.
func Classify(err error) Class {
	switch {
	case err == nil:
		return NotNetwork
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return ConnectionRefused
	case isTimeoutError(err):
		return Timeout
	case isTLSError(err):
		return TLS
	}
	return NotNetwork
}

// Present writes an explanation of a network failure that happened while doing
// what context describes. It reports whether err was recognized; nothing is
// written for other errors.
func Present(w io.Writer, err error, host, context string) bool {
	class := Classify(err)
	if class == NotNetwork {
		return false
	}
	if host == "" {
		host = "the bridge"
	}

	title := pterm.NewStyle(pterm.Bold)
	switch class {
	case Timeout:
		fmt.Fprintln(w, title.Sprintf("Connection timeout while %s", context))
		fmt.Fprintf(w, "%s took too long to respond. This could mean:\n", host)
		fmt.Fprintln(w, "  • Slow internet connection")
		fmt.Fprintln(w, "  • The bridge is under heavy load")
		fmt.Fprintln(w, "  • A firewall is dropping the connection")
	case DNS:
		fmt.Fprintln(w, title.Sprintf("Cannot resolve bridge address while %s", context))
		fmt.Fprintf(w, "Unable to look up %s. Please check:\n", host)
		fmt.Fprintln(w, "  • Your internet connection is working")
		fmt.Fprintln(w, "  • The host in --url or STORJ_BRIDGE is spelled correctly")
	case ConnectionRefused:
		fmt.Fprintln(w, title.Sprintf("Connection refused while %s", context))
		fmt.Fprintf(w, "%s is not accepting connections. This could mean:\n", host)
		fmt.Fprintln(w, "  • The bridge is temporarily down")
		fmt.Fprintln(w, "  • Wrong bridge address or port")
	case TLS:
		fmt.Fprintln(w, title.Sprintf("Secure connection failed while %s", context))
		fmt.Fprintln(w, "Cannot establish a secure HTTPS connection. Try:")
		fmt.Fprintln(w, "  • Check your system date and time")
		fmt.Fprintln(w, "  • Verify network proxy settings")
		fmt.Fprintln(w, "  • Use http:// in --url if the bridge does not serve TLS")
	}
	return true
}

func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded")
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isTLSError(err error) bool {
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "tls") ||
		strings.Contains(lower, "x509") ||
		strings.Contains(lower, "certificate") ||
		strings.Contains(lower, "handshake")
}

// HostOf extracts the host part of a URL for messages, falling back to "the bridge".
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "the bridge"
	}
	return u.Host
}
