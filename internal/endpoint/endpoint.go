// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package endpoint resolves the bridge base URL into connection parameters.
//
// Parsing is deliberately permissive: only the protocol and host are required,
// and a missing or unparseable port falls back to DefaultPort so a malformed
// suffix never prevents the client from starting.
package endpoint

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultURL is used when neither the flag, the environment nor the config file name a bridge.
	DefaultURL = "https://api.storj.io:443/"
	// DefaultPort is used when the URL carries no usable port.
	DefaultPort = 443
	// EnvBridge names the environment variable holding the bridge URL.
	EnvBridge = "STORJ_BRIDGE"
)

// Endpoint holds the parsed connection parameters of a bridge.
type Endpoint struct {
	Protocol string
	Host     string
	Port     int
}

// BaseURL returns the URL requests are issued against.
func (e Endpoint) BaseURL() string {
	return fmt.Sprintf("%s://%s:%d", e.Protocol, e.Host, e.Port)
}

func (e Endpoint) String() string { return e.BaseURL() }

// ParseError reports a bridge URL that lacks a protocol or host.
type ParseError struct {
	URL    string
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid bridge URL %q: %s\nHint: %s", e.URL, e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid bridge URL %q: %s", e.URL, e.Reason)
}

// Select returns the first non-blank candidate, or DefaultURL.
// Candidates are given in precedence order: flag, environment, config file.
func Select(candidates ...string) string {
	for _, c := range candidates {
		if s := strings.TrimSpace(c); s != "" {
			return s
		}
	}
	return DefaultURL
}

// Parse scans raw as proto://host[:port][/...].
// The protocol runs up to the first ':' or '/', the host up to the next ':' or '/',
// and the port is the run of digits following the host's ':'. An IPv6 host is
// written in brackets and kept with them so BaseURL stays valid.
func Parse(raw string) (Endpoint, error) {
	ep := Endpoint{Port: DefaultPort}

	rest := raw
	proto, rest := scanUntil(rest, ":/")
	if proto == "" {
		return ep, &ParseError{URL: raw, Reason: "missing protocol", Hint: "use a URL such as " + DefaultURL}
	}
	ep.Protocol = proto

	if !strings.HasPrefix(rest, "://") {
		return ep, &ParseError{URL: raw, Reason: "missing \"://\" after protocol", Hint: "use a URL such as " + DefaultURL}
	}
	rest = rest[len("://"):]

	var host string
	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return ep, &ParseError{URL: raw, Reason: "unterminated IPv6 host", Hint: "close the address with ']', as in http://[::1]:6382"}
		}
		host, rest = rest[:end+1], rest[end+1:]
	} else {
		host, rest = scanUntil(rest, ":/")
	}
	if host == "" || host == "[]" {
		return ep, &ParseError{URL: raw, Reason: "missing host", Hint: "use a URL such as " + DefaultURL}
	}
	ep.Host = host

	if strings.HasPrefix(rest, ":") {
		digits, _ := scanDigits(rest[1:])
		if port, err := strconv.Atoi(digits); err == nil && port > 0 && port <= 65535 {
			ep.Port = port
		}
	}

	return ep, nil
}

// scanUntil splits s before the first byte found in stops.
func scanUntil(s, stops string) (string, string) {
	if i := strings.IndexAny(s, stops); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

func scanDigits(s string) (string, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}
