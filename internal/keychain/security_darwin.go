// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build darwin

package keychain

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"storj/cli/internal/logging"
)

const securityLabel = "Storj bridge credentials"

// securityBackend stores items as generic passwords through the security(1) tool.
// Items are keyed by service ServiceName and account key.
type securityBackend struct {
	path string
}

func newSecurityBackend() (*securityBackend, error) {
	path, err := exec.LookPath("security")
	if err != nil {
		return nil, fmt.Errorf("security command not found: %w", err)
	}
	return &securityBackend{path: path}, nil
}

// run executes security with args and returns its trimmed stdout.
func (s *securityBackend) run(args ...string) (string, error) {
	cmd := exec.Command(s.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(msg, "could not be found") {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("security %s: %s: %w", args[0], msg, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (s *securityBackend) Set(key, value string) error {
	logging.Debugf("keychain: storing %q (%d bytes)", key, len(value))
	_, err := s.run("add-generic-password", "-U", "-s", ServiceName, "-a", key, "-l", securityLabel, "-w", value)
	return err
}

func (s *securityBackend) Get(key string) (string, error) {
	v, err := s.run("find-generic-password", "-s", ServiceName, "-a", key, "-w")
	if errors.Is(err, ErrNotFound) {
		logging.Debugf("keychain: %q not stored", key)
	}
	return v, err
}

// Delete removes key; a missing item is not an error.
func (s *securityBackend) Delete(key string) error {
	_, err := s.run("delete-generic-password", "-s", ServiceName, "-a", key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
