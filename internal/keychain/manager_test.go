// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

func TestBridgeCredentialsRoundTrip(t *testing.T) {
	m := NewManagerWithRing(keyring.NewArrayKeyring(nil))

	if _, _, err := m.LoadBridgeCredentials(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadBridgeCredentials() on empty ring error = %v, want ErrNotFound", err)
	}

	if err := m.SaveBridgeCredentials("alice@example.com", "s3cret"); err != nil {
		t.Fatalf("SaveBridgeCredentials() error = %v", err)
	}

	user, pass, err := m.LoadBridgeCredentials()
	if err != nil {
		t.Fatalf("LoadBridgeCredentials() error = %v", err)
	}
	if user != "alice@example.com" || pass != "s3cret" {
		t.Errorf("LoadBridgeCredentials() = %q, %q", user, pass)
	}

	if err := m.ClearBridgeCredentials(); err != nil {
		t.Fatalf("ClearBridgeCredentials() error = %v", err)
	}
	if _, _, err := m.LoadBridgeCredentials(); !errors.Is(err, ErrNotFound) {
		t.Errorf("after clear error = %v, want ErrNotFound", err)
	}
}

func TestSaveBridgeCredentialsRequiresBoth(t *testing.T) {
	m := NewManagerWithRing(keyring.NewArrayKeyring(nil))
	if err := m.SaveBridgeCredentials("alice@example.com", ""); err == nil {
		t.Error("expected error for empty password")
	}
}
