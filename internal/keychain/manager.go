// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for storj.
// It stores the bridge username and password in the OS credential store so that
// later invocations can skip the interactive prompt. The mnemonic is never stored.
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// ErrNotFound is returned when no credentials have been stored.
var ErrNotFound = errors.New("keychain: item not found")

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// keychainBackend defines the interface for keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "storj"

// Keys used for storing secrets in the OS keychain.
const (
	KeyBridgeUser = "bridge_user"
	KeyBridgePass = "bridge_pass"
)

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return NewManagerWithRing(ring), nil
}

// NewManagerWithRing wraps an already opened keyring.
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// GetManager returns the global keychain manager instance.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	globalManager, globalError = NewManager()
	if globalError != nil {
		globalManager = nil
		return nil, globalError
	}
	return globalManager, nil
}

// openRing opens the OS keyring using native platform backends only; no file fallback.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	case "linux", "freebsd", "openbsd":
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.KeyCtlBackend,
			keyring.PassBackend,
		}
	default:
		return nil, errors.New("secure storage not supported on this OS")
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
		KeyCtlScope:     "user",
	}
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}

	return keyring.Open(cfg)
}

func (m *Manager) set(key, value string) error {
	if m.backend != nil {
		return m.backend.Set(key, value)
	}
	return m.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
}

func (m *Manager) get(key string) (string, error) {
	if m.backend != nil {
		return m.backend.Get(key)
	}
	it, err := m.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(it.Data), nil
}

func (m *Manager) remove(key string) {
	if m.backend != nil {
		_ = m.backend.Delete(key)
		return
	}
	_ = m.ring.Remove(key)
}

// SaveBridgeCredentials stores the bridge username and password.
// This method is thread-safe.
func (m *Manager) SaveBridgeCredentials(user, pass string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user == "" || pass == "" {
		return errors.New("username and password are required")
	}
	if err := m.set(KeyBridgeUser, user); err != nil {
		return err
	}
	return m.set(KeyBridgePass, pass)
}

// LoadBridgeCredentials retrieves the stored bridge username and password.
// Both must be present; otherwise ErrNotFound is returned.
// This method is thread-safe.
func (m *Manager) LoadBridgeCredentials() (string, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, err := m.get(KeyBridgeUser)
	if err != nil {
		return "", "", err
	}
	pass, err := m.get(KeyBridgePass)
	if err != nil {
		return "", "", err
	}
	if user == "" || pass == "" {
		return "", "", ErrNotFound
	}
	return user, pass, nil
}

// ClearBridgeCredentials removes the stored bridge credentials.
// This method is thread-safe.
func (m *Manager) ClearBridgeCredentials() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.remove(KeyBridgeUser)
	m.remove(KeyBridgePass)
	return nil
}
