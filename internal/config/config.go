// Package config keeps the few non-secret storj settings in a JSON file under
// the XDG config directory. Bridge credentials belong to the OS keychain and the
// mnemonic is only ever read from the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"storj/cli/internal/xdg"
)

// FileName is the config file name inside the storj config directory.
const FileName = "config.json"

// Config holds non-sensitive CLI settings.
type Config struct {
	// BridgeURL is used when neither --url nor STORJ_BRIDGE is set.
	BridgeURL string `json:"bridge_url,omitempty"`
	// Verbose enables debug output without passing --verbose.
	Verbose bool `json:"verbose,omitempty"`
}

// Path returns the location of the config file. Nothing is created.
func Path() (string, error) {
	return xdg.ConfigPath(FileName)
}

// Load reads the config file. A missing file yields the zero Config.
func Load() (Config, error) {
	var c Config
	p, err := Path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("read %s: %w", p, err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", p, err)
	}
	return c, nil
}

// Save replaces the config file atomically. The file is readable by the owner only.
func Save(c Config) error {
	p, err := xdg.ConfigFile(FileName)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), FileName+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

// Update loads the config, applies fn and saves the result.
func Update(fn func(*Config)) error {
	c, err := Load()
	if err != nil {
		return err
	}
	fn(&c)
	return Save(c)
}
