// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package credentials resolves the bridge username, password and mnemonic.
//
// Username and password are looked up in the environment, then in the OS keychain,
// and finally requested interactively. The mnemonic is read from the environment
// only and is checked before anything else so that an upload without key material
// fails before any prompt, file or network activity.
package credentials

import (
	"errors"
	"os"
	"strings"

	clierrors "storj/cli/internal/errors"
	"storj/cli/internal/logging"
	"storj/cli/internal/terminal"
)

// Environment variables consulted by the resolver.
const (
	EnvUser     = "STORJ_BRIDGE_USER"
	EnvPass     = "STORJ_BRIDGE_PASS"
	EnvMnemonic = "STORJ_CLI_MNEMONIC"
)

// Credentials holds the resolved secrets for one invocation. They are never persisted
// by the resolver itself.
type Credentials struct {
	Username string
	Password string
	Mnemonic string
}

// Prompter asks the user for input.
type Prompter interface {
	ReadLine(prompt string) (string, error)
	ReadSecret(prompt string) (string, error)
}

// Store is a persisted source of bridge credentials, such as the OS keychain.
type Store interface {
	LoadBridgeCredentials() (user string, pass string, err error)
}

// Resolver resolves credentials from the environment, a store and a prompter.
type Resolver struct {
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// Store may be nil.
	Store Store
	// Prompter may be nil, in which case interactive input is unavailable.
	Prompter Prompter
}

// Resolve returns the credentials for an operation.
// When needMnemonic is true, a missing STORJ_CLI_MNEMONIC is a configuration error.
func (r *Resolver) Resolve(needMnemonic bool) (Credentials, error) {
	var c Credentials

	c.Mnemonic = r.env(EnvMnemonic)
	if needMnemonic && c.Mnemonic == "" {
		return c, clierrors.New(clierrors.Config, "Set your "+EnvMnemonic)
	}
	logging.RegisterSecret(c.Mnemonic)

	c.Username = r.env(EnvUser)
	c.Password = r.env(EnvPass)

	if (c.Username == "" || c.Password == "") && r.Store != nil {
		user, pass, err := r.Store.LoadBridgeCredentials()
		if err != nil {
			logging.Debugf("credentials: keychain lookup skipped: %v", err)
		} else {
			if c.Username == "" {
				c.Username = user
			}
			if c.Password == "" {
				c.Password = pass
			}
		}
	}

	if c.Username == "" {
		user, err := r.prompt(func(p Prompter) (string, error) { return p.ReadLine("Username (email): ") })
		if err != nil {
			return c, err
		}
		c.Username = strings.TrimSpace(user)
	}
	if c.Password == "" {
		pass, err := r.prompt(func(p Prompter) (string, error) { return p.ReadSecret("Password: ") })
		if err != nil {
			return c, err
		}
		c.Password = pass
	}
	logging.RegisterSecret(c.Password)

	if c.Username == "" || c.Password == "" {
		return c, clierrors.New(clierrors.Config, "bridge username and password are required")
	}
	return c, nil
}

func (r *Resolver) env(key string) string {
	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, _ := lookup(key)
	return strings.TrimSpace(v)
}

func (r *Resolver) prompt(read func(Prompter) (string, error)) (string, error) {
	if r.Prompter == nil {
		return "", notInteractive(terminal.ErrNotInteractive)
	}
	v, err := read(r.Prompter)
	if err != nil {
		if errors.Is(err, terminal.ErrNotInteractive) {
			return "", notInteractive(err)
		}
		return "", clierrors.Wrap(clierrors.Config, "unable to read credentials", err)
	}
	return v, nil
}

func notInteractive(err error) error {
	return clierrors.Wrap(clierrors.Config,
		"no terminal available for credential prompts; set "+EnvUser+" and "+EnvPass, err)
}
