// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package environment holds the per-invocation handle shared by every operation:
// the resolved endpoint and credentials, the execution loop, and the bridge client.
package environment

import (
	"errors"
	"fmt"
	"sync"

	"storj/cli/internal/bridge"
	"storj/cli/internal/credentials"
	"storj/cli/internal/endpoint"
	clierrors "storj/cli/internal/errors"
	"storj/cli/internal/logging"
	"storj/cli/internal/loop"
)

// Options configures Init.
type Options struct {
	Endpoint    endpoint.Endpoint
	Credentials credentials.Credentials
	UserAgent   string
	// NewClient builds the bridge client; bridge.New when nil.
	NewClient func(bridge.Options) bridge.Client
}

// Env is created once per process and released once with Destroy.
// Its fields are read-only after Init.
type Env struct {
	Endpoint    endpoint.Endpoint
	Credentials credentials.Credentials
	Loop        *loop.Loop
	Bridge      bridge.Client

	once       sync.Once
	destroyErr error
}

// Init validates the endpoint and builds the loop and bridge client.
func Init(opts Options) (*Env, error) {
	if opts.Endpoint.Protocol == "" || opts.Endpoint.Host == "" {
		return nil, clierrors.New(clierrors.Config, "bridge endpoint needs a protocol and a host")
	}

	newClient := opts.NewClient
	if newClient == nil {
		newClient = bridge.New
	}
	client := newClient(bridge.Options{
		Endpoint:  opts.Endpoint,
		User:      opts.Credentials.Username,
		Password:  opts.Credentials.Password,
		UserAgent: opts.UserAgent,
	})
	if client == nil {
		return nil, clierrors.New(clierrors.Config, "unable to create bridge client")
	}

	logging.Debugf("environment: bridge %s as %s", opts.Endpoint, opts.Credentials.Username)
	return &Env{
		Endpoint:    opts.Endpoint,
		Credentials: opts.Credentials,
		Loop:        loop.New(),
		Bridge:      client,
	}, nil
}

// Destroy closes the loop and the bridge client. Only the first call does any
// work; later calls return the first call's result.
// A loop that still has pending work yields a Shutdown error.
func (e *Env) Destroy() error {
	if e == nil {
		return nil
	}
	e.once.Do(func() {
		var errs []error
		if err := e.Loop.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close loop: %w", err))
		}
		if err := e.Bridge.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close bridge client: %w", err))
		}
		if len(errs) > 0 {
			e.destroyErr = clierrors.Wrap(clierrors.Shutdown, "unable to shut down cleanly", errors.Join(errs...))
		}
	})
	return e.destroyErr
}
