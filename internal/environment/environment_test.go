// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package environment

import (
	"context"
	"testing"

	"storj/cli/internal/bridge"
	"storj/cli/internal/credentials"
	"storj/cli/internal/endpoint"
	clierrors "storj/cli/internal/errors"
)

type closeCounter struct {
	bridge.Client
	closes int
	got    bridge.Options
}

func (c *closeCounter) Close() error {
	c.closes++
	return nil
}

func newEnv(t *testing.T) (*Env, *closeCounter) {
	t.Helper()
	fake := &closeCounter{}
	env, err := Init(Options{
		Endpoint:    endpoint.Endpoint{Protocol: "https", Host: "api.storj.io", Port: 443},
		Credentials: credentials.Credentials{Username: "user", Password: "pass"},
		NewClient: func(o bridge.Options) bridge.Client {
			fake.got = o
			return fake
		},
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return env, fake
}

func TestInitPassesCredentials(t *testing.T) {
	_, fake := newEnv(t)
	if fake.got.User != "user" || fake.got.Password != "pass" {
		t.Errorf("client options = %+v", fake.got)
	}
	if fake.got.Endpoint.Host != "api.storj.io" {
		t.Errorf("endpoint = %+v", fake.got.Endpoint)
	}
}

func TestInitRejectsIncompleteEndpoint(t *testing.T) {
	tests := []endpoint.Endpoint{
		{Host: "api.storj.io", Port: 443},
		{Protocol: "https", Port: 443},
	}
	for _, ep := range tests {
		_, err := Init(Options{Endpoint: ep})
		if !clierrors.Is(err, clierrors.Config) {
			t.Errorf("Init(%+v) error = %v, want config error", ep, err)
		}
	}
}

func TestDestroyOnce(t *testing.T) {
	env, fake := newEnv(t)

	for i := 0; i < 3; i++ {
		if err := env.Destroy(); err != nil {
			t.Fatalf("Destroy() #%d error = %v", i, err)
		}
	}
	if fake.closes != 1 {
		t.Errorf("bridge closed %d times, want 1", fake.closes)
	}
	if err := env.Loop.Queue(func(context.Context) error { return nil }, nil); err == nil {
		t.Error("loop accepted work after Destroy")
	}
}

func TestDestroyWithPendingWork(t *testing.T) {
	env, fake := newEnv(t)

	release := make(chan struct{})
	if err := env.Loop.Queue(func(context.Context) error {
		<-release
		return nil
	}, nil); err != nil {
		t.Fatal(err)
	}

	err := env.Destroy()
	if !clierrors.Is(err, clierrors.Shutdown) {
		t.Fatalf("Destroy() error = %v, want shutdown error", err)
	}
	if clierrors.ExitCode(err) != 1 {
		t.Errorf("exit code = %d, want 1", clierrors.ExitCode(err))
	}
	if fake.closes != 1 {
		t.Errorf("bridge closed %d times, want 1", fake.closes)
	}
	if again := env.Destroy(); again != err {
		t.Errorf("second Destroy() = %v, want the first result", again)
	}

	close(release)
	_ = env.Loop.Run(context.Background())
}
