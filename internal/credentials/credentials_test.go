// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package credentials

import (
	"errors"
	"testing"

	clierrors "storj/cli/internal/errors"
	"storj/cli/internal/terminal"

	"github.com/google/go-cmp/cmp"
)

type fakePrompter struct {
	line, secret       string
	lineErr, secretErr error
	lineCalls          int
	secretCalls        int
}

func (p *fakePrompter) ReadLine(string) (string, error) {
	p.lineCalls++
	return p.line, p.lineErr
}

func (p *fakePrompter) ReadSecret(string) (string, error) {
	p.secretCalls++
	return p.secret, p.secretErr
}

type fakeStore struct {
	user, pass string
	err        error
}

func (s fakeStore) LoadBridgeCredentials() (string, string, error) { return s.user, s.pass, s.err }

func envOf(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		env          map[string]string
		store        Store
		prompter     *fakePrompter
		needMnemonic bool
		want         Credentials
		wantLine     int
		wantSecret   int
	}{
		{
			name:     "environment only",
			env:      map[string]string{EnvUser: "alice@example.com", EnvPass: "s3cret"},
			prompter: &fakePrompter{},
			want:     Credentials{Username: "alice@example.com", Password: "s3cret"},
		},
		{
			name:         "environment with mnemonic",
			env:          map[string]string{EnvUser: "alice@example.com", EnvPass: "s3cret", EnvMnemonic: "abandon about"},
			prompter:     &fakePrompter{},
			needMnemonic: true,
			want:         Credentials{Username: "alice@example.com", Password: "s3cret", Mnemonic: "abandon about"},
		},
		{
			name:     "keychain fills gaps",
			env:      map[string]string{EnvUser: "alice@example.com"},
			store:    fakeStore{user: "stored@example.com", pass: "stored-pass"},
			prompter: &fakePrompter{},
			want:     Credentials{Username: "alice@example.com", Password: "stored-pass"},
		},
		{
			name:       "keychain error falls back to prompt",
			env:        map[string]string{},
			store:      fakeStore{err: errors.New("locked")},
			prompter:   &fakePrompter{line: " bob@example.com ", secret: "pw"},
			want:       Credentials{Username: "bob@example.com", Password: "pw"},
			wantLine:   1,
			wantSecret: 1,
		},
		{
			name:       "prompt for password only",
			env:        map[string]string{EnvUser: "carol@example.com"},
			prompter:   &fakePrompter{secret: "pw"},
			want:       Credentials{Username: "carol@example.com", Password: "pw"},
			wantSecret: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resolver{LookupEnv: envOf(tt.env), Store: tt.store, Prompter: tt.prompter}
			got, err := r.Resolve(tt.needMnemonic)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
			}
			if tt.prompter.lineCalls != tt.wantLine || tt.prompter.secretCalls != tt.wantSecret {
				t.Errorf("prompts = %d line, %d secret; want %d, %d",
					tt.prompter.lineCalls, tt.prompter.secretCalls, tt.wantLine, tt.wantSecret)
			}
		})
	}
}

func TestResolveMissingMnemonicFailsBeforePrompting(t *testing.T) {
	p := &fakePrompter{line: "alice@example.com", secret: "pw"}
	r := &Resolver{LookupEnv: envOf(map[string]string{}), Prompter: p}

	_, err := r.Resolve(true)
	if !clierrors.Is(err, clierrors.Config) {
		t.Fatalf("Resolve() error = %v, want config error", err)
	}
	if clierrors.ExitCode(err) != 1 {
		t.Errorf("exit code = %d, want 1", clierrors.ExitCode(err))
	}
	if p.lineCalls+p.secretCalls != 0 {
		t.Error("prompted despite missing mnemonic")
	}
}

func TestResolveWithoutTerminal(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		prompter Prompter
	}{
		{name: "no prompter", env: map[string]string{}, prompter: nil},
		{name: "username input closed", env: map[string]string{}, prompter: &fakePrompter{lineErr: terminal.ErrNotInteractive}},
		{
			name:     "password needs tty",
			env:      map[string]string{EnvUser: "alice@example.com"},
			prompter: &fakePrompter{secretErr: terminal.ErrNotInteractive},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resolver{LookupEnv: envOf(tt.env), Prompter: tt.prompter}
			_, err := r.Resolve(false)
			if !clierrors.Is(err, clierrors.Config) {
				t.Fatalf("Resolve() error = %v, want config error", err)
			}
			if !errors.Is(err, terminal.ErrNotInteractive) {
				t.Errorf("error should wrap ErrNotInteractive, got %v", err)
			}
		})
	}
}

func TestResolveEmptyPromptAnswer(t *testing.T) {
	r := &Resolver{LookupEnv: envOf(map[string]string{}), Prompter: &fakePrompter{line: "  ", secret: "pw"}}
	if _, err := r.Resolve(false); !clierrors.Is(err, clierrors.Config) {
		t.Fatalf("Resolve() error = %v, want config error", err)
	}
}
