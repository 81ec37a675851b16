// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"storj/cli/internal/bridge"
	"storj/cli/internal/config"
	"storj/cli/internal/status"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runCLI executes the root command with every flag back at its default.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// isolate points the CLI at bridgeAddr with environment credentials and an empty config dir.
func isolate(t *testing.T, bridgeAddr string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("STORJ_BRIDGE", bridgeAddr)
	t.Setenv("STORJ_BRIDGE_USER", "alice@example.com")
	t.Setenv("STORJ_BRIDGE_PASS", "s3cret")
	t.Setenv("STORJ_CLI_MNEMONIC", "")
}

func bridgeServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"info": map[string]any{"title": "Storj Bridge", "description": "Object storage", "version": "5.0.0"},
				"host": "api.storj.io",
			})
		case "/buckets":
			user, pass, _ := r.BasicAuth()
			if user != "alice@example.com" || pass != bridge.HashPassword("s3cret") {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode([]bridge.Bucket{{ID: "b1", Name: "photos"}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVersionAndHelp(t *testing.T) {
	isolate(t, "http://127.0.0.1:1")
	newBridge = func(bridge.Options) bridge.Client {
		t.Fatal("bridge client created for -V")
		return nil
	}
	t.Cleanup(func() { newBridge = bridge.New })

	for _, args := range [][]string{
		{"-V"},
		{"--version"},
		{"-V", "get-info"},
		{"get-info", "-V"},
		{"upload-file", "-V"},
	} {
		code, out, _ := runCLI(t, args...)
		if code != 0 || out != "storj 1.0.0-alpha\n" {
			t.Errorf("%v = %d %q", args, code, out)
		}
	}

	code, out, _ := runCLI(t, "--help")
	if code != 0 || !strings.HasPrefix(out, "usage: storj") {
		t.Errorf("--help = %d %q", code, out)
	}
}

func TestUsageErrors(t *testing.T) {
	isolate(t, "http://127.0.0.1:1")

	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"delete-everything"}},
		{"download missing path", []string{"download-file", "b1", "f1"}},
		{"upload missing path", []string{"upload-file", "b1"}},
		{"get-info extra", []string{"get-info", "x"}},
		{"unknown flag", []string{"--nope"}},
		{"login with args", []string{"login", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newBridge = func(bridge.Options) bridge.Client {
				t.Fatal("bridge client created for a usage error")
				return nil
			}
			t.Cleanup(func() { newBridge = bridge.New })

			code, out, _ := runCLI(t, tt.args...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(out, "usage: storj") {
				t.Errorf("stdout %q lacks usage text", out)
			}
			if strings.Contains(out, "Using Storj bridge") {
				t.Error("endpoint resolved for a usage error")
			}
		})
	}
}

func TestUploadWithoutMnemonic(t *testing.T) {
	isolate(t, "http://127.0.0.1:1")
	newBridge = func(bridge.Options) bridge.Client {
		t.Fatal("bridge client created without a mnemonic")
		return nil
	}
	t.Cleanup(func() { newBridge = bridge.New })

	code, _, errOut := runCLI(t, "upload-file", "b1", filepath.Join(t.TempDir(), "a.txt"))
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "ERROR") || !strings.Contains(errOut, "Set your STORJ_CLI_MNEMONIC") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestGetInfoEndToEnd(t *testing.T) {
	srv := bridgeServer(t)
	isolate(t, srv.URL)

	code, out, errOut := runCLI(t, "get-info")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, errOut)
	}
	want := "Using Storj bridge: " + srv.URL + "\n\n" +
		"Title:       \"Storj Bridge\"\n" +
		"Description: \"Object storage\"\n" +
		"Version:     \"5.0.0\"\n" +
		"Host:        \"api.storj.io\"\n"
	if out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestOperationStatusBecomesExitCode(t *testing.T) {
	srv := bridgeServer(t)
	isolate(t, srv.URL)
	t.Setenv("STORJ_BRIDGE_PASS", "wrong")

	code, out, _ := runCLI(t, "list-buckets")
	if code != status.BridgeAuthError {
		t.Errorf("exit code = %d, want %d", code, status.BridgeAuthError)
	}
	if !strings.Contains(out, "List buckets failure: Bridge request authorization error") {
		t.Errorf("stdout = %q", out)
	}
}

func TestURLFlagOverridesEnvironment(t *testing.T) {
	srv := bridgeServer(t)
	isolate(t, "http://127.0.0.1:1")

	code, out, errOut := runCLI(t, "-u", srv.URL, "list-buckets")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, errOut)
	}
	if !strings.Contains(out, "Using Storj bridge: "+srv.URL) || !strings.Contains(out, "ID: b1\tName: photos") {
		t.Errorf("stdout = %q", out)
	}
}

func TestDownloadToMissingDirectory(t *testing.T) {
	srv := bridgeServer(t)
	isolate(t, srv.URL)

	code, _, errOut := runCLI(t, "download-file", "b1", "f1", filepath.Join(t.TempDir(), "nope", "out.bin"))
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "Unable to open") || !strings.Contains(errOut, "no such file or directory") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestLoginAndLogout(t *testing.T) {
	srv := bridgeServer(t)
	isolate(t, "")

	origSave, origClear := saveCredentials, clearCredentials
	t.Cleanup(func() { saveCredentials, clearCredentials = origSave, origClear })

	var savedUser, savedPass string
	saveCredentials = func(user, pass string) error {
		savedUser, savedPass = user, pass
		return nil
	}
	cleared := false
	clearCredentials = func() error {
		cleared = true
		return nil
	}

	code, out, errOut := runCLI(t, "--url", srv.URL, "login")
	if code != 0 {
		t.Fatalf("login exit code = %d, stderr %q", code, errOut)
	}
	if savedUser != "alice@example.com" || savedPass != "s3cret" {
		t.Errorf("saved %q/%q", savedUser, savedPass)
	}
	if !strings.Contains(out, "Logged in as alice@example.com") {
		t.Errorf("stdout = %q", out)
	}
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BridgeURL != srv.URL {
		t.Errorf("config bridge_url = %q, want %q", cfg.BridgeURL, srv.URL)
	}

	if code, _, _ := runCLI(t, "logout"); code != 0 || !cleared {
		t.Errorf("logout exit code = %d, cleared = %v", code, cleared)
	}
}
