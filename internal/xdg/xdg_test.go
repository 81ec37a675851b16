package xdg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigFileUnderXDGConfigHome(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	got, err := ConfigFile("config.json")
	if err != nil {
		t.Fatalf("ConfigFile() error = %v", err)
	}
	if want := filepath.Join(base, AppName, "config.json"); got != want {
		t.Errorf("ConfigFile() = %q, want %q", got, want)
	}
	info, err := os.Stat(filepath.Dir(got))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("dir permissions = %o, want 700", perm)
	}
}

func TestRelativeXDGConfigHomeIgnored(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "relative/dir")

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if want := filepath.Join(home, ".config", AppName); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestConfigPathDoesNotCreateDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	got, err := ConfigPath("config.json")
	if err != nil {
		t.Fatalf("ConfigPath() error = %v", err)
	}
	if want := filepath.Join(base, AppName, "config.json"); got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}
	if _, err := os.Stat(filepath.Join(base, AppName)); !os.IsNotExist(err) {
		t.Errorf("config dir exists after ConfigPath(): %v", err)
	}
}
