package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	paths := DefaultPaths()

	if paths.ConfigDir == "" {
		t.Error("ConfigDir is empty")
	}
	if paths.DataDir == "" {
		t.Error("DataDir is empty")
	}
	if paths.CacheDir == "" {
		t.Error("CacheDir is empty")
	}

	// All paths should be absolute
	if !filepath.IsAbs(paths.ConfigDir) {
		t.Errorf("ConfigDir should be absolute: %s", paths.ConfigDir)
	}
	if !filepath.IsAbs(paths.DataDir) {
		t.Errorf("DataDir should be absolute: %s", paths.DataDir)
	}
}

func TestDefaultPaths_XDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG test not applicable on Windows")
	}

	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	t.Setenv("XDG_CACHE_HOME", "relative/cache")

	paths := DefaultPaths()

	if paths.ConfigDir != "/custom/config/flick" {
		t.Errorf("ConfigDir = %s, want /custom/config/flick", paths.ConfigDir)
	}
	if paths.DataDir != "/custom/data/flick" {
		t.Errorf("DataDir = %s, want /custom/data/flick", paths.DataDir)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", "flick"); paths.CacheDir != want {
		t.Errorf("relative XDG_CACHE_HOME must be ignored: CacheDir = %s, want %s", paths.CacheDir, want)
	}
}

func TestPathsFiles(t *testing.T) {
	paths := &Paths{
		ConfigDir: "/c",
		DataDir:   "/d",
		CacheDir:  "/k",
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ConfigFile", paths.ConfigFile(), "/c/config.yaml"},
		{"DatabaseFile", paths.DatabaseFile(), "/d/state.db"},
		{"DesktopCacheFile", paths.DesktopCacheFile(), "/k/desktop.cache"},
		{"LockFile", paths.LockFile(), "/k/flick.lock"},
		{"LogFile", paths.LogFile(), "/d/logs/flick.log"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s() = %s, want %s", tt.name, tt.got, tt.want)
		}
	}
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	paths := &Paths{
		ConfigDir: filepath.Join(root, "config"),
		DataDir:   filepath.Join(root, "data"),
		CacheDir:  filepath.Join(root, "cache"),
	}
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}
	for _, dir := range []string{paths.ConfigDir, paths.DataDir, paths.CacheDir, paths.LogDir()} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s not created", dir)
		}
	}
}
