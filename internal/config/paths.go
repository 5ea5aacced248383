// Package config provides configuration management for flick.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths holds all the path configurations for flick.
type Paths struct {
	// ConfigDir is the directory for configuration files (~/.config/flick)
	ConfigDir string

	// DataDir is the directory for persistent state (~/.local/share/flick)
	DataDir string

	// CacheDir is the directory for disposable files (~/.cache/flick)
	CacheDir string
}

// DefaultPaths returns the default paths based on XDG Base Directory spec.
// On Windows, it uses %APPDATA% instead.
func DefaultPaths() *Paths {
	home := homeDir()

	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(home, "AppData", "Local")
		}

		return &Paths{
			ConfigDir: filepath.Join(appData, "flick"),
			DataDir:   filepath.Join(localAppData, "flick"),
			CacheDir:  filepath.Join(localAppData, "flick", "cache"),
		}
	}

	return &Paths{
		ConfigDir: filepath.Join(xdgDir("XDG_CONFIG_HOME", home, ".config"), "flick"),
		DataDir:   filepath.Join(xdgDir("XDG_DATA_HOME", home, ".local", "share"), "flick"),
		CacheDir:  filepath.Join(xdgDir("XDG_CACHE_HOME", home, ".cache"), "flick"),
	}
}

// xdgDir returns $env when it is an absolute path, else home joined with
// fallback. Relative values are invalid per the XDG spec.
func xdgDir(env, home string, fallback ...string) string {
	if v := os.Getenv(env); v != "" && filepath.IsAbs(v) {
		return v
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// ConfigFile returns the path to the main configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// DatabaseFile returns the path to the SQLite database.
func (p *Paths) DatabaseFile() string {
	return filepath.Join(p.DataDir, "state.db")
}

// DesktopCacheFile returns the path to the parsed desktop entry cache.
func (p *Paths) DesktopCacheFile() string {
	return filepath.Join(p.CacheDir, "desktop.cache")
}

// LockFile returns the path to the single-instance lock.
func (p *Paths) LockFile() string {
	return filepath.Join(p.CacheDir, "flick.lock")
}

// LogDir returns the path to the log directory.
func (p *Paths) LogDir() string {
	return filepath.Join(p.DataDir, "logs")
}

// LogFile returns the path to the default log file.
func (p *Paths) LogFile() string {
	return filepath.Join(p.LogDir(), "flick.log")
}

// EnsureDirectories creates all necessary directories.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ConfigDir, p.DataDir, p.CacheDir, p.LogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback
		if runtime.GOOS == "windows" {
			return os.Getenv("USERPROFILE")
		}
		return os.Getenv("HOME")
	}
	return home
}
