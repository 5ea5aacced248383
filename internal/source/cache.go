package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// desktopCacheVersion changes whenever the cache encoding does.
const desktopCacheVersion = 2

// desktopCache is the on-disk snapshot of one full scan.
type desktopCache struct {
	Version int              `msgpack:"v"`
	Locale  string           `msgpack:"locale"`
	Dirs    []string         `msgpack:"dirs"`
	// Mtimes holds every scanned directory and .desktop file.
	Mtimes  map[string]int64 `msgpack:"mtimes"`
	Entries []DesktopEntry   `msgpack:"entries"`
}

func readDesktopCache(path string) (*desktopCache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c desktopCache
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode desktop cache: %w", err)
	}
	return &c, nil
}

// writeDesktopCache replaces the cache atomically.
func writeDesktopCache(path string, c *desktopCache) error {
	data, err := msgpack.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode desktop cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".desktop.cache-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// fresh reports whether c was built from the same directories, in the same
// locale, and no directory or desktop file has changed since.
func (c *desktopCache) fresh(dirs []string, locale string) bool {
	if c.Version != desktopCacheVersion || c.Locale != locale || !slices.Equal(c.Dirs, dirs) {
		return false
	}
	for path, want := range c.Mtimes {
		if pathMtime(path) != want {
			return false
		}
	}
	return true
}

// pathMtime returns the modification time in nanoseconds, or 0 when the
// path does not exist.
func pathMtime(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return -1
		}
		return 0
	}
	return info.ModTime().UnixNano()
}
