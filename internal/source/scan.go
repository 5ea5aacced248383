package source

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/runger/flick/internal/item"
)

// DesktopScanner streams application items from XDG application dirs.
type DesktopScanner struct {
	// Dirs in precedence order: the first file seen for a desktop ID wins.
	Dirs []string
	// Locale selects localized Name/GenericName/Keywords.
	Locale Locale
	// Desktops is the current session's desktop names for OnlyShowIn/NotShowIn.
	Desktops []string
	// CachePath enables the scan cache when set.
	CachePath string
	// Workers bounds concurrent parsing inside one directory.
	Workers int
	Logger  *slog.Logger
}

// AppDirs returns the application directories in precedence order: extra
// dirs first, then $XDG_DATA_HOME, then each of $XDG_DATA_DIRS.
func AppDirs(extra []string) []string {
	home, _ := os.UserHomeDir()
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" || !filepath.IsAbs(dataHome) {
		dataHome = filepath.Join(home, ".local", "share")
	}
	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}

	var dirs []string
	seen := make(map[string]bool)
	add := func(d string) {
		d = filepath.Clean(d)
		if d == "." || seen[d] {
			return
		}
		seen[d] = true
		dirs = append(dirs, d)
	}
	for _, d := range extra {
		add(d)
	}
	add(filepath.Join(dataHome, "applications"))
	for _, d := range filepath.SplitList(dataDirs) {
		if filepath.IsAbs(d) {
			add(filepath.Join(d, "applications"))
		}
	}
	return dirs
}

// CurrentDesktops returns configured when non-empty, otherwise the
// colon-separated $XDG_CURRENT_DESKTOP.
func CurrentDesktops(configured []string) []string {
	if len(configured) > 0 {
		return configured
	}
	var out []string
	for _, d := range strings.Split(os.Getenv("XDG_CURRENT_DESKTOP"), ":") {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}

type desktopFile struct {
	id   string
	path string
}

// Stream implements Source. Entries from the cache are streamed when it is
// fresh; otherwise each directory is parsed and streamed in turn so the
// first items arrive before the scan finishes.
func (s *DesktopScanner) Stream(ctx context.Context, out chan<- item.Item) error {
	logger := s.logger()
	locale := s.Locale.String()

	if s.CachePath != "" {
		c, err := readDesktopCache(s.CachePath)
		switch {
		case err == nil && c.fresh(s.Dirs, locale):
			logger.Debug("desktop cache hit", "entries", len(c.Entries))
			return s.emit(ctx, out, c.Entries)
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			logger.Warn("desktop cache unreadable", "path", s.CachePath, "error", err)
		}
	}

	snapshot := &desktopCache{
		Version: desktopCacheVersion,
		Locale:  locale,
		Dirs:    append([]string(nil), s.Dirs...),
		Mtimes:  make(map[string]int64),
	}
	seen := make(map[string]bool)
	for _, dir := range s.Dirs {
		files, err := listDesktopFiles(dir, snapshot.Mtimes)
		if err != nil {
			logger.Debug("skipping application dir", "dir", dir, "error", err)
			continue
		}
		var todo []desktopFile
		for _, f := range files {
			if seen[f.id] {
				continue
			}
			seen[f.id] = true
			todo = append(todo, f)
		}
		entries, err := s.parseAll(ctx, todo)
		if err != nil {
			return err
		}
		snapshot.Entries = append(snapshot.Entries, entries...)
		if err := s.emit(ctx, out, entries); err != nil {
			return err
		}
	}

	if s.CachePath != "" {
		if err := writeDesktopCache(s.CachePath, snapshot); err != nil {
			logger.Warn("desktop cache not written", "path", s.CachePath, "error", err)
		}
	}
	return nil
}

func (s *DesktopScanner) emit(ctx context.Context, out chan<- item.Item, entries []DesktopEntry) error {
	for i := range entries {
		e := &entries[i]
		if !e.Visible(s.Desktops) {
			continue
		}
		if err := send(ctx, out, e.Item()); err != nil {
			return err
		}
	}
	return nil
}

// parseAll parses files concurrently and returns the valid entries in the
// order of files. Malformed files are dropped.
func (s *DesktopScanner) parseAll(ctx context.Context, files []desktopFile) ([]DesktopEntry, error) {
	results := make([]*DesktopEntry, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e, err := ParseDesktopFile(f.path, f.id, s.Locale)
			if err != nil {
				s.logger().Debug("dropping desktop entry", "id", f.id, "error", err)
				return nil
			}
			results[i] = &e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]DesktopEntry, 0, len(files))
	for _, e := range results {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	return entries, nil
}

// listDesktopFiles walks dir and returns its .desktop files with their
// desktop IDs (relative path with '/' replaced by '-'), sorted by path.
// The mtime of every visited directory and desktop file is recorded in
// mtimes.
func listDesktopFiles(dir string, mtimes map[string]int64) ([]desktopFile, error) {
	mtimes[dir] = pathMtime(dir)
	var files []desktopFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if path != dir {
				mtimes[path] = pathMtime(path)
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".desktop") {
			return nil
		}
		if info, err := d.Info(); err == nil {
			mtimes[path] = info.ModTime().UnixNano()
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		files = append(files, desktopFile{
			id:   strings.ReplaceAll(filepath.ToSlash(rel), "/", "-"),
			path: path,
		})
		return nil
	})
	return files, err
}

func (s *DesktopScanner) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return max(2, runtime.NumCPU())
}

func (s *DesktopScanner) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
