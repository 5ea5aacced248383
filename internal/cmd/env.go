package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/flick/internal/config"
	"github.com/runger/flick/internal/item"
	"github.com/runger/flick/internal/logging"
	"github.com/runger/flick/internal/match"
	"github.com/runger/flick/internal/rank"
	"github.com/runger/flick/internal/storage"
	"github.com/runger/flick/internal/usage"
)

// Usage scopes. Identities from different sources never share counters.
var (
	scopeApps  = item.KindApp.String()
	scopeDmenu = item.KindLine.String()
	scopeClip  = item.KindClip.String()
)

func validScope(scope string) error {
	switch scope {
	case scopeApps, scopeDmenu, scopeClip:
		return nil
	default:
		return fmt.Errorf("unknown scope %q (want %s, %s or %s)", scope, scopeApps, scopeDmenu, scopeClip)
	}
}

// noHistoryFlag keeps usage in memory for the session.
var noHistoryFlag bool

// env is one invocation's runtime: config, paths, logger and store.
type env struct {
	cfg     *config.Config
	paths   *config.Paths
	logger  *slog.Logger
	session string

	logFile  *os.File
	store    *storage.SQLiteStore
	storeErr error
	opened   bool
}

// newEnv loads the config and applies command-line overrides. With tui set,
// logs go only to the log file; otherwise they go to stderr as text.
func newEnv(cmd *cobra.Command, tui bool) (*env, error) {
	paths := config.DefaultPaths()
	cfg, err := config.LoadFromFile(paths.ConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	e := &env{cfg: cfg, paths: paths, session: storage.NewSessionID()}
	level, _ := logging.ParseLevel(cfg.Log.Level)
	if tui {
		e.logger = e.fileLogger(level)
	} else {
		e.logger = logging.New(&logging.Config{
			Output: cmd.ErrOrStderr(),
			Level:  max(level, slog.LevelWarn),
			Format: logging.FormatText,
		})
	}
	e.logger = e.logger.With("session", e.session)
	return e, nil
}

// fileLogger writes JSON lines to the log file. The terminal belongs to the
// picker, so a log file that cannot be opened means no logging at all.
func (e *env) fileLogger(level slog.Level) *slog.Logger {
	path := e.cfg.Log.File
	if path == "" {
		path = e.paths.LogFile()
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		return logging.Discard()
	}
	e.logFile = f
	return logging.New(&logging.Config{Output: f, Level: level})
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("exact") && exactFlag {
		cfg.Ranking.Mode = rank.ModeExact.String()
	}
	if flags.Changed("hard-stop") {
		cfg.Picker.HardStop = hardStopFlag
	}
	if flags.Changed("prefix-depth") && prefixDepthFlag > 0 {
		cfg.Ranking.PrefixDepth = prefixDepthFlag
	}
}

// Close releases the store and the log file.
func (e *env) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("failed to close store", "error", err)
		}
	}
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}

// openStore opens the database once. Later calls return the first result.
func (e *env) openStore() (*storage.SQLiteStore, error) {
	if !e.opened {
		e.opened = true
		e.store, e.storeErr = storage.NewSQLiteStore(e.paths.DatabaseFile())
		if e.storeErr != nil {
			e.logger.Warn("usage store unavailable", "path", e.paths.DatabaseFile(), "error", e.storeErr)
		}
	}
	return e.store, e.storeErr
}

// usageStore returns the scope's usage store. Without a database (or with
// --no-history) usage lives in memory for this session only.
func (e *env) usageStore(scope string) *usage.Store {
	var backend usage.Backend = usage.NewMemoryBackend()
	if !noHistoryFlag {
		if store, err := e.openStore(); err == nil {
			backend = store.Usage(scope)
		}
	}
	return usage.NewStore(backend, usage.Options{Tau: e.cfg.Tau(), Logger: e.logger})
}

func (e *env) scorer() (*rank.Scorer, error) {
	mode, err := rank.ParseMode(e.cfg.Ranking.Mode)
	if err != nil {
		return nil, err
	}
	m, err := match.New(e.cfg.Ranking.Matcher)
	if err != nil {
		return nil, err
	}
	return rank.NewScorer(mode, m, e.cfg.Ranking.PrefixDepth), nil
}

// recordSelection bumps the usage counter and appends to the launch log.
// Failures are logged and never block delivery.
func (e *env) recordSelection(ctx context.Context, us *usage.Store, scope string, it *item.Item) {
	if err := us.RecordUse(ctx, it.Identity); err != nil {
		e.logger.Warn("usage not saved", "scope", scope, "identity", it.Identity, "error", err)
	}
	if noHistoryFlag {
		return
	}
	store, err := e.openStore()
	if err != nil {
		return
	}
	l := &storage.Launch{
		SessionID: e.session,
		Scope:     scope,
		Identity:  it.Identity,
		TsMs:      time.Now().UnixMilli(),
	}
	if err := store.RecordLaunch(ctx, l); err != nil {
		e.logger.Warn("launch not logged", "scope", scope, "identity", it.Identity, "error", err)
		return
	}
	e.logger.Info("selected", "scope", scope, "identity", it.Identity, "launch_id", l.ID)
}

// requireStore is openStore for commands that only make sense with a database.
func (e *env) requireStore() (*storage.SQLiteStore, error) {
	store, err := e.openStore()
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", e.paths.DatabaseFile(), err)
	}
	return store, nil
}

// writeLine is fmt.Fprintln with the error dropped, for table output.
func writeLine(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}
