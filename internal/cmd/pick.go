package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gofrs/flock"
	"github.com/muesli/termenv"

	"github.com/runger/flick/internal/filter"
	"github.com/runger/flick/internal/item"
	"github.com/runger/flick/internal/launch"
	"github.com/runger/flick/internal/picker"
	"github.com/runger/flick/internal/sanitize"
	"github.com/runger/flick/internal/source"
)

// maxQueryLen bounds --query in bytes.
const maxQueryLen = 4096

// pickRequest is one interactive session: where items come from, what to
// do with the accepted one, and which usage scope ranks them.
type pickRequest struct {
	scope  string
	src    source.Source
	sink   launch.Sink
	prompt string
}

// tuiRunner runs the picker to completion and returns the accepted item,
// or nil when the user cancelled.
type tuiRunner func(ctx context.Context, m picker.Model, mouse bool) (*item.Item, error)

// Swapped out by tests, which have no terminal.
var (
	checkTerminal           = checkTTY
	runTUI        tuiRunner = runProgram
)

// pick runs one picker session and delivers the accepted item.
func (e *env) pick(ctx context.Context, req pickRequest) error {
	query, err := sanitizeQuery(queryFlag)
	if err != nil {
		return err
	}
	if err := checkTerminal(); err != nil {
		return err
	}

	unlock, err := acquireLock(e.paths.LockFile())
	if err != nil {
		return err
	}
	defer unlock()

	scorer, err := e.scorer()
	if err != nil {
		return err
	}
	us := e.usageStore(req.scope)
	st := filter.New(scorer, filter.Options{HardStop: e.cfg.Picker.HardStop, Logger: e.logger})
	st.ApplyUsage(us.Load(ctx))

	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	loader := source.Run(loadCtx, req.src, source.DefaultBuffer)

	prompt := req.prompt
	if prompt == "" {
		prompt = e.cfg.Picker.Prompt
	}
	m := picker.NewModel(st, loader, picker.Options{
		Prompt:     prompt,
		MaxVisible: e.cfg.Picker.MaxVisible,
		Query:      query,
		Usage:      us,
		Logger:     e.logger,
	})

	it, err := runTUI(ctx, m, e.cfg.Picker.Mouse)
	if err != nil {
		return fmt.Errorf("picker: %w", err)
	}
	if it == nil {
		e.logger.Debug("picker cancelled", "scope", req.scope)
		return errNoSelection
	}

	e.recordSelection(ctx, us, req.scope, it)
	return req.sink.Deliver(ctx, it)
}

// runProgram runs the picker on /dev/tty, leaving stdin and stdout free
// for data.
func runProgram(ctx context.Context, m picker.Model, mouse bool) (*item.Item, error) {
	tty, err := openTTY()
	if err != nil {
		return nil, err
	}
	defer tty.Close()

	// stdout is often a pipe; take the colour profile from the terminal.
	lipgloss.SetColorProfile(termenv.NewOutput(tty).ColorProfile())

	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithInput(tty),
		tea.WithOutput(tty),
		tea.WithContext(ctx),
	}
	if mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil, nil
		}
		return nil, err
	}
	fm, ok := final.(picker.Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	it, ok := fm.Result()
	if !ok {
		return nil, nil
	}
	return it, nil
}

// acquireLock takes the single-instance lock without blocking.
func acquireLock(path string) (func(), error) {
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("cannot take lock %s: %w", path, err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() { _ = fl.Unlock() }, nil
}

// sanitizeQuery strips control characters from the initial query and
// bounds its length.
func sanitizeQuery(q string) (string, error) {
	if q == "" {
		return "", nil
	}
	if strings.ContainsAny(q, "\n\r") {
		return "", fmt.Errorf("query must not contain newlines")
	}
	q = sanitize.Line(q)
	if len(q) > maxQueryLen {
		q = strings.ToValidUTF8(q[:maxQueryLen], "")
	}
	return q, nil
}

// openTTYFile opens the controlling terminal for reading and writing.
func openTTYFile(name string) (*os.File, error) {
	f, err := os.OpenFile(name, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("cannot open terminal: %w", err)
	}
	return f, nil
}
