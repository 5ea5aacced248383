package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"

	"github.com/runger/flick/internal/item"
	"github.com/runger/flick/internal/sanitize"
)

// DefaultClipTimeout bounds the clipboard list command.
const DefaultClipTimeout = 3 * time.Second

// Runner executes argv and returns its stdout.
type Runner func(ctx context.Context, argv []string) ([]byte, error)

// ExecRunner runs argv as a subprocess.
func ExecRunner(ctx context.Context, argv []string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", argv[0], err, msg)
		}
		return nil, fmt.Errorf("%s: %w", argv[0], err)
	}
	return out, nil
}

// Clipboard streams clipboard history records listed by an external
// command printing "id<TAB>preview" rows, newest first.
type Clipboard struct {
	Argv    []string
	Timeout time.Duration
	// Tags maps clip ids to user tags, searched as secondary fields.
	Tags map[string][]string
	// Redactor masks secrets in previews; nil shows them verbatim.
	Redactor *sanitize.Redactor
	Run      Runner
}

// NewClipboard parses command into argv.
func NewClipboard(command string, timeout time.Duration) (*Clipboard, error) {
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parse clipboard list command: %w", err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("clipboard list command is empty")
	}
	return &Clipboard{Argv: argv, Timeout: timeout}, nil
}

// Stream implements Source.
func (c *Clipboard) Stream(ctx context.Context, out chan<- item.Item) error {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultClipTimeout
	}
	run := c.Run
	if run == nil {
		run = ExecRunner
	}

	listCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	data, err := run(listCtx, c.Argv)
	if err != nil {
		return fmt.Errorf("list clipboard history: %w", err)
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	for sc.Scan() {
		it, ok := c.parseRow(sc.Text())
		if !ok {
			continue
		}
		if err := send(ctx, out, it); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (c *Clipboard) parseRow(line string) (item.Item, bool) {
	id, preview, ok := strings.Cut(line, "\t")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return item.Item{}, false
	}
	label := sanitize.Label(c.Redactor.Redact(preview))
	it := item.NewClip(id, label)
	it.Raw = sanitize.ValidateUTF8(line)
	if tags := c.Tags[id]; len(tags) > 0 {
		it.SetTags(tags)
	}
	return it, true
}
