package launch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/google/shlex"

	"github.com/runger/flick/internal/item"
)

// DefaultDecodeTimeout bounds the clipboard decode command.
const DefaultDecodeTimeout = 3 * time.Second

// Clipboard restores a clipboard history record. The decode command reads
// the record's raw list line on stdin and prints the full content.
type Clipboard struct {
	Decode  []string
	Timeout time.Duration
	// Print writes the decoded content to W instead of the clipboard.
	Print bool
	W     io.Writer

	// Test seams.
	decode func(ctx context.Context, argv []string, stdin string) ([]byte, error)
	write  func(text string) error
}

// NewClipboard parses the decode command.
func NewClipboard(decode string, timeout time.Duration) (*Clipboard, error) {
	argv, err := shlex.Split(decode)
	if err != nil {
		return nil, fmt.Errorf("parse clipboard decode command: %w", err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("clipboard decode command is empty")
	}
	return &Clipboard{Decode: argv, Timeout: timeout}, nil
}

// Deliver implements Sink.
func (c *Clipboard) Deliver(ctx context.Context, it *item.Item) error {
	if it.ClipID == "" {
		return fmt.Errorf("%s: %w", it.Primary, ErrNoCommand)
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultDecodeTimeout
	}
	decode := c.decode
	if decode == nil {
		decode = runDecode
	}

	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	content, err := decode(dctx, c.Decode, it.Raw+"\n")
	if err != nil {
		return fmt.Errorf("decode clip %s: %w", it.ClipID, err)
	}

	if c.Print {
		if _, err := c.W.Write(content); err != nil {
			return fmt.Errorf("write clip: %w", err)
		}
		return nil
	}
	write := c.write
	if write == nil {
		write = clipboard.WriteAll
	}
	if err := write(string(content)); err != nil {
		return fmt.Errorf("copy clip %s: %w", it.ClipID, err)
	}
	return nil
}

func runDecode(ctx context.Context, argv []string, stdin string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}
