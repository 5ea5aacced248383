package launch

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/flick/internal/item"
)

func appItem(exec []string, terminal bool) *item.Item {
	it := item.NewApp("Htop", "htop.desktop")
	it.Exec = exec
	it.Terminal = terminal
	return &it
}

func TestExec_Argv(t *testing.T) {
	e, err := NewExec(`foot --title "flick app" -e`)
	require.NoError(t, err)

	argv, err := e.Argv(appItem([]string{"firefox", "--private-window"}, false))
	require.NoError(t, err)
	assert.Equal(t, []string{"firefox", "--private-window"}, argv)

	argv, err = e.Argv(appItem([]string{"htop"}, true))
	require.NoError(t, err)
	assert.Equal(t, []string{"foot", "--title", "flick app", "-e", "htop"}, argv)

	_, err = e.Argv(appItem(nil, false))
	assert.ErrorIs(t, err, ErrNoCommand)
}

func TestNewExec_Default(t *testing.T) {
	e, err := NewExec("")
	require.NoError(t, err)
	assert.Equal(t, []string{"x-terminal-emulator", "-e"}, e.Terminal)

	_, err = NewExec(`"unterminated`)
	assert.Error(t, err)
}

func TestExec_DeliverDetaches(t *testing.T) {
	e, err := NewExec("")
	require.NoError(t, err)
	e.Dir = t.TempDir()

	var started *exec.Cmd
	e.start = func(cmd *exec.Cmd) error {
		started = cmd
		return nil
	}

	require.NoError(t, e.Deliver(context.Background(), appItem([]string{"/bin/true", "x"}, false)))
	require.NotNil(t, started)
	assert.Equal(t, []string{"/bin/true", "x"}, started.Args)
	assert.Equal(t, e.Dir, started.Dir)
	assert.NotNil(t, started.SysProcAttr)
	assert.Nil(t, started.Stdout)
}

func TestExec_DeliverStartFailure(t *testing.T) {
	e := &Exec{start: func(*exec.Cmd) error { return errors.New("no such file") }}
	err := e.Deliver(context.Background(), appItem([]string{"/nonexistent"}, false))
	assert.ErrorContains(t, err, "launch Htop")
}

func TestExec_DeliverCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := &Exec{start: func(*exec.Cmd) error {
		t.Fatal("started after cancel")
		return nil
	}}
	assert.ErrorIs(t, e.Deliver(ctx, appItem([]string{"/bin/true"}, false)), context.Canceled)
}

func TestStdout(t *testing.T) {
	nth, err := item.ParseColumnSpec("2-")
	require.NoError(t, err)

	tests := []struct {
		name  string
		sink  Stdout
		line  string
		delim string
		want  string
	}{
		{"raw", Stdout{}, "a:b:c", ":", "a:b:c\n"},
		{"nth with delimiter", Stdout{Delimiter: ":", Nth: nth}, "a:b:c", ":", "b:c\n"},
		{"nth on whitespace", Stdout{Nth: nth}, "one  two three", "", "two three\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.sink.W = &buf
			it := item.NewLine(tt.line, tt.delim, item.ColumnSpec{}, item.ColumnSpec{})
			require.NoError(t, tt.sink.Deliver(context.Background(), &it))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestClipboard_Copy(t *testing.T) {
	c, err := NewClipboard("cliphist decode", 0)
	require.NoError(t, err)

	var gotArgv []string
	var gotStdin, copied string
	c.decode = func(ctx context.Context, argv []string, stdin string) ([]byte, error) {
		gotArgv, gotStdin = argv, stdin
		return []byte("full content\nsecond line"), nil
	}
	c.write = func(text string) error {
		copied = text
		return nil
	}

	it := item.NewClip("7", "full content second line")
	require.NoError(t, c.Deliver(context.Background(), &it))
	assert.Equal(t, []string{"cliphist", "decode"}, gotArgv)
	assert.Equal(t, "7\tfull content second line\n", gotStdin)
	assert.Equal(t, "full content\nsecond line", copied)
}

func TestClipboard_Print(t *testing.T) {
	var buf bytes.Buffer
	c := &Clipboard{
		Decode: []string{"cat"},
		Print:  true,
		W:      &buf,
		decode: func(context.Context, []string, string) ([]byte, error) { return []byte("payload"), nil },
		write: func(string) error {
			t.Fatal("clipboard written in print mode")
			return nil
		},
	}
	it := item.NewClip("1", "payload")
	require.NoError(t, c.Deliver(context.Background(), &it))
	assert.Equal(t, "payload", buf.String())
}

func TestClipboard_Errors(t *testing.T) {
	c := &Clipboard{
		Decode: []string{"cliphist", "decode"},
		decode: func(context.Context, []string, string) ([]byte, error) { return nil, errors.New("exit status 1") },
	}
	it := item.NewClip("9", "x")
	assert.ErrorContains(t, c.Deliver(context.Background(), &it), "decode clip 9")

	line := item.NewLine("not a clip", "", item.ColumnSpec{}, item.ColumnSpec{})
	assert.ErrorIs(t, c.Deliver(context.Background(), &line), ErrNoCommand)

	_, err := NewClipboard("", 0)
	assert.Error(t, err)
}
