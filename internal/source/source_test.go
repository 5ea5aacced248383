package source

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/flick/internal/item"
	"github.com/runger/flick/internal/sanitize"
)

func TestRun_DrainNonBlocking(t *testing.T) {
	release := make(chan struct{})
	src := Func(func(ctx context.Context, out chan<- item.Item) error {
		for _, s := range []string{"a", "b", "c"} {
			if err := send(ctx, out, item.NewClip(s, s)); err != nil {
				return err
			}
		}
		<-release
		return errors.New("boom")
	})

	l := Run(context.Background(), src, 8)

	var got []item.Item
	require.Eventually(t, func() bool {
		batch, closed := Drain(l.Items(), 0)
		got = append(got, batch...)
		assert.False(t, closed)
		return len(got) == 3
	}, time.Second, time.Millisecond)

	batch, closed := Drain(l.Items(), 0)
	assert.Empty(t, batch)
	assert.False(t, closed)

	close(release)
	require.Eventually(t, func() bool {
		_, closed := Drain(l.Items(), 0)
		return closed
	}, time.Second, time.Millisecond)
	assert.EqualError(t, l.Err(), "boom")
}

func TestDrain_Limit(t *testing.T) {
	ch := make(chan item.Item, 5)
	for i := 0; i < 5; i++ {
		ch <- item.NewClip("x", "x")
	}
	batch, closed := Drain(ch, 2)
	assert.Len(t, batch, 2)
	assert.False(t, closed)

	close(ch)
	batch, closed = Drain(ch, 0)
	assert.Len(t, batch, 3)
	assert.True(t, closed)
}

func TestRun_CancelIsNotAnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := Func(func(ctx context.Context, out chan<- item.Item) error {
		for {
			if err := send(ctx, out, item.NewClip("x", "x")); err != nil {
				return err
			}
		}
	})
	l := Run(ctx, src, 1)
	<-l.Items()
	cancel()
	Collect(l.Items())
	assert.NoError(t, l.Err())
}

func TestLines(t *testing.T) {
	input := "alpha\n\n   \nbeta\x1b[1m bold\x1b[0m\r\ngamma\tcol2"
	items, err := collectLines(&Lines{R: strings.NewReader(input)})
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, "alpha", items[0].Primary)
	assert.Equal(t, "beta bold", items[1].Primary)
	assert.Equal(t, "gamma\tcol2", items[2].Primary)
	for _, it := range items {
		assert.Equal(t, item.KindLine, it.Kind)
	}
}

func TestLines_Columns(t *testing.T) {
	with, err := item.ParseColumnSpec("2")
	require.NoError(t, err)
	match, err := item.ParseColumnSpec("1")
	require.NoError(t, err)

	items, err := collectLines(&Lines{
		R:         strings.NewReader("42:answer\n7:lucky\n"),
		Delimiter: ":",
		With:      with,
		Match:     match,
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "answer", items[0].Primary)
	assert.Equal(t, "42:answer", items[0].Raw)
	require.Len(t, items[0].Secondary, 1)
	assert.Equal(t, "42", items[0].Secondary[0].Text)
}

func TestLines_TooLong(t *testing.T) {
	long := strings.Repeat("x", MaxLineBytes+1)
	_, err := collectLines(&Lines{R: strings.NewReader(long)})
	assert.ErrorContains(t, err, "read input")
}

func collectLines(src Source) ([]item.Item, error) {
	l := Run(context.Background(), src, 0)
	items := Collect(l.Items())
	return items, l.Err()
}

func TestClipboard(t *testing.T) {
	c, err := NewClipboard(`cliphist list --max "10"`, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"cliphist", "list", "--max", "10"}, c.Argv)

	var gotArgv []string
	c.Run = func(ctx context.Context, argv []string) ([]byte, error) {
		gotArgv = argv
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return []byte("3\tnewest   entry\nno tab here\n\t\n2\ttoken=hunter2\n1\tmulti\x1b[2Jline\n"), nil
	}
	c.Tags = map[string][]string{"3": {"work"}}
	c.Redactor = sanitize.NewRedactor()

	items, err := collectLines(c)
	require.NoError(t, err)
	assert.Equal(t, c.Argv, gotArgv)

	require.Len(t, items, 3)
	assert.Equal(t, "3", items[0].ClipID)
	assert.Equal(t, "newest entry", items[0].Primary)
	assert.Equal(t, "3\tnewest   entry", items[0].Raw)
	assert.Equal(t, []string{"work"}, items[0].Tags)

	assert.NotContains(t, items[1].Primary, "hunter2")
	assert.Equal(t, "2\ttoken=hunter2", items[1].Raw)

	assert.Equal(t, "multiline", items[2].Primary)
	assert.Equal(t, item.KindClip, items[2].Kind)
}

func TestClipboard_CommandFails(t *testing.T) {
	c := &Clipboard{
		Argv: []string{"cliphist", "list"},
		Run: func(context.Context, []string) ([]byte, error) {
			return nil, errors.New("exit status 1")
		},
	}
	_, err := collectLines(c)
	assert.ErrorContains(t, err, "list clipboard history")
}

func TestNewClipboard_Empty(t *testing.T) {
	_, err := NewClipboard("   ", time.Second)
	assert.Error(t, err)
}
