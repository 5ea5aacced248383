package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/runger/flick/internal/item"
	"github.com/runger/flick/internal/sanitize"
)

// DesktopEntry is the part of a .desktop file flick uses, with localized
// strings already resolved.
type DesktopEntry struct {
	ID          string   `msgpack:"id"`
	Path        string   `msgpack:"path"`
	Name        string   `msgpack:"name"`
	GenericName string   `msgpack:"generic_name,omitempty"`
	Keywords    []string `msgpack:"keywords,omitempty"`
	Categories  []string `msgpack:"categories,omitempty"`
	Exec        []string `msgpack:"exec"`
	Terminal    bool     `msgpack:"terminal,omitempty"`
	NoDisplay   bool     `msgpack:"no_display,omitempty"`
	Hidden      bool     `msgpack:"hidden,omitempty"`
	OnlyShowIn  []string `msgpack:"only_show_in,omitempty"`
	NotShowIn   []string `msgpack:"not_show_in,omitempty"`
}

var (
	errNoMainGroup    = errors.New("no [Desktop Entry] group")
	errNotApplication = errors.New("not an application")
	errNoName         = errors.New("missing Name")
	errNoExec         = errors.New("missing Exec")
)

// Visible reports whether the entry should be offered on a session running
// the given desktops. Hidden entries still mask same-ID entries of lower
// precedence; the scanner keeps them for that.
func (e *DesktopEntry) Visible(desktops []string) bool {
	if e.NoDisplay || e.Hidden {
		return false
	}
	if len(e.OnlyShowIn) > 0 && !intersects(e.OnlyShowIn, desktops) {
		return false
	}
	return !intersects(e.NotShowIn, desktops)
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if slices.ContainsFunc(b, func(y string) bool { return strings.EqualFold(x, y) }) {
			return true
		}
	}
	return false
}

// Item converts the entry into a rankable application item.
func (e *DesktopEntry) Item() item.Item {
	it := item.NewApp(e.Name, e.ID)
	it.Path = e.Path
	it.Exec = slices.Clone(e.Exec)
	it.Terminal = e.Terminal
	if len(e.Exec) > 0 {
		it.AddSecondary(filepath.Base(e.Exec[0]), item.WeightExec)
	}
	it.AddSecondary(e.GenericName, item.WeightGenericName)
	for _, kw := range e.Keywords {
		it.AddSecondary(kw, item.WeightKeywords)
	}
	if len(e.Categories) > 0 {
		it.AddSecondary(strings.Join(e.Categories, " "), item.WeightCategories)
	}
	return it
}

// ParseDesktopFile reads and parses the file at path.
func ParseDesktopFile(path, id string, loc Locale) (DesktopEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return DesktopEntry{}, err
	}
	defer f.Close()
	e, err := ParseDesktop(f, id, loc)
	if err != nil {
		return DesktopEntry{}, fmt.Errorf("%s: %w", path, err)
	}
	e.Path = path
	return e, nil
}

// ParseDesktop parses the [Desktop Entry] group of a desktop file.
// Entries that are not launchable applications are rejected.
func ParseDesktop(r io.Reader, id string, loc Locale) (DesktopEntry, error) {
	group, err := readMainGroup(r)
	if err != nil {
		return DesktopEntry{}, err
	}

	if t := group["Type"]; t != "" && t != "Application" {
		return DesktopEntry{}, errNotApplication
	}

	e := DesktopEntry{
		ID:          id,
		Name:        sanitize.Label(unescape(loc.lookup(group, "Name"))),
		GenericName: sanitize.Label(unescape(loc.lookup(group, "GenericName"))),
		Keywords:    splitList(loc.lookup(group, "Keywords")),
		Categories:  splitList(group["Categories"]),
		Terminal:    parseBool(group["Terminal"]),
		NoDisplay:   parseBool(group["NoDisplay"]),
		Hidden:      parseBool(group["Hidden"]),
		OnlyShowIn:  splitList(group["OnlyShowIn"]),
		NotShowIn:   splitList(group["NotShowIn"]),
	}
	if e.Hidden {
		// Hidden means "deleted"; nothing else matters.
		return e, nil
	}
	if e.Name == "" {
		return DesktopEntry{}, errNoName
	}
	raw := group["Exec"]
	if raw == "" {
		return DesktopEntry{}, errNoExec
	}
	e.Exec, err = ParseExec(unescapeExec(raw), e.Name, "")
	if err != nil {
		return DesktopEntry{}, err
	}
	return e, nil
}

// readMainGroup collects the key/value pairs of the [Desktop Entry] group.
func readMainGroup(r io.Reader) (map[string]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 256*1024)

	group := make(map[string]string)
	inMain, seenMain := false, false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if line[0] == '[' {
			if seenMain && inMain {
				break
			}
			inMain = line == "[Desktop Entry]"
			seenMain = seenMain || inMain
			continue
		}
		if !inMain {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if _, dup := group[key]; dup {
			continue
		}
		group[key] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !seenMain {
		return nil, errNoMainGroup
	}
	return group, nil
}

// unescape resolves the string escapes of the desktop entry format.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 's':
			b.WriteByte(' ')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// unescapeExec applies only the general string escapes that cannot clash
// with Exec quoting; backslashes are left for the argv tokenizer.
func unescapeExec(s string) string {
	return strings.NewReplacer(`\s`, " ", `\t`, "\t", `\n`, "\n", `\r`, "\r").Replace(s)
}

// splitList splits a ';'-separated list honouring "\;" escapes.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	var cur strings.Builder
	flush := func() {
		if v := strings.TrimSpace(unescape(cur.String())); v != "" {
			out = append(out, v)
		}
		cur.Reset()
	}
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == ';':
			cur.WriteByte(';')
			i++
		case s[i] == ';':
			flush()
		default:
			cur.WriteByte(s[i])
		}
	}
	flush()
	return out
}

func parseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}
