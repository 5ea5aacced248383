package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/flick/internal/item"
)

const firefoxDesktop = `# comment
[Desktop Entry]
Type=Application
Name=Firefox
Name[de]=Feuerfuchs
GenericName=Web Browser
GenericName[de]=Webbrowser
Keywords=web;browser;internet;
Categories=Network;WebBrowser;
Exec=/usr/bin/firefox %u
Terminal=false

[Desktop Action new-window]
Name=New Window
Exec=/usr/bin/firefox --new-window %u
`

func TestParseDesktop_Basic(t *testing.T) {
	e, err := ParseDesktop(strings.NewReader(firefoxDesktop), "firefox.desktop", Locale{})
	require.NoError(t, err)

	assert.Equal(t, "firefox.desktop", e.ID)
	assert.Equal(t, "Firefox", e.Name)
	assert.Equal(t, "Web Browser", e.GenericName)
	assert.Equal(t, []string{"web", "browser", "internet"}, e.Keywords)
	assert.Equal(t, []string{"Network", "WebBrowser"}, e.Categories)
	assert.Equal(t, []string{"/usr/bin/firefox"}, e.Exec)
	assert.False(t, e.Terminal)
}

func TestParseDesktop_Localized(t *testing.T) {
	e, err := ParseDesktop(strings.NewReader(firefoxDesktop), "firefox.desktop", ParseLocale("de_AT.UTF-8"))
	require.NoError(t, err)
	assert.Equal(t, "Feuerfuchs", e.Name)
	assert.Equal(t, "Webbrowser", e.GenericName)
}

func TestParseDesktop_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"no group", "Name=x\nExec=x\n", errNoMainGroup},
		{"link", "[Desktop Entry]\nType=Link\nName=x\nURL=http://x\n", errNotApplication},
		{"no name", "[Desktop Entry]\nExec=x\n", errNoName},
		{"no exec", "[Desktop Entry]\nName=x\n", errNoExec},
		{"only field codes", "[Desktop Entry]\nName=x\nExec=%U\n", errNoExec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDesktop(strings.NewReader(tt.body), "x.desktop", Locale{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseDesktop_HiddenNeedsNothingElse(t *testing.T) {
	e, err := ParseDesktop(strings.NewReader("[Desktop Entry]\nHidden=true\n"), "gone.desktop", Locale{})
	require.NoError(t, err)
	assert.True(t, e.Hidden)
	assert.False(t, e.Visible(nil))
}

func TestParseDesktop_SanitizesName(t *testing.T) {
	body := "[Desktop Entry]\nName=\x1b[31mRed\x1b[0m\\sTool\nExec=red\n"
	e, err := ParseDesktop(strings.NewReader(body), "red.desktop", Locale{})
	require.NoError(t, err)
	assert.Equal(t, "Red Tool", e.Name)
}

func TestDesktopEntry_Visible(t *testing.T) {
	tests := []struct {
		name     string
		entry    DesktopEntry
		desktops []string
		want     bool
	}{
		{"plain", DesktopEntry{}, nil, true},
		{"nodisplay", DesktopEntry{NoDisplay: true}, nil, false},
		{"only in other", DesktopEntry{OnlyShowIn: []string{"KDE"}}, []string{"GNOME"}, false},
		{"only in current", DesktopEntry{OnlyShowIn: []string{"KDE"}}, []string{"kde"}, true},
		{"only in without session", DesktopEntry{OnlyShowIn: []string{"KDE"}}, nil, false},
		{"not in current", DesktopEntry{NotShowIn: []string{"GNOME"}}, []string{"ubuntu", "GNOME"}, false},
		{"not in other", DesktopEntry{NotShowIn: []string{"GNOME"}}, []string{"sway"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Visible(tt.desktops))
		})
	}
}

func TestDesktopEntry_Item(t *testing.T) {
	e, err := ParseDesktop(strings.NewReader(firefoxDesktop), "firefox.desktop", Locale{})
	require.NoError(t, err)
	e.Path = "/usr/share/applications/firefox.desktop"

	it := e.Item()
	assert.Equal(t, item.KindApp, it.Kind)
	assert.Equal(t, "Firefox", it.Identity)
	assert.Equal(t, "firefox.desktop", it.DesktopID)
	assert.Equal(t, e.Path, it.Path)

	var texts []string
	for _, f := range it.Secondary {
		texts = append(texts, f.Text)
	}
	assert.Equal(t, []string{"firefox", "Web Browser", "web", "browser", "internet", "Network WebBrowser"}, texts)
	assert.Equal(t, item.WeightExec, it.Secondary[0].Weight)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b;c", "d"}, splitList(`a;b\;c;;d;`))
	assert.Nil(t, splitList(""))
}

func TestUnescape(t *testing.T) {
	assert.Equal(t, "a b\tc\\d", unescape(`a\sb\tc\\d`))
	assert.Equal(t, `keep\q`, unescape(`keep\q`))
}

func TestParseExec(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"firefox %u", []string{"firefox"}},
		{`"/opt/my app/run" --name=%c`, []string{"/opt/my app/run", "--name=Thing"}},
		{"tool --file %k", []string{"tool", "--file", "/x/thing.desktop"}},
		{"printf 100%%", []string{"printf", "100%"}},
		{"env A=1 app %F %i", []string{"env", "A=1", "app"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseExec(tt.raw, "Thing", "/x/thing.desktop")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseExec_KeyWithoutPathDropsArg(t *testing.T) {
	got, err := ParseExec("tool %k", "Thing", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"tool"}, got)
}

func TestParseExec_Unterminated(t *testing.T) {
	_, err := ParseExec(`app "open`, "x", "")
	assert.Error(t, err)
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"de_DE.UTF-8@euro", []string{"de_DE@euro", "de_DE", "de@euro", "de"}},
		{"pt_BR.UTF-8", []string{"pt_BR", "pt"}},
		{"fr", []string{"fr"}},
		{"C", nil},
		{"POSIX", nil},
		{"C.UTF-8", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLocale(tt.in).Keys())
		})
	}
}

func TestLocaleFromEnv(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "fr_FR.UTF-8")
	t.Setenv("LANG", "de_DE.UTF-8")

	assert.Equal(t, "fr_FR", LocaleFromEnv("").String())
	assert.Equal(t, "es", LocaleFromEnv("es").String())

	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "")
	assert.Equal(t, "C", LocaleFromEnv("").String())
}
