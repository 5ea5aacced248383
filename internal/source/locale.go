package source

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// Locale is the ordered list of suffixes tried for localized desktop keys,
// most specific first, e.g. [de_DE@euro de_DE de@euro de].
type Locale struct {
	keys []string
}

// LocaleFromEnv resolves the message locale. override wins when set,
// otherwise LC_ALL, LC_MESSAGES and LANG are consulted in that order.
func LocaleFromEnv(override string) Locale {
	for _, v := range []string{override, os.Getenv("LC_ALL"), os.Getenv("LC_MESSAGES"), os.Getenv("LANG")} {
		if v != "" {
			return ParseLocale(v)
		}
	}
	return Locale{}
}

// ParseLocale parses a POSIX locale such as "de_DE.UTF-8@euro". C, POSIX
// and unparseable values give the untranslated locale.
func ParseLocale(s string) Locale {
	s, mod, _ := strings.Cut(s, "@")
	s, _, _ = strings.Cut(s, ".")
	if s == "" || s == "C" || s == "POSIX" {
		return Locale{}
	}

	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return Locale{}
	}
	base, conf := tag.Base()
	if conf == language.No {
		return Locale{}
	}
	lang := base.String()

	var keys []string
	if region, rc := tag.Region(); rc == language.Exact {
		lr := lang + "_" + region.String()
		if mod != "" {
			keys = append(keys, lr+"@"+mod)
		}
		keys = append(keys, lr)
	}
	if mod != "" {
		keys = append(keys, lang+"@"+mod)
	}
	keys = append(keys, lang)
	return Locale{keys: keys}
}

// Keys returns the lookup suffixes.
func (l Locale) Keys() []string { return l.keys }

// String identifies the locale in the desktop cache.
func (l Locale) String() string {
	if len(l.keys) == 0 {
		return "C"
	}
	return l.keys[0]
}

// lookup returns the best localized value of key in group.
func (l Locale) lookup(group map[string]string, key string) string {
	for _, suffix := range l.keys {
		if v, ok := group[key+"["+suffix+"]"]; ok && v != "" {
			return v
		}
	}
	return group[key]
}
