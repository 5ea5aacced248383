package source

import (
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// ParseExec splits a desktop Exec value into argv and expands or removes
// field codes. %c becomes the name and %k the desktop file path; file and
// URL codes are dropped since flick never passes arguments.
func ParseExec(raw, name, path string) ([]string, error) {
	args, err := shlex.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("parse Exec %q: %w", raw, err)
	}
	out := make([]string, 0, len(args))
	for _, a := range args {
		if v, keep := expandFieldCodes(a, name, path); keep {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, errNoExec
	}
	return out, nil
}

// expandFieldCodes rewrites one argument. Unknown and file codes expand to
// nothing; an argument left empty by expansion is dropped.
func expandFieldCodes(arg, name, path string) (string, bool) {
	if !strings.Contains(arg, "%") {
		return arg, true
	}
	var b strings.Builder
	for i := 0; i < len(arg); i++ {
		if arg[i] != '%' || i+1 == len(arg) {
			b.WriteByte(arg[i])
			continue
		}
		i++
		switch arg[i] {
		case '%':
			b.WriteByte('%')
		case 'c':
			b.WriteString(name)
		case 'k':
			b.WriteString(path)
		}
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}
