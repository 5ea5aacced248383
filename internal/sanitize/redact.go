package sanitize

import "regexp"

// Rule masks one kind of secret.
type Rule struct {
	Name string
	Re   *regexp.Regexp
	With string
}

// defaultRules covers the credentials most likely to sit in a clipboard.
// Rules run in order, so specific formats precede the generic key=value one.
var defaultRules = []Rule{
	{
		Name: "pem",
		Re:   regexp.MustCompile(`-----BEGIN [A-Z ]+-----[\s\S]+?-----END [A-Z ]+-----`),
		With: "[pem block]",
	},
	{
		Name: "aws-access-key",
		Re:   regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
		With: "[aws key]",
	},
	{
		Name: "jwt",
		Re:   regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		With: "[jwt]",
	},
	{
		Name: "github-token",
		Re:   regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{36,}`),
		With: "[github token]",
	},
	{
		Name: "slack-token",
		Re:   regexp.MustCompile(`xox[baprs]-[0-9A-Za-z-]+`),
		With: "[slack token]",
	},
	{
		Name: "api-key",
		Re:   regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{20,}`),
		With: "[api key]",
	},
	{
		Name: "bearer",
		Re:   regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/=-]{20,}`),
		With: "Bearer [token]",
	},
	{
		Name: "assignment",
		Re:   regexp.MustCompile(`(?i)\b(password|passwd|token|secret|api_key|apikey|private_key)(\s*[=:]\s*)\S+`),
		With: "$1$2[redacted]",
	},
}

// Redactor masks secrets in text meant for display.
type Redactor struct {
	rules []Rule
}

// NewRedactor returns a redactor with the default rules, or with rules when
// any are given.
func NewRedactor(rules ...Rule) *Redactor {
	if len(rules) == 0 {
		rules = defaultRules
	}
	return &Redactor{rules: rules}
}

// Redact returns s with every secret replaced by a placeholder.
func (r *Redactor) Redact(s string) string {
	if r == nil || s == "" {
		return s
	}
	for _, rule := range r.rules {
		s = rule.Re.ReplaceAllString(s, rule.With)
	}
	return s
}

// Rules returns the names of the active rules.
func (r *Redactor) Rules() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name
	}
	return names
}
