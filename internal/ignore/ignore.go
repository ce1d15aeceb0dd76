// Package ignore decides whether a path is excluded from watching and
// syncing.
//
// A Matcher holds an ordered list of compiled IgnoreRules: user-supplied
// regular expressions plus any enabled preset bundles (temp, dotfiles,
// backups, logs). A path is ignored if any rule matches.
package ignore

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Presets selects which built-in rule bundles are active.
type Presets struct {
	Temp      bool
	Dotfiles  bool
	Backups   bool
	Logs      bool
}

// Matcher is the compiled, ready-to-query form of an ignore configuration.
type Matcher struct {
	rules []*regexp.Regexp
}

// New compiles patterns (user-supplied, tried in the order given) plus
// any enabled presets into a Matcher. Patterns use the segment-anchor
// convention: a leading "^" means "start of string or immediately after
// a path separator" rather than literal start-of-string.
func New(patterns []string, presets Presets) (*Matcher, error) {
	var all []string
	all = append(all, patterns...)
	if presets.Temp {
		all = append(all, tempPatterns...)
	}
	if presets.Dotfiles {
		all = append(all, dotfilePatterns...)
	}
	if presets.Backups {
		all = append(all, backupPatterns...)
	}
	if presets.Logs {
		all = append(all, logPatterns...)
	}

	m := &Matcher{rules: make([]*regexp.Regexp, 0, len(all))}
	for _, p := range all {
		re, err := compileRule(p)
		if err != nil {
			return nil, err
		}
		m.rules = append(m.rules, re)
	}
	return m, nil
}

// compileRule rewrites a leading "^" to segment-boundary semantics and
// compiles the result.
func compileRule(pattern string) (*regexp.Regexp, error) {
	if strings.HasPrefix(pattern, "^") {
		pattern = "(?:^|/)" + pattern[1:]
	}
	return regexp.Compile(pattern)
}

// IsIgnored reports whether path matches any rule in the Matcher.
// path is normalized (trailing separators stripped, OS separators
// converted to "/") before matching, so rules are written against
// forward-slash-delimited paths regardless of platform.
func (m *Matcher) IsIgnored(path string) bool {
	norm := normalize(path)
	for _, re := range m.rules {
		if re.MatchString(norm) {
			return true
		}
	}
	return false
}

func normalize(path string) string {
	path = filepath.ToSlash(path)
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}

// tempPatterns matches *.tmp/*.temp, hidden tmp/temp-word files, editor
// swap files, and "#autosave#" names.
//
// The autosave rule is written as "^#[^/]*#$" (anchored on the basename,
// requiring both a leading and trailing "#"). An earlier draft of this
// rule carried a stray trailing anchor that broke the "immediately after
// a separator" rewrite; this is the corrected form.
var tempPatterns = []string{
	`^[^/]*\.tmp$`,
	`^[^/]*\.temp$`,
	`^\.[^/]*\b(?:tmp|temp)\b[^/]*$`,
	`^\.[^/]*\.swp$`,
	`^_[^/]*\.swp$`,
	`^#[^/]*#$`,
}

// dotfilePatterns matches any path segment beginning with ".", whether
// or not it is the final segment (e.g. ".git/config").
var dotfilePatterns = []string{
	`^\.[^/]+`,
}

// backupPatterns matches *.bak, *.backup, *.old, *.orig, and trailing "~".
var backupPatterns = []string{
	`^[^/]*\.bak$`,
	`^[^/]*\.backup$`,
	`^[^/]*\.old$`,
	`^[^/]*\.orig$`,
	`^[^/]*~$`,
}

// logPatterns matches names ending in "log" with a ".", "_", or "-"
// separator, and any path containing a "/log/" or "/logs/" segment.
var logPatterns = []string{
	`^[^/]*[._-]log$`,
	`^logs?(?:/|$)`,
}
