// Package ignore matches repository-relative paths against gitignore-style
// glob patterns (`*`, `?`, `**`, trailing `/` for directories, leading `!`
// for negation).
package ignore

import (
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Pattern is one compiled ignore line.
type Pattern struct {
	Regexp *regexp.Regexp // Compiled, fully anchored expression.
	Negate bool           // Line started with '!'.
	Line   string         // Original pattern text.
	LineNo int            // 1-based position among compiled lines.
}

// Matcher holds an ordered list of patterns. The last matching pattern wins,
// so a negation re-includes a path excluded earlier.
type Matcher struct {
	patterns []*Pattern
	logger   *zap.Logger
}

// New creates a Matcher and compiles the given lines.
func New(logger *zap.Logger, lines ...string) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Matcher{logger: logger}
	m.CompileLines(lines...)
	return m
}

// Len reports the number of compiled patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

// CompileLines compiles pattern lines, skipping blanks, comments and lines
// that do not produce a valid expression.
func (m *Matcher) CompileLines(lines ...string) {
	for _, line := range lines {
		re, negate, ok := parseLine(line)
		if !ok {
			continue
		}
		p := &Pattern{Regexp: re, Negate: negate, Line: line, LineNo: len(m.patterns) + 1}
		m.patterns = append(m.patterns, p)
		m.logger.Debug("Compiled ignore pattern",
			zap.Int("lineNo", p.LineNo),
			zap.String("pattern", line),
			zap.Bool("negate", negate))
	}
}

// CompileFile reads an ignore file and compiles its lines. A missing file is
// not an error.
func (m *Matcher) CompileFile(filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Debug("Ignore file does not exist and will be skipped", zap.String("filePath", filePath))
			return nil
		}
		m.logger.Error("Failed to read ignore file", zap.String("filePath", filePath), zap.Error(err))
		return err
	}
	before := len(m.patterns)
	m.CompileLines(strings.Split(string(content), "\n")...)
	m.logger.Debug("Compiled ignore file",
		zap.String("filePath", filePath),
		zap.Int("patternCount", len(m.patterns)-before))
	return nil
}

// Match reports whether p is ignored. Directory paths should carry a
// trailing slash so directory-only patterns apply to them.
func (m *Matcher) Match(p string) bool {
	ok, _ := m.MatchWithPattern(p)
	return ok
}

// MatchWithPattern is Match that also returns the deciding pattern.
func (m *Matcher) MatchWithPattern(p string) (bool, *Pattern) {
	if m == nil || len(m.patterns) == 0 {
		return false, nil
	}
	p = strings.TrimPrefix(strings.ReplaceAll(p, "\\", "/"), "./")
	matched := false
	var decided *Pattern
	for _, pat := range m.patterns {
		if pat.Regexp.MatchString(p) {
			matched = !pat.Negate
			decided = pat
		}
	}
	return matched, decided
}

// parseLine converts one gitignore line into an anchored regular expression.
func parseLine(line string) (*regexp.Regexp, bool, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, false, false
	}

	negate := false
	if strings.HasPrefix(trimmed, "!") {
		negate = true
		trimmed = trimmed[1:]
	}
	if strings.HasPrefix(trimmed, `\#`) || strings.HasPrefix(trimmed, `\!`) {
		trimmed = trimmed[1:]
	}

	dirOnly := strings.HasSuffix(trimmed, "/")
	trimmed = strings.TrimSuffix(trimmed, "/")
	// A slash anywhere but the end anchors the pattern to the root.
	anchored := strings.Contains(trimmed, "/")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return nil, false, false
	}

	var b strings.Builder
	b.WriteString("^")
	if !anchored {
		b.WriteString("(?:.*/)?")
	}
	b.WriteString(globToRegex(trimmed))
	if dirOnly {
		b.WriteString("/.*$")
	} else {
		b.WriteString("(?:/.*)?$")
	}

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, false, false
	}
	return re, negate, true
}

// globToRegex translates glob syntax segment by segment so `**` expansions
// are never re-processed as single stars.
func globToRegex(glob string) string {
	segments := strings.Split(glob, "/")
	var b strings.Builder
	for i, seg := range segments {
		last := i == len(segments)-1
		if seg == "**" {
			if last {
				b.WriteString(".*")
			} else {
				b.WriteString("(?:.*/)?")
			}
			continue
		}
		for _, r := range seg {
			switch r {
			case '*':
				b.WriteString("[^/]*")
			case '?':
				b.WriteString("[^/]")
			default:
				b.WriteString(regexp.QuoteMeta(string(r)))
			}
		}
		if !last {
			b.WriteString("/")
		}
	}
	return b.String()
}
