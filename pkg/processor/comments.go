package processor

import (
	"regexp"
	"strings"
)

// Comment stripping is a regex heuristic, not a parser. It removes comment
// lines and block comments that start at the beginning of a line and end at
// the end of a line. Trailing comments that share a line with code, and
// block comments embedded inside a line, are left alone so code is never
// cut mid-statement.

type commentStyle struct {
	line  []*regexp.Regexp
	block []delimiters
}

type delimiters struct {
	open, close string
}

// lineComment matches a whole line whose first non-blank token is marker.
func lineComment(marker string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(marker) + `.*(?:\r?\n|$)`)
}

var (
	// hashLine skips "#!" so shebangs survive.
	hashLine = regexp.MustCompile(`(?m)^[ \t]*#(?:[^!\r\n].*)?(?:\r?\n|$)`)

	// phpHashLine also skips "#[" so PHP 8 attributes survive.
	phpHashLine = regexp.MustCompile(`(?m)^[ \t]*#(?:[^!\[\r\n].*)?(?:\r?\n|$)`)

	cStyle = commentStyle{
		line:  []*regexp.Regexp{lineComment("//")},
		block: []delimiters{{"/*", "*/"}},
	}
	cssStyle = commentStyle{
		block: []delimiters{{"/*", "*/"}},
	}
	hashStyle = commentStyle{
		line: []*regexp.Regexp{hashLine},
	}
	markupStyle = commentStyle{
		block: []delimiters{{"<!--", "-->"}},
	}
	sqlStyle = commentStyle{
		line:  []*regexp.Regexp{lineComment("--")},
		block: []delimiters{{"/*", "*/"}},
	}

	commentStyles = map[string]commentStyle{
		"javascript": cStyle,
		"jsx":        cStyle,
		"typescript": cStyle,
		"tsx":        cStyle,
		"go":         cStyle,
		"rust":       cStyle,
		"java":       cStyle,
		"kotlin":     cStyle,
		"scala":      cStyle,
		"swift":      cStyle,
		"c":          cStyle,
		"cpp":        cStyle,
		"csharp":     cStyle,
		"dart":       cStyle,
		"groovy":     cStyle,
		"protobuf":   cStyle,
		"scss":       cStyle,
		"sass":       cStyle,
		"less":       cStyle,
		"php": {
			line:  []*regexp.Regexp{lineComment("//"), phpHashLine},
			block: []delimiters{{"/*", "*/"}},
		},
		"terraform": {
			line:  []*regexp.Regexp{lineComment("//"), hashLine},
			block: []delimiters{{"/*", "*/"}},
		},
		"css":        cssStyle,
		"python":     hashStyle,
		"ruby":       {line: []*regexp.Regexp{hashLine}, block: []delimiters{{"=begin", "=end"}}},
		"perl":       hashStyle,
		"bash":       hashStyle,
		"fish":       hashStyle,
		"r":          hashStyle,
		"yaml":       hashStyle,
		"toml":       hashStyle,
		"elixir":     hashStyle,
		"makefile":   hashStyle,
		"docker":     hashStyle,
		"graphql":    hashStyle,
		"powershell": {line: []*regexp.Regexp{hashLine}, block: []delimiters{{"<#", "#>"}}},
		"ini":        {line: []*regexp.Regexp{hashLine, lineComment(";")}},
		"sql":        sqlStyle,
		"lua":        {line: []*regexp.Regexp{lineComment("--")}, block: []delimiters{{"--[[", "]]"}}},
		"haskell":    {line: []*regexp.Regexp{lineComment("--")}, block: []delimiters{{"{-", "-}"}}},
		"erlang":     {line: []*regexp.Regexp{lineComment("%")}},
		"clojure":    {line: []*regexp.Regexp{lineComment(";")}},
		"vim":        {line: []*regexp.Regexp{lineComment(`"`)}},
		"html":       markupStyle,
		"xml":        markupStyle,
		"markdown":   markupStyle,
		"vue":        {line: []*regexp.Regexp{lineComment("//")}, block: []delimiters{{"<!--", "-->"}, {"/*", "*/"}}},
		"svelte":     {line: []*regexp.Regexp{lineComment("//")}, block: []delimiters{{"<!--", "-->"}, {"/*", "*/"}}},
	}
)

// removeComments strips comments for languages with a known comment syntax
// and returns content unchanged otherwise.
func removeComments(content, language string) string {
	style, ok := commentStyles[strings.ToLower(language)]
	if !ok {
		return content
	}
	// Blocks first so a "//" inside a removed block cannot match on its own.
	for _, d := range style.block {
		content = stripBlocks(content, d)
	}
	for _, re := range style.line {
		content = re.ReplaceAllString(content, "")
	}
	return content
}

// removeEmptyLines drops lines that are empty or whitespace-only. A trailing
// newline is kept when the input had one and something remains.
func removeEmptyLines(content string) string {
	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	out := strings.Join(kept, "\n")
	if strings.HasSuffix(content, "\n") {
		out += "\n"
	}
	return out
}

// stripBlocks removes every d.open..d.close block whose opening marker is the
// first token on its line and whose closing marker is the last token on its
// line, together with the lines it spans.
func stripBlocks(content string, d delimiters) string {
	var b strings.Builder
	pos := 0
	for pos < len(content) {
		lineEnd := strings.IndexByte(content[pos:], '\n')
		if lineEnd < 0 {
			lineEnd = len(content)
		} else {
			lineEnd += pos + 1
		}
		line := content[pos:lineEnd]
		trimmed := strings.TrimLeft(line, " \t")
		if !strings.HasPrefix(trimmed, d.open) {
			b.WriteString(line)
			pos = lineEnd
			continue
		}
		start := pos + len(line) - len(trimmed) + len(d.open)
		closeAt := strings.Index(content[start:], d.close)
		if closeAt < 0 {
			b.WriteString(line)
			pos = lineEnd
			continue
		}
		after := start + closeAt + len(d.close)
		restEnd := strings.IndexByte(content[after:], '\n')
		next := len(content)
		rest := content[after:]
		if restEnd >= 0 {
			rest = content[after : after+restEnd]
			next = after + restEnd + 1
		}
		if strings.TrimSpace(rest) != "" {
			// Code follows the block on its closing line; keep it all.
			b.WriteString(line)
			pos = lineEnd
			continue
		}
		pos = next
	}
	return b.String()
}
