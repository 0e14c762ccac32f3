package processor

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"repodoc/pkg/filetype"

	"go.uber.org/zap"
)

// processCode applies the optional comment and empty-line transforms and
// highlights the result. Highlighting failures fall back to the plaintext
// grammar and never fail the file.
func (p *Processor) processCode(d filetype.Descriptor) (Record, error) {
	if len(d.Content) == 0 {
		return Record{}, fmt.Errorf("%w: %s", ErrEmptyContent, d.Path)
	}

	// Invalid UTF-8 is replaced up front so spilled and in-memory records agree.
	content := strings.ToValidUTF8(string(d.Content), "\uFFFD")
	if p.opts.RemoveComments {
		content = removeComments(content, d.Language)
	}
	if p.opts.RemoveEmptyLines {
		content = removeEmptyLines(content)
	}

	rec := newRecord(d)
	rec.ProcessedContent = content
	rec.HighlightedMarkup = p.highlight(d.Path, content, d.Language)
	rec.Metadata[MetaLanguage] = languageOrPlain(d.Language)
	rec.Metadata[MetaLineCount] = strconv.Itoa(LineCount(content))
	rec.Metadata[MetaFileSize] = filetype.FormatSize(d.Size)
	return rec, nil
}

// highlight runs the engine for language, retrying with plaintext on error.
// Without a working engine the text is HTML-escaped so the markup is still
// safe to embed.
func (p *Processor) highlight(path, content, language string) string {
	if p.highlighter == nil {
		return html.EscapeString(content)
	}
	lang := languageOrPlain(language)
	markup, err := p.highlighter.Highlight(content, lang)
	if err == nil {
		return markup
	}
	p.logger.Debug("Highlighting failed, falling back to plaintext",
		zap.String("path", path),
		zap.String("language", lang),
		zap.Error(err))
	if lang != filetype.PlainText {
		markup, perr := p.highlighter.Highlight(content, filetype.PlainText)
		if perr == nil {
			return markup
		}
		err = errors.Join(err, perr)
	}
	p.logger.Warn("Plaintext highlighting failed, escaping content",
		zap.String("path", path),
		zap.Error(err))
	return html.EscapeString(content)
}

func languageOrPlain(language string) string {
	if strings.TrimSpace(language) == "" {
		return filetype.PlainText
	}
	return language
}

// LineCount counts lines by line breaks in content; a final line without a
// trailing newline still counts.
func LineCount(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
