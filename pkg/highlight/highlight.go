// Package highlight wraps the syntax-highlighting engine used by the code
// transformer. Engines report unsupported languages as errors so callers can
// retry with the plaintext grammar.
package highlight

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// ErrUnsupportedLanguage is returned when no grammar exists for a language tag.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Highlighter turns source text into highlighted markup.
type Highlighter interface {
	Highlight(text, language string) (string, error)
}

// Func adapts an ordinary function to the Highlighter interface.
type Func func(text, language string) (string, error)

// Highlight calls f(text, language).
func (f Func) Highlight(text, language string) (string, error) {
	return f(text, language)
}

const defaultLexerCacheSize = 64

// Options configures a Chroma highlighter.
type Options struct {
	Style          string // Chroma style name; "github" when empty.
	LexerCacheSize int    // Number of resolved lexers kept; 64 when <= 0.
}

// Chroma highlights with github.com/alecthomas/chroma, emitting HTML that
// references CSS classes (see CSS).
type Chroma struct {
	style     *chroma.Style
	formatter *html.Formatter
	lexers    *lru.Cache[string, chroma.Lexer]
	logger    *zap.Logger
}

// NewChroma creates a chroma-backed Highlighter.
func NewChroma(opts Options, logger *zap.Logger) (*Chroma, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	size := opts.LexerCacheSize
	if size <= 0 {
		size = defaultLexerCacheSize
	}
	cache, err := lru.New[string, chroma.Lexer](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lexer cache: %w", err)
	}
	styleName := opts.Style
	if styleName == "" {
		styleName = "github"
	}
	return &Chroma{
		style:     styles.Get(styleName),
		formatter: html.New(html.WithClasses(true), html.PreventSurroundingPre(true)),
		lexers:    cache,
		logger:    logger,
	}, nil
}

// Highlight tokenises text with the grammar for language.
func (c *Chroma) Highlight(text, language string) (string, error) {
	lexer, err := c.lexer(language)
	if err != nil {
		return "", err
	}
	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", language, err)
	}
	var buf bytes.Buffer
	if err := c.formatter.Format(&buf, c.style, it); err != nil {
		return "", fmt.Errorf("format %s: %w", language, err)
	}
	return buf.String(), nil
}

// CSS returns the stylesheet matching the markup produced by Highlight.
func (c *Chroma) CSS() (string, error) {
	var buf bytes.Buffer
	if err := c.formatter.WriteCSS(&buf, c.style); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// lexer resolves and memoizes the grammar for a language tag.
func (c *Chroma) lexer(language string) (chroma.Lexer, error) {
	key := strings.ToLower(strings.TrimSpace(language))
	if key == "" {
		return nil, fmt.Errorf("%w: empty language", ErrUnsupportedLanguage)
	}
	if l, ok := c.lexers.Get(key); ok {
		return l, nil
	}
	l := lexers.Get(key)
	if l == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}
	l = chroma.Coalesce(l)
	c.lexers.Add(key, l)
	c.logger.Debug("Resolved lexer", zap.String("language", key), zap.String("lexer", l.Config().Name))
	return l, nil
}
