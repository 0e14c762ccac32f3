package highlight

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChromaHighlight(t *testing.T) {
	h, err := NewChroma(Options{}, nil)
	require.NoError(t, err)

	out, err := h.Highlight("package main\n\nfunc main() {}\n", "go")
	require.NoError(t, err)
	assert.Contains(t, out, "<span")
	assert.Contains(t, out, "main")

	// Second call is served from the lexer cache.
	_, err = h.Highlight("x := 1\n", "GO")
	require.NoError(t, err)
	assert.Equal(t, 1, h.lexers.Len())
}

func TestChromaUnsupportedLanguage(t *testing.T) {
	h, err := NewChroma(Options{}, nil)
	require.NoError(t, err)

	_, err = h.Highlight("hello", "definitely-not-a-language")
	assert.True(t, errors.Is(err, ErrUnsupportedLanguage))

	_, err = h.Highlight("hello", "")
	assert.True(t, errors.Is(err, ErrUnsupportedLanguage))
}

func TestChromaPlaintextEscapes(t *testing.T) {
	h, err := NewChroma(Options{}, nil)
	require.NoError(t, err)

	out, err := h.Highlight("<b>&</b>", "plaintext")
	require.NoError(t, err)
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "&lt;b&gt;")
}

func TestChromaCSS(t *testing.T) {
	h, err := NewChroma(Options{Style: "monokai"}, nil)
	require.NoError(t, err)
	css, err := h.CSS()
	require.NoError(t, err)
	assert.Contains(t, css, ".chroma")
}

func TestFunc(t *testing.T) {
	f := Func(func(text, language string) (string, error) { return language + ":" + text, nil })
	out, err := f.Highlight("x", "go")
	require.NoError(t, err)
	assert.Equal(t, "go:x", out)
}
