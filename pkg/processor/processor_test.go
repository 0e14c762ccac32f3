package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"repodoc/pkg/filetype"
	"repodoc/pkg/highlight"
	"repodoc/pkg/ignore"
)

// echoHighlighter wraps text in a marker so tests can see which language ran.
func echoHighlighter() highlight.Highlighter {
	return highlight.Func(func(text, language string) (string, error) {
		return "<" + language + ">" + text, nil
	})
}

func code(path, content string) filetype.Descriptor {
	return filetype.NewDescriptor(path, []byte(content), int64(len(content)))
}

func TestProcessFilesTotalCoverage(t *testing.T) {
	p := New(Options{MaxConcurrency: 3}, echoHighlighter(), zaptest.NewLogger(t))

	var descs []filetype.Descriptor
	for i := 0; i < 25; i++ {
		switch i % 3 {
		case 0:
			descs = append(descs, code(fmt.Sprintf("src/f%02d.go", i), "package f\n"))
		case 1:
			descs = append(descs, filetype.NewDescriptor(fmt.Sprintf("img/i%02d.png", i), []byte{0x89, 'P', 'N', 'G'}, 4))
		default:
			descs = append(descs, filetype.NewDescriptor(fmt.Sprintf("bin/b%02d.zip", i), nil, int64(i*100)))
		}
	}

	out, err := p.ProcessFiles(context.Background(), descs)
	require.NoError(t, err)
	require.Len(t, out, len(descs))
	for i := range descs {
		assert.Equal(t, descs[i].Path, out[i].Path)
		assert.False(t, out[i].Failed(), out[i].Path)
	}
}

func TestProcessFileDegradesMissingContent(t *testing.T) {
	p := New(Options{}, echoHighlighter(), nil)

	tests := []filetype.Descriptor{
		{Path: "a.js", Name: "a.js", Type: filetype.Code, Extension: ".js", Language: "javascript"},
		{Path: "b.png", Name: "b.png", Type: filetype.Image, Extension: ".png"},
	}
	for _, d := range tests {
		t.Run(d.Path, func(t *testing.T) {
			rec := p.ProcessFile(context.Background(), d)
			assert.True(t, strings.HasPrefix(rec.ProcessedContent, "Error processing file:"), rec.ProcessedContent)
			assert.Contains(t, rec.ProcessedContent, ErrEmptyContent.Error())
			assert.Empty(t, rec.HighlightedMarkup)
			assert.Empty(t, rec.EncodedContent)
			assert.True(t, rec.Failed())
			assert.Equal(t, d.Path, rec.Path)
			assert.Equal(t, d.Type, rec.Type)
		})
	}
}

func TestProcessFileUnhandledType(t *testing.T) {
	p := New(Options{}, echoHighlighter(), nil)
	rec := p.ProcessFile(context.Background(), filetype.Descriptor{Path: "x", Type: filetype.Type(42)})
	assert.True(t, rec.Failed())
	assert.Contains(t, rec.ProcessedContent, "unhandled file type")
}

func TestProcessFileRecoversPanic(t *testing.T) {
	h := highlight.Func(func(text, language string) (string, error) { panic("grammar exploded") })
	p := New(Options{}, h, nil)

	rec := p.ProcessFile(context.Background(), code("a.go", "package a\n"))
	assert.True(t, rec.Failed())
	assert.Contains(t, rec.ProcessedContent, "grammar exploded")
}

func TestCodeNoOpConfigKeepsContent(t *testing.T) {
	p := New(Options{RemoveComments: false, RemoveEmptyLines: false}, echoHighlighter(), nil)
	src := "// header\n\npackage main\n\n/* block */\nfunc main() {}\n   \n"

	rec := p.ProcessFile(context.Background(), code("main.go", src))
	assert.Equal(t, src, rec.ProcessedContent)
	assert.Equal(t, "<go>"+src, rec.HighlightedMarkup)
	assert.Equal(t, "go", rec.Metadata[MetaLanguage])
	assert.Equal(t, "7", rec.Metadata[MetaLineCount])
}

func TestCodeTransformsCountRemainingLines(t *testing.T) {
	p := New(Options{RemoveComments: true, RemoveEmptyLines: true}, echoHighlighter(), nil)
	src := "// header\n\npackage main\n\n/*\n block\n*/\nfunc main() {} // trailing\n"

	rec := p.ProcessFile(context.Background(), code("main.go", src))
	assert.Equal(t, "package main\nfunc main() {} // trailing\n", rec.ProcessedContent)
	assert.Equal(t, "2", rec.Metadata[MetaLineCount])
}

func TestHighlightFallsBackToPlaintext(t *testing.T) {
	var calls []string
	var mu sync.Mutex
	h := highlight.Func(func(text, language string) (string, error) {
		mu.Lock()
		calls = append(calls, language)
		mu.Unlock()
		if language != filetype.PlainText {
			return "", highlight.ErrUnsupportedLanguage
		}
		return "plain:" + text, nil
	})
	p := New(Options{}, h, nil)

	rec := p.ProcessFile(context.Background(), code("app.js", "let x = 1\n"))
	assert.False(t, rec.Failed())
	assert.Equal(t, "plain:let x = 1\n", rec.HighlightedMarkup)
	assert.Equal(t, []string{"javascript", filetype.PlainText}, calls)
}

func TestHighlightEscapesWhenEngineUnusable(t *testing.T) {
	h := highlight.Func(func(text, language string) (string, error) { return "", errors.New("engine down") })
	p := New(Options{}, h, nil)

	rec := p.ProcessFile(context.Background(), code("index.html", "<p>&</p>\n"))
	assert.False(t, rec.Failed())
	assert.Equal(t, "&lt;p&gt;&amp;&lt;/p&gt;\n", rec.HighlightedMarkup)

	noEngine := New(Options{}, nil, nil)
	rec = noEngine.ProcessFile(context.Background(), code("a.txt", "a<b"))
	assert.Equal(t, "a&lt;b", rec.HighlightedMarkup)
}

func TestBinarySizeFormatting(t *testing.T) {
	p := New(Options{}, nil, nil)

	zero := p.ProcessFile(context.Background(), filetype.NewDescriptor("empty.bin", nil, 0))
	assert.Equal(t, "Binary file: empty.bin (0 Bytes)", zero.ProcessedContent)
	assert.Equal(t, "0 Bytes", zero.Metadata[MetaFileSize])

	half := p.ProcessFile(context.Background(), filetype.NewDescriptor("lib.so", nil, 1536))
	assert.Equal(t, "1.5 KB", half.Metadata[MetaFileSize])
	assert.Equal(t, "Shared Object Library", half.Metadata[MetaBinaryType])
	assert.Equal(t, "Binary file: lib.so (1.50 KB)", half.ProcessedContent)
}

func TestUnknownIsTreatedAsBinary(t *testing.T) {
	p := New(Options{}, echoHighlighter(), nil)
	d := filetype.Descriptor{Path: "data.weird", Name: "data.weird", Type: filetype.Unknown, Extension: ".weird", Size: 10, Content: []byte{0xff, 0xfe}}

	rec := p.ProcessFile(context.Background(), d)
	assert.Equal(t, "Binary file: data.weird (10 Bytes)", rec.ProcessedContent)
	assert.Equal(t, filetype.DefaultBinaryDescription, rec.Metadata[MetaBinaryType])
	assert.Empty(t, rec.HighlightedMarkup)
}

func TestImageMetadata(t *testing.T) {
	p := New(Options{}, nil, nil)
	rec := p.ProcessFile(context.Background(), filetype.NewDescriptor("icons/x.svg", []byte("<svg/>"), 6))

	assert.Equal(t, "data:image/svg+xml;base64,PHN2Zy8+", rec.EncodedContent)
	assert.Equal(t, "", rec.ProcessedContent)
	assert.Equal(t, "image/svg+xml", rec.Metadata[MetaMimeType])
	assert.Equal(t, "x.svg", rec.Metadata[MetaAlt])
	assert.Equal(t, "auto", rec.Metadata[MetaWidth])
	assert.Equal(t, "auto", rec.Metadata[MetaHeight])
}

func TestMixedBatchScenario(t *testing.T) {
	p := New(Options{RemoveComments: true}, echoHighlighter(), nil)
	descs := []filetype.Descriptor{
		{Path: "a.js", Name: "a.js", Type: filetype.Code, Content: []byte("// c\nconsole.log(1)\n"), Size: 20, Extension: ".js", Language: "javascript"},
		{Path: "b.png", Name: "b.png", Type: filetype.Image, Content: []byte{0x89, 0x50, 0x4e, 0x47}, Size: 4, Extension: ".png"},
		{Path: "c.bin", Name: "c.bin", Type: filetype.Binary, Size: 2048, Extension: ".bin"},
	}

	out, err := p.ProcessFiles(context.Background(), descs)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "console.log(1)\n", out[0].ProcessedContent)
	assert.NotContains(t, out[0].ProcessedContent, "// c")
	assert.True(t, strings.HasPrefix(out[1].EncodedContent, "data:image/png;base64,"))
	assert.Equal(t, "Binary file: c.bin (2.00 KB)", out[2].ProcessedContent)
}

func TestConcurrencyCeiling(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		t.Run(fmt.Sprintf("max=%d", n), func(t *testing.T) {
			var active, peak int32
			h := highlight.Func(func(text, language string) (string, error) {
				cur := atomic.AddInt32(&active, 1)
				for {
					old := atomic.LoadInt32(&peak)
					if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&active, -1)
				return text, nil
			})
			p := New(Options{MaxConcurrency: n}, h, nil)

			descs := make([]filetype.Descriptor, 4*n+3)
			for i := range descs {
				descs[i] = code(fmt.Sprintf("f%d.go", i), "package f\n")
			}
			out, err := p.ProcessFiles(context.Background(), descs)
			require.NoError(t, err)
			assert.Len(t, out, len(descs))
			assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(n))
			assert.GreaterOrEqual(t, atomic.LoadInt32(&peak), int32(1))
		})
	}
}

func TestProcessFilesAppliesFilter(t *testing.T) {
	p := New(Options{IgnorePatterns: []string{"*.log", "vendor/"}}, echoHighlighter(), nil)
	descs := []filetype.Descriptor{
		code("main.go", "package main\n"),
		code(".env", "A=1\n"),
		code(".github/workflows/ci.yml", "on: push\n"),
		code("debug.log", "x\n"),
		code("vendor/lib/lib.go", "package lib\n"),
		code("pkg/util.go", "package pkg\n"),
	}

	out, err := p.ProcessFiles(context.Background(), descs)
	require.NoError(t, err)
	paths := make([]string, len(out))
	for i, r := range out {
		paths[i] = r.Path
	}
	assert.Equal(t, []string{"main.go", "pkg/util.go"}, paths)

	withHidden := New(Options{IncludeHiddenFiles: true}, echoHighlighter(), nil)
	out, err = withHidden.ProcessFiles(context.Background(), descs)
	require.NoError(t, err)
	assert.Len(t, out, len(descs))
}

func TestProcessFilesCancelled(t *testing.T) {
	p := New(Options{MaxConcurrency: 1}, echoHighlighter(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ProcessFiles(ctx, []filetype.Descriptor{code("a.go", "package a\n")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessFilesEmpty(t *testing.T) {
	p := New(Options{}, nil, nil)
	out, err := p.ProcessFiles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden(".env"))
	assert.True(t, IsHidden("a/.cache/x"))
	assert.False(t, IsHidden("a/b.c/x"))
	assert.False(t, IsHidden("./a"))
	assert.False(t, IsHidden("main.go"))
}

func TestFilterNilMatcher(t *testing.T) {
	descs := []filetype.Descriptor{code("a.go", "x"), code(".b.go", "y")}
	out := Filter(descs, (*ignore.Matcher)(nil), false)
	require.Len(t, out, 1)
	assert.Equal(t, "a.go", out[0].Path)
}
