package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repodoc/pkg/filetype"
	"repodoc/pkg/processor"
)

func sampleRecords() []processor.Record {
	return []processor.Record{
		{
			Descriptor:        filetype.NewDescriptor("src/main.go", []byte("package main\n"), 13),
			ProcessedContent:  "package main\nfunc main() {}\n",
			HighlightedMarkup: `<span class="kd">package</span> main` + "\n" + `<span class="kd">func</span> main() {}` + "\n",
			Metadata:          map[string]string{processor.MetaLanguage: "go"},
		},
		{
			Descriptor:       filetype.NewDescriptor("assets/logo.png", []byte{1}, 1),
			EncodedContent:   "data:image/png;base64,AQ==",
			Metadata:         map[string]string{processor.MetaAlt: "logo.png", processor.MetaMimeType: "image/png", processor.MetaFileSize: "1 Bytes"},
			ProcessedContent: "",
		},
		{
			Descriptor:       filetype.NewDescriptor("c.bin", nil, 2048),
			ProcessedContent: "Binary file: c.bin (2.00 KB)",
			Metadata:         map[string]string{},
		},
		{
			Descriptor:       filetype.Descriptor{Path: "broken.js", Type: filetype.Code},
			ProcessedContent: processor.ErrorPrefix + "<boom>",
			Metadata:         map[string]string{},
		},
	}
}

func TestTree(t *testing.T) {
	got := Tree(sampleRecords())
	want := strings.Join([]string{
		"├── assets/",
		"│   └── logo.png",
		"├── src/",
		"│   └── main.go",
		"├── broken.js",
		"└── c.bin",
	}, "\n") + "\n"
	assert.Equal(t, want, got)
	assert.Equal(t, "", Tree(nil))
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, Document{Title: "demo <repo>", Records: sampleRecords(), CSS: ".chroma { color: red }", LineNumbers: true}))
	out := buf.String()

	assert.Contains(t, out, "<title>demo &lt;repo&gt;</title>")
	assert.Contains(t, out, `<a href="#file-1">src/main.go</a>`)
	assert.Contains(t, out, `id="file-4"`)
	assert.Contains(t, out, `<span class="kd">package</span>`)
	assert.Contains(t, out, `src="data:image/png;base64,AQ=="`)
	assert.Contains(t, out, "Binary file: c.bin (2.00 KB)")
	assert.Contains(t, out, "&lt;boom&gt;", "error text must be escaped")
	assert.Contains(t, out, ".chroma { color: red }")
	assert.Contains(t, out, "<pre class=\"ln\">1\n2\n</pre>")
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Document{Records: sampleRecords(), LineNumbers: true}))
	out := buf.String()

	assert.Contains(t, out, "# Source: src/main.go #")
	assert.Contains(t, out, "1 | package main\n2 | func main() {}\n")
	assert.Contains(t, out, "[image image/png, 1 Bytes]")
	assert.Contains(t, out, "Binary file: c.bin (2.00 KB)")
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatHTML, "HTML": FormatHTML, "txt": FormatText, "text": FormatText} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)

	var buf bytes.Buffer
	assert.Error(t, Write(&buf, Format("epub"), Document{}))
}
