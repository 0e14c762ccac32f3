// Package render turns processed records into a single output document.
// It is a minimal generator: one self-contained HTML page, or plain text.
package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"repodoc/pkg/processor"
)

// Document is everything a renderer needs.
type Document struct {
	Title       string
	Records     []processor.Record
	CSS         string // Stylesheet for highlighted markup.
	LineNumbers bool
}

// Format names an output format.
type Format string

const (
	FormatHTML Format = "html"
	FormatText Format = "text"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatHTML, "htm", "":
		return FormatHTML, nil
	case FormatText, "txt":
		return FormatText, nil
	}
	return "", fmt.Errorf("unsupported output format %q", s)
}

// Write renders doc in format f.
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatHTML:
		return WriteHTML(w, doc)
	case FormatText:
		return WriteText(w, doc)
	}
	return fmt.Errorf("unsupported output format %q", f)
}

type fileView struct {
	Anchor   string
	Path     string
	Kind     string
	Markup   template.HTML
	Image    template.URL
	Alt      string
	Summary  string
	Lines    []int
	Failed   bool
	FileSize string
}

type pageView struct {
	Title string
	CSS   template.CSS
	Tree  string
	Files []fileView
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
pre { font-size: 12px; overflow-x: auto; }
.file { page-break-before: always; }
.code { display: flex; }
.ln { color: #999; text-align: right; padding-right: 1em; user-select: none; margin: 0; }
.src { margin: 0; }
.error { color: #b00; }
{{.CSS}}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<nav id="toc">
<h2>Table of Contents</h2>
<ol>
{{- range .Files}}
<li><a href="#{{.Anchor}}">{{.Path}}</a></li>
{{- end}}
</ol>
</nav>
<section id="tree">
<h2>Directory Structure</h2>
<pre>{{.Tree}}</pre>
</section>
{{- range .Files}}
<section class="file {{.Kind}}" id="{{.Anchor}}">
<h2>{{.Path}}</h2>
{{- if .Failed}}
<p class="error">{{.Summary}}</p>
{{- else if .Image}}
<img src="{{.Image}}" alt="{{.Alt}}" style="max-width: 100%; width: auto; height: auto;">
<p>{{.FileSize}}</p>
{{- else if .Markup}}
<div class="code">
{{- if .Lines}}
<pre class="ln">{{range .Lines}}{{.}}
{{end}}</pre>
{{- end}}
<pre class="chroma src"><code>{{.Markup}}</code></pre>
</div>
{{- else}}
<p>{{.Summary}}</p>
{{- end}}
</section>
{{- end}}
</body>
</html>
`))

// WriteHTML renders doc as one HTML page with a table of contents, the
// directory tree and one section per file. Highlighted markup is trusted
// as produced by the highlighter, which escapes source text.
func WriteHTML(w io.Writer, doc Document) error {
	view := pageView{
		Title: doc.Title,
		CSS:   template.CSS(doc.CSS),
		Tree:  Tree(doc.Records),
		Files: make([]fileView, 0, len(doc.Records)),
	}
	if view.Title == "" {
		view.Title = "Repository"
	}
	for i, r := range doc.Records {
		fv := fileView{
			Anchor:   fmt.Sprintf("file-%d", i+1),
			Path:     r.Path,
			Kind:     r.Type.String(),
			Alt:      r.Metadata[processor.MetaAlt],
			Summary:  r.ProcessedContent,
			Failed:   r.Failed(),
			FileSize: r.Metadata[processor.MetaFileSize],
		}
		if !fv.Failed {
			fv.Markup = template.HTML(r.HighlightedMarkup)
			fv.Image = template.URL(r.EncodedContent)
		}
		if doc.LineNumbers && fv.Markup != "" {
			n := processor.LineCount(r.ProcessedContent)
			fv.Lines = make([]int, n)
			for j := range fv.Lines {
				fv.Lines[j] = j + 1
			}
		}
		view.Files = append(view.Files, fv)
	}
	if err := page.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}
