package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"repodoc/pkg/processor"
)

var separatorLine = "# " + strings.Repeat("-", 78)

// WriteText writes a plain-text document: the tree followed by every file's
// processed content under a source header. Images are listed by mime type.
func WriteText(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)
	if doc.Title != "" {
		fmt.Fprintf(bw, "%s\n\n", doc.Title)
	}
	bw.WriteString(Tree(doc.Records))

	for _, r := range doc.Records {
		fmt.Fprintf(bw, "\n\n%s\n# Source: %s #\n\n", separatorLine, r.Path)
		switch {
		case r.EncodedContent != "":
			fmt.Fprintf(bw, "[image %s, %s]\n", r.Metadata[processor.MetaMimeType], r.Metadata[processor.MetaFileSize])
		case doc.LineNumbers && r.HighlightedMarkup != "":
			writeNumbered(bw, r.ProcessedContent)
		default:
			bw.WriteString(r.ProcessedContent)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush text output: %w", err)
	}
	return nil
}

func writeNumbered(w *bufio.Writer, content string) {
	lines := strings.SplitAfter(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	width := len(fmt.Sprint(len(lines)))
	for i, line := range lines {
		fmt.Fprintf(w, "%*d | %s", width, i+1, line)
	}
	if len(lines) > 0 && !strings.HasSuffix(content, "\n") {
		w.WriteString("\n")
	}
}
