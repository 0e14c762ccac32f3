package source

import (
	"bytes"
)

// sniffLen is how much of a file is inspected for binary content.
const sniffLen = 512

// looksBinary reports whether data is likely binary: it contains a NUL byte
// or more than 30% of its first sniffLen bytes are non-printable.
func looksBinary(data []byte) bool {
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	if len(data) == 0 {
		return false // Empty files are considered text
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return true
	}
	nonPrintable := 0
	for _, b := range data {
		if !isPrintable(b) {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(data)) > 0.3
}

// isPrintable accepts printable ASCII, common whitespace and any byte of a
// multi-byte UTF-8 sequence.
func isPrintable(b byte) bool {
	return (b >= 32 && b <= 126) || b == '\n' || b == '\r' || b == '\t' || b >= 0x80
}
