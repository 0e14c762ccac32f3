package processor

import (
	"strings"

	"repodoc/pkg/filetype"
	"repodoc/pkg/ignore"
)

// Filter drops descriptors matched by the ignore patterns and, unless
// includeHidden is set, descriptors with a dot-prefixed path segment.
// The relative order of the remaining descriptors is unchanged.
func Filter(descs []filetype.Descriptor, m *ignore.Matcher, includeHidden bool) []filetype.Descriptor {
	out := make([]filetype.Descriptor, 0, len(descs))
	for _, d := range descs {
		if !includeHidden && IsHidden(d.Path) {
			continue
		}
		if m.Match(d.Path) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// IsHidden reports whether any segment of a slash-separated path starts
// with a dot. "." and ".." segments are not hidden.
func IsHidden(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if len(seg) > 1 && seg[0] == '.' && seg != ".." {
			return true
		}
	}
	return false
}
