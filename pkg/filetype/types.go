// Package filetype classifies repository files by extension and defines the
// File Descriptor that flows through the processing pipeline.
package filetype

import (
	"fmt"
	"path"
	"strings"
)

// Type is the coarse classification of a repository file. The set is closed:
// every switch over Type handles all four values.
type Type int

const (
	Unknown Type = iota // Unrecognized extension; handled like Binary downstream.
	Code                // Text source file that is highlighted.
	Image               // Raster or vector image that is embedded as a data URI.
	Binary              // Known binary format; only its size is reported.
)

// String returns the lower-case tag used in logs and in spill records.
func (t Type) String() string {
	switch t {
	case Code:
		return "code"
	case Image:
		return "image"
	case Binary:
		return "binary"
	case Unknown:
		return "unknown"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType is the inverse of Type.String.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "code":
		return Code, nil
	case "image":
		return Image, nil
	case "binary":
		return Binary, nil
	case "unknown", "":
		return Unknown, nil
	}
	return Unknown, fmt.Errorf("unknown file type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Descriptor is one repository file before processing. Descriptors are
// created once by a source and treated as read-only afterwards.
type Descriptor struct {
	Path      string `json:"path"`              // Repository-relative, slash separated.
	Name      string `json:"name"`              // Final path segment.
	Type      Type   `json:"type"`              // Set by Classify.
	Content   []byte `json:"content,omitempty"` // Text for code, raw bytes for images, nil otherwise.
	Size      int64  `json:"size"`              // Byte length, known even when Content is nil.
	Extension string `json:"extension"`         // Lower-cased, including the leading dot.
	Language  string `json:"language"`          // Highlighter language tag.
}

// NewDescriptor builds a classified descriptor for a repository-relative path.
// Content is kept only for code and image files.
func NewDescriptor(relPath string, content []byte, size int64) Descriptor {
	relPath = strings.TrimPrefix(path.Clean(strings.ReplaceAll(relPath, "\\", "/")), "/")
	typ, lang := Classify(relPath)
	d := Descriptor{
		Path:      relPath,
		Name:      path.Base(relPath),
		Type:      typ,
		Size:      size,
		Extension: Ext(relPath),
		Language:  lang,
	}
	if typ == Code || typ == Image {
		d.Content = content
	}
	return d
}

// Ext returns the lower-cased extension of p including the dot. Dotfiles
// without a further extension (".gitignore") use the whole name.
func Ext(p string) string {
	return strings.ToLower(path.Ext(p))
}
