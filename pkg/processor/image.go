package processor

import (
	"encoding/base64"
	"fmt"

	"repodoc/pkg/filetype"
)

// processImage embeds the raw bytes as a base64 data URI. No decoding
// happens here, so width and height are left for the renderer to size.
func processImage(d filetype.Descriptor) (Record, error) {
	if len(d.Content) == 0 {
		return Record{}, fmt.Errorf("%w: %s", ErrEmptyContent, d.Path)
	}
	mime := filetype.MimeType(d.Extension)

	rec := newRecord(d)
	rec.ProcessedContent = ""
	rec.EncodedContent = "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(d.Content)
	rec.Metadata[MetaMimeType] = mime
	rec.Metadata[MetaAlt] = d.Name
	rec.Metadata[MetaWidth] = "auto"
	rec.Metadata[MetaHeight] = "auto"
	rec.Metadata[MetaFileSize] = filetype.FormatSize(d.Size)
	return rec, nil
}
