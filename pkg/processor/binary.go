package processor

import (
	"fmt"

	"repodoc/pkg/filetype"
)

// processBinary summarises a binary or unknown file from its size and
// extension. It never reads Content.
func processBinary(d filetype.Descriptor) Record {
	rec := newRecord(d)
	rec.ProcessedContent = fmt.Sprintf("Binary file: %s (%s)", d.Path, filetype.FormatSizeFixed(d.Size))
	rec.Metadata[MetaFileSize] = filetype.FormatSize(d.Size)
	rec.Metadata[MetaBinaryType] = filetype.BinaryDescription(d.Extension)
	return rec
}
