package processor

import (
	"context"
	"fmt"

	"repodoc/pkg/filetype"

	"go.uber.org/zap"
)

// ProcessFile routes d to the transformer for its type. It never fails: any
// transformer error or panic yields a degraded record carrying the original
// descriptor and an error message.
func (p *Processor) ProcessFile(ctx context.Context, d filetype.Descriptor) (rec Record) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Transformer panicked", zap.String("path", d.Path), zap.Any("panic", r))
			rec = degraded(d, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return degraded(d, err)
	}

	var err error
	switch d.Type {
	case filetype.Code:
		rec, err = p.processCode(d)
	case filetype.Image:
		rec, err = processImage(d)
	case filetype.Binary, filetype.Unknown:
		rec = processBinary(d)
	default:
		err = fmt.Errorf("unhandled file type %s", d.Type)
	}
	if err != nil {
		p.logger.Warn("Failed to process file",
			zap.String("path", d.Path),
			zap.Stringer("type", d.Type),
			zap.Error(err))
		return degraded(d, err)
	}

	p.logger.Debug("Processed file", zap.String("path", d.Path), zap.Stringer("type", d.Type))
	return rec
}

// degraded builds the record returned for a file whose transform failed.
func degraded(d filetype.Descriptor, err error) Record {
	return Record{
		Descriptor:       d,
		ProcessedContent: ErrorPrefix + err.Error(),
		Metadata:         map[string]string{},
	}
}
