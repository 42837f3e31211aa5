package scanning

import (
	"context"
	"fmt"
	"log/slog"
)

// TextRecognizer transcribes a normalized image
type TextRecognizer interface {
	Recognize(ctx context.Context, img *Image) (string, error)
}

// Pipeline implements the Scanner interface: Normalize, then Recognize, then
// Extract. Each stage starts only once the previous one has produced its
// result.
type Pipeline struct {
	recognizer TextRecognizer
}

// NewPipeline creates a new Pipeline
func NewPipeline(recognizer TextRecognizer) *Pipeline {
	return &Pipeline{recognizer: recognizer}
}

// Scan runs one image through the pipeline
func (p *Pipeline) Scan(ctx context.Context, src Source) (Record, error) {
	img, err := Normalize(src)
	if err != nil {
		return Record{}, fmt.Errorf("normalizing image: %w", err)
	}

	text, err := p.recognizer.Recognize(ctx, img)
	if err != nil {
		return Record{}, err
	}

	record := Extract(text)
	slog.Debug("Extracted bill fields",
		"source", src.Name,
		"width", img.Width,
		"height", img.Height,
		"transcript_length", len(text),
		"amount", record.Amount,
		"date", record.Date,
		"merchant", record.Merchant,
	)
	return record, nil
}
