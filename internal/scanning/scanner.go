package scanning

import "context"

// Record contains the fields pulled out of a bill transcript.
// Any field may be empty when nothing in the text matched it.
type Record struct {
	Amount   string `json:"amount"`
	Date     string `json:"date"`
	Merchant string `json:"merchant"`
}

// Source is a single still image as acquired from an upload or a camera frame
type Source struct {
	Name        string
	ContentType string
	Data        []byte
}

// Worker is one OCR session bound to a single language model
type Worker interface {
	// Recognize transcribes an encoded image into plain text
	Recognize(ctx context.Context, img *Image) (string, error)
	// Close releases the session's resources
	Close() error
}

// WorkerFactory opens a new OCR worker for the given language
type WorkerFactory func(language string) (Worker, error)

// Scanner defines the interface for the bill scanning pipeline
type Scanner interface {
	// Scan normalizes, recognizes and extracts a Record from a source image
	Scan(ctx context.Context, src Source) (Record, error)
}
