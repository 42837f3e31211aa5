package scanning

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultLanguage is the OCR language model used when none is configured
const DefaultLanguage = "eng"

// Recognizer turns normalized images into transcripts. Every call opens a
// new worker and closes it before returning; workers are never reused.
type Recognizer struct {
	language  string
	newWorker WorkerFactory
}

// NewRecognizer creates a Recognizer for a single language model
func NewRecognizer(language string, newWorker WorkerFactory) *Recognizer {
	if language == "" {
		language = DefaultLanguage
	}
	return &Recognizer{
		language:  language,
		newWorker: newWorker,
	}
}

// Recognize transcribes the image with a fresh worker
func (r *Recognizer) Recognize(ctx context.Context, img *Image) (string, error) {
	worker, err := r.newWorker(r.language)
	if err != nil {
		return "", fmt.Errorf("initializing OCR worker: %w", err)
	}
	defer func() {
		if err := worker.Close(); err != nil {
			slog.Warn("Failed to terminate OCR worker", "language", r.language, "error", err)
		}
	}()

	text, err := worker.Recognize(ctx, img)
	if err != nil {
		return "", fmt.Errorf("recognizing text: %w", err)
	}
	return text, nil
}

// Language returns the configured language model
func (r *Recognizer) Language() string {
	return r.language
}
