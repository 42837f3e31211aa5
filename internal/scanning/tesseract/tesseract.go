// Package tesseract reads bill images with a gosseract client. It needs
// the Tesseract C libraries, so only the binary imports it.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/zombor/finance-dashboard/internal/scanning"
)

// Worker is a scanning.Worker backed by a gosseract client
type Worker struct {
	client *gosseract.Client
}

// New opens a Tesseract session for the given language.
// It satisfies scanning.WorkerFactory.
func New(language string) (scanning.Worker, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("loading language %q: %w", language, err)
	}
	return &Worker{client: client}, nil
}

// Recognize runs OCR over the encoded image
func (w *Worker) Recognize(ctx context.Context, img *scanning.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := w.client.SetImageFromBytes(img.Data); err != nil {
		return "", fmt.Errorf("loading image: %w", err)
	}
	text, err := w.client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return text, nil
}

// Close releases the Tesseract client
func (w *Worker) Close() error {
	return w.client.Close()
}
