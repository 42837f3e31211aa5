// Package camera models a live capture device as a media stream made of
// tracks, the shape the bill scanner needs: open, grab the current frame,
// stop every track.
package camera

import (
	"context"
	"errors"
	"image"
)

// ErrNoFrame is returned when the stream has no frame available
var ErrNoFrame = errors.New("no frame available")

// Track is one live source inside a stream
type Track interface {
	// Kind reports the media kind, e.g. "video"
	Kind() string
	// Stop ends the track and releases the underlying device
	Stop()
}

// Stream is a live media stream acquired from a Device
type Stream interface {
	// Tracks returns every track in the stream
	Tracks() []Track
	// Frame returns the current video frame at its native resolution
	Frame() (image.Image, error)
}

// Device grants access to a camera
type Device interface {
	// Open requests camera access and returns a live stream
	Open(ctx context.Context) (Stream, error)
}

// StopAll stops every track in the stream
func StopAll(s Stream) {
	for _, track := range s.Tracks() {
		track.Stop()
	}
}
