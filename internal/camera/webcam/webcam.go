// Package webcam captures frames from a local camera through OpenCV. It
// needs the OpenCV C libraries, so only the binary imports it.
package webcam

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"github.com/zombor/finance-dashboard/internal/camera"
)

// Device implements camera.Device using an OpenCV video capture
type Device struct {
	deviceID int
}

// New creates a Device for the given device index
func New(deviceID int) *Device {
	return &Device{deviceID: deviceID}
}

// Open opens the capture device
func (d *Device) Open(ctx context.Context) (camera.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	capture, err := gocv.OpenVideoCapture(d.deviceID)
	if err != nil {
		return nil, fmt.Errorf("opening camera %d: %w", d.deviceID, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("camera %d is not available", d.deviceID)
	}
	return &stream{track: &track{capture: capture}}, nil
}

type stream struct {
	track *track
}

func (s *stream) Tracks() []camera.Track {
	return []camera.Track{s.track}
}

func (s *stream) Frame() (image.Image, error) {
	return s.track.read()
}

// track is the single video track of a capture
type track struct {
	mu      sync.Mutex
	capture *gocv.VideoCapture
	stopped bool
}

func (t *track) Kind() string {
	return "video"
}

func (t *track) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	t.capture.Close()
}

func (t *track) read() (image.Image, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return nil, camera.ErrNoFrame
	}

	mat := gocv.NewMat()
	defer mat.Close()
	if ok := t.capture.Read(&mat); !ok || mat.Empty() {
		return nil, camera.ErrNoFrame
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("converting frame: %w", err)
	}
	return img, nil
}
