package bill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/zombor/finance-dashboard/internal/camera"
	"github.com/zombor/finance-dashboard/internal/scanning"
)

var (
	// ErrCameraClosed is returned when capturing without an open camera
	ErrCameraClosed = errors.New("camera is not open")
	// ErrNoRecord is returned when saving before anything was extracted
	ErrNoRecord = errors.New("no extracted record")
)

// User-visible messages
const (
	MessageProcessingFailed = "Error processing image. Please try again."
	MessageCaptureFailed    = "Error processing captured image. Please try again."
	MessageCameraFailed     = "Error accessing camera. Please try again."
)

// CaptureFilename is the name given to camera frames
const CaptureFilename = "capture.jpg"

// State is a snapshot of what the scanner shows
type State struct {
	Record     *scanning.Record `json:"record"`
	Error      string           `json:"error"`
	Processing bool             `json:"processing"`
	CameraOpen bool             `json:"camera_open"`
}

// Session holds the bill scanner's state: the one extracted record on
// display, the error and processing indicators, and the camera stream it
// owns.
//
// Scans are not serialized. Concurrent scans all run to completion and the
// one that resolves last overwrites the record and the processing flag.
type Session struct {
	scanner scanning.Scanner
	device  camera.Device

	// camMu serializes camera open/close/frame grabs
	camMu  sync.Mutex
	stream camera.Stream

	mu         sync.Mutex
	record     *scanning.Record
	errMsg     string
	processing bool
	cameraOpen bool
}

// NewSession creates a new Session. device may be nil when no camera is
// attached; opening the camera then fails like a denied permission.
func NewSession(scanner scanning.Scanner, device camera.Device) *Session {
	return &Session{
		scanner: scanner,
		device:  device,
	}
}

// ScanFile runs an uploaded image through the pipeline
func (s *Session) ScanFile(ctx context.Context, src scanning.Source) (scanning.Record, error) {
	return s.scan(ctx, src, MessageProcessingFailed)
}

func (s *Session) scan(ctx context.Context, src scanning.Source, failure string) (scanning.Record, error) {
	s.mu.Lock()
	s.processing = true
	s.errMsg = ""
	s.mu.Unlock()

	record, err := s.scanner.Scan(ctx, src)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = false
	if err != nil {
		// the previously extracted record stays on display
		slog.Error("OCR error",
			"filename", src.Name,
			"content_type", src.ContentType,
			"file_size", len(src.Data),
			"error", err,
		)
		s.errMsg = failure
		return scanning.Record{}, fmt.Errorf("scanning bill: %w", err)
	}
	s.record = &record
	return record, nil
}

// OpenCamera acquires a live stream from the device. Opening an already open
// camera does nothing.
func (s *Session) OpenCamera(ctx context.Context) error {
	s.camMu.Lock()
	defer s.camMu.Unlock()

	if s.stream != nil {
		return nil
	}

	if s.device == nil {
		s.setError(MessageCameraFailed)
		slog.Error("Camera error", "error", "no camera device configured")
		return fmt.Errorf("opening camera: no device configured")
	}

	stream, err := s.device.Open(ctx)
	if err != nil {
		s.setError(MessageCameraFailed)
		slog.Error("Camera error", "error", err)
		return fmt.Errorf("opening camera: %w", err)
	}

	s.stream = stream
	s.mu.Lock()
	s.cameraOpen = true
	s.mu.Unlock()
	slog.Info("Camera opened", "tracks", len(stream.Tracks()))
	return nil
}

// CloseCamera stops every track of the open stream. Safe to call when the
// camera is already closed.
func (s *Session) CloseCamera() {
	s.camMu.Lock()
	defer s.camMu.Unlock()
	s.closeCameraLocked()
}

func (s *Session) closeCameraLocked() {
	if s.stream == nil {
		return
	}
	camera.StopAll(s.stream)
	s.stream = nil

	s.mu.Lock()
	s.cameraOpen = false
	s.mu.Unlock()
	slog.Info("Camera closed")
}

// Capture grabs the current frame from the open camera and scans it. The
// stream the frame came from is closed after a successful scan and left open
// otherwise.
func (s *Session) Capture(ctx context.Context) (scanning.Record, error) {
	s.camMu.Lock()
	stream := s.stream
	if stream == nil {
		s.camMu.Unlock()
		return scanning.Record{}, ErrCameraClosed
	}
	frame, err := stream.Frame()
	s.camMu.Unlock()
	if err != nil {
		s.setError(MessageCaptureFailed)
		slog.Error("Capture error", "error", err)
		return scanning.Record{}, fmt.Errorf("capturing frame: %w", err)
	}

	img, err := scanning.EncodeFrame(frame)
	if err != nil {
		s.setError(MessageCaptureFailed)
		slog.Error("Capture error", "error", err)
		return scanning.Record{}, fmt.Errorf("encoding frame: %w", err)
	}

	record, err := s.scan(ctx, scanning.Source{
		Name:        CaptureFilename,
		ContentType: img.MIMEType,
		Data:        img.Data,
	}, MessageCaptureFailed)
	if err != nil {
		return scanning.Record{}, err
	}

	// a stream reopened while the frame was scanning is not ours to stop
	s.camMu.Lock()
	if s.stream == stream {
		s.closeCameraLocked()
	}
	s.camMu.Unlock()
	return record, nil
}

// Save logs the current record. It does not add it to any ledger.
func (s *Session) Save() (scanning.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return scanning.Record{}, ErrNoRecord
	}
	slog.Info("Saving expense",
		"amount", s.record.Amount,
		"date", s.record.Date,
		"merchant", s.record.Merchant,
	)
	return *s.record, nil
}

// State returns a snapshot of the session
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := State{
		Error:      s.errMsg,
		Processing: s.processing,
		CameraOpen: s.cameraOpen,
	}
	if s.record != nil {
		record := *s.record
		state.Record = &record
	}
	return state
}

// Close tears the session down, releasing the camera
func (s *Session) Close() error {
	s.CloseCamera()
	return nil
}

func (s *Session) setError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}
