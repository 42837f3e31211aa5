package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/zombor/finance-dashboard/internal/bill"
	"github.com/zombor/finance-dashboard/internal/scanning"
)

// maxFormSize caps uploads; high-resolution phone photos run large
const maxFormSize = int64(50 << 20)

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes a JSON error body
func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

// handleIndex serves the HTML interface
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleScanState returns what the scanner currently shows
func (s *Server) handleScanState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.State())
}

// handleUploadScan scans an uploaded bill image
func (s *Server) handleUploadScan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			errorMsg = "File is too large. Maximum size is 50MB. Please compress or resize your image."
		}
		writeError(w, http.StatusBadRequest, errorMsg)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if errors.Is(err, http.ErrMissingFile) {
			errorMsg = "No file was selected. Please choose an image file to scan."
		}
		writeError(w, http.StatusBadRequest, errorMsg)
		return
	}
	defer f.Close()

	if header.Size > maxFormSize {
		writeError(w, http.StatusBadRequest, "File is too large. Maximum size is 50MB. Please compress or resize your image.")
		return
	}

	contentType := detectContentType(header.Header.Get("Content-Type"), header.Filename)
	if !scanning.IsImageType(contentType) {
		writeError(w, http.StatusBadRequest, "Only image files can be scanned.")
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	// A scan runs to completion even if the client goes away
	ctx := context.WithoutCancel(r.Context())
	record, err := s.session.ScanFile(ctx, scanning.Source{
		Name:        header.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, bill.MessageProcessingFailed)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// detectContentType prefers the part's declared type and falls back to the
// file extension
func detectContentType(declared, filename string) string {
	contentType := strings.ToLower(strings.TrimSpace(declared))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// handleSaveScan logs the current record
func (s *Server) handleSaveScan(w http.ResponseWriter, r *http.Request) {
	record, err := s.session.Save()
	if err != nil {
		writeError(w, http.StatusNotFound, "Nothing has been scanned yet.")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleOpenCamera acquires the camera stream
func (s *Server) handleOpenCamera(w http.ResponseWriter, r *http.Request) {
	if err := s.session.OpenCamera(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, bill.MessageCameraFailed)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCloseCamera releases the camera stream
func (s *Server) handleCloseCamera(w http.ResponseWriter, r *http.Request) {
	s.session.CloseCamera()
	w.WriteHeader(http.StatusNoContent)
}

// handleCapture scans the current camera frame
func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	record, err := s.session.Capture(context.WithoutCancel(r.Context()))
	if errors.Is(err, bill.ErrCameraClosed) {
		writeError(w, http.StatusConflict, "Open the camera before capturing.")
		return
	}
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, bill.MessageCaptureFailed)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
