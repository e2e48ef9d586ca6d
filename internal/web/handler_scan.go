package web

import (
	"bytes"
	"io"
	"net/http"

	"cheq/internal/vision"
)

const maxReceiptSize = 20 * 1024 * 1024 // 20 MB

// allowedImageTypes is the set of MIME types accepted for receipt photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing; WebP is detected separately because the stdlib sniffer has no
// WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

type scanResponse struct {
	Items []vision.ScannedItem `json:"items"`
}

// handleScanReceipt extracts line items from an uploaded receipt photo.
// The result is a suggestion for the host's draft, nothing is stored.
func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	if s.scanner == nil {
		s.writeError(w, http.StatusNotImplemented, "receipt scanning is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Error("close upload failed", "error", err)
		}
	}()

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("read upload failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	mimeType, ok := allowedImageMIME(imageData)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unsupported image format")
		return
	}

	result, err := s.scanner.Scan(r.Context(), bytes.NewReader(imageData), mimeType)
	if err != nil {
		s.logger.Error("receipt scan failed", "error", err)
		s.writeError(w, http.StatusBadGateway, "failed to scan receipt")
		return
	}

	s.writeJSON(w, http.StatusOK, scanResponse{Items: result.Items})
}
