package web

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"

	"cheq/internal/storage"
)

// nopWriteCloser adapts a buffer to the QR writer's io.WriteCloser.
type nopWriteCloser struct {
	*bytes.Buffer
}

func (nopWriteCloser) Close() error { return nil }

// JoinURL is the shareable guest URL for a bill.
func (s *Server) JoinURL(billID string) string {
	return s.publicBaseURL + "/join/" + billID
}

// handleShareQR renders the guest join URL as a PNG QR code for the
// host's share screen.
func (s *Server) handleShareQR(w http.ResponseWriter, r *http.Request) {
	billID := r.PathValue("id")
	if _, err := s.bills.Load(r.Context(), billID); err != nil {
		if errors.Is(err, storage.ErrBillNotFound) {
			s.writeError(w, http.StatusNotFound, "bill not found")
			return
		}
		s.logger.Error("load bill for qr failed", "bill_id", billID, "error", err)
		s.writeError(w, http.StatusServiceUnavailable, "failed to load bill")
		return
	}

	qrc, err := qrcode.New(s.JoinURL(billID))
	if err != nil {
		s.logger.Error("build qr failed", "bill_id", billID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to build QR code")
		return
	}

	var buf bytes.Buffer
	writer := standard.NewWithWriter(nopWriteCloser{&buf}, standard.WithBuiltinImageEncoder(standard.PNG_FORMAT))
	if err := qrc.Save(writer); err != nil {
		s.logger.Error("render qr failed", "bill_id", billID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Error("write qr failed", "bill_id", billID, "error", err)
	}
}
