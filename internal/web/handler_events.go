package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cheq/internal/storage"
)

// keepaliveInterval paces SSE comment lines so idle proxies do not cut
// the stream.
const keepaliveInterval = 30 * time.Second

// handleEvents streams claim events for one bill as SSE. Each event is a
// data line with the claim JSON. When the subscriber falls behind the
// notifier closes it; the stream then emits a "reset" event telling the
// client to reload the bill and resubscribe.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	billID := r.PathValue("id")
	if _, err := s.bills.Load(r.Context(), billID); err != nil {
		if errors.Is(err, storage.ErrBillNotFound) {
			s.writeError(w, http.StatusNotFound, "bill not found")
			return
		}
		s.logger.Error("load bill for events failed", "bill_id", billID, "error", err)
		s.writeError(w, http.StatusServiceUnavailable, "failed to load bill")
		return
	}

	events, cancel := s.notifier.Subscribe(billID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)
	if canFlush {
		flusher.Flush()
	}

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepalive.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				// Dropped for falling behind; the client reloads to
				// converge, then reconnects.
				_, _ = w.Write([]byte("event: reset\ndata: {}\n\n"))
				if canFlush {
					flusher.Flush()
				}
				return
			}
			if _, err := w.Write([]byte("data: ")); err != nil {
				return
			}
			if err := enc.Encode(ev); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n")); err != nil {
				return
			}
		}
		if canFlush {
			flusher.Flush()
		}
	}
}
