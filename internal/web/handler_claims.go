package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"cheq/internal/service"
	"cheq/internal/storage"
)

type claimRequest struct {
	Guest   string   `json:"guest"`
	ItemIDs []string `json:"item_ids"`
}

// handleCommitClaims commits a guest's selection. Conflicts are not an
// error: the response is always 200 with the claimed and conflicted ids
// when the proposal itself was valid.
func (s *Server) handleCommitClaims(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.claims.Commit(r.Context(), r.PathValue("id"), req.ItemIDs, req.Guest)
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, result)
	case errors.Is(err, service.ErrGuestRequired),
		errors.Is(err, service.ErrNoItems),
		errors.Is(err, service.ErrUnknownItem):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrBillNotFound):
		s.writeError(w, http.StatusNotFound, "bill not found")
	default:
		s.logger.Error("commit failed", "bill_id", r.PathValue("id"), "guest", req.Guest, "error", err)
		s.writeError(w, http.StatusServiceUnavailable, "commit failed, retry with the same selection")
	}
}
