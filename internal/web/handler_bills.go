package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"cheq/internal/ledger"
	"cheq/internal/models"
	"cheq/internal/storage"
)

type publishItem struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	// ClaimedBy may only be empty or the host label; guests claim after
	// publish, never through this endpoint.
	ClaimedBy string `json:"claimed_by"`
}

type publishRequest struct {
	Items       []publishItem    `json:"items"`
	TaxRate     decimal.Decimal  `json:"tax_rate"`
	TipRate     decimal.Decimal  `json:"tip_rate"`
	TaxOverride *decimal.Decimal `json:"tax_override"`
	TipOverride *decimal.Decimal `json:"tip_override"`
	HostVenmo   string           `json:"host_venmo"`
	HostCashApp string           `json:"host_cashapp"`
	HostZelle   string           `json:"host_zelle"`
}

type publishResponse struct {
	BillID string `json:"bill_id"`
}

func (s *Server) handlePublishBill(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Items) == 0 {
		s.writeError(w, http.StatusBadRequest, "at least one item is required")
		return
	}

	draft := ledger.New()
	var hostItems []string
	for _, it := range req.Items {
		switch it.ClaimedBy {
		case "", models.HostLabel:
		default:
			s.writeError(w, http.StatusBadRequest, "claimed_by must be empty or "+models.HostLabel)
			return
		}
		item, err := draft.AddItem(it.Name, it.Price)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if it.ClaimedBy == models.HostLabel {
			hostItems = append(hostItems, item.ID)
		}
	}
	if err := draft.SetTaxRate(req.TaxRate); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := draft.SetTipRate(req.TipRate); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	draft.SetOverrides(req.TaxOverride, req.TipOverride)
	draft.SetHandles(req.HostVenmo, req.HostCashApp, req.HostZelle)
	if err := draft.ClaimForHost(hostItems...); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	billID, err := s.bills.Publish(r.Context(), draft)
	if err != nil {
		s.logger.Error("publish failed", "error", err)
		s.writeError(w, http.StatusServiceUnavailable, "failed to publish bill")
		return
	}

	s.writeJSON(w, http.StatusCreated, publishResponse{BillID: billID})
}

func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	bill, err := s.bills.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrBillNotFound) {
			s.writeError(w, http.StatusNotFound, "bill not found")
			return
		}
		s.logger.Error("load bill failed", "bill_id", r.PathValue("id"), "error", err)
		s.writeError(w, http.StatusServiceUnavailable, "failed to load bill")
		return
	}
	s.writeJSON(w, http.StatusOK, bill)
}
