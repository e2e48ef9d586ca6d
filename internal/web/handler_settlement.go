package web

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"cheq/internal/calculator"
	"cheq/internal/models"
	"cheq/internal/storage"
	"cheq/pkg/paylink"
)

type settlementResponse struct {
	Guest    string   `json:"guest"`
	Items    []string `json:"items"`
	Subtotal string   `json:"subtotal"`
	Tax      string   `json:"tax"`
	Tip      string   `json:"tip"`
	Total    string   `json:"total"`
	Venmo    string   `json:"venmo_link,omitempty"`
	CashApp  string   `json:"cashapp_link,omitempty"`
	Zelle    string   `json:"zelle,omitempty"`
	CopyText string   `json:"copy_text"`
}

// handleSettlement computes what one claimant owes. Optional tax= and
// tip= query params are absolute overrides scoped to this request; they
// do not touch the stored bill.
func (s *Server) handleSettlement(w http.ResponseWriter, r *http.Request) {
	guest := r.URL.Query().Get("guest")
	if guest == "" {
		s.writeError(w, http.StatusBadRequest, "guest query parameter is required")
		return
	}

	bill, err := s.bills.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrBillNotFound) {
			s.writeError(w, http.StatusNotFound, "bill not found")
			return
		}
		s.logger.Error("load bill for settlement failed", "bill_id", r.PathValue("id"), "error", err)
		s.writeError(w, http.StatusServiceUnavailable, "failed to load bill")
		return
	}

	policy := calculator.PolicyFor(bill)
	for _, q := range []struct {
		param string
		dst   **decimal.Decimal
	}{
		{"tax", &policy.TaxOverride},
		{"tip", &policy.TipOverride},
	} {
		raw := r.URL.Query().Get(q.param)
		if raw == "" {
			continue
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil || amount.IsNegative() {
			s.writeError(w, http.StatusBadRequest, "invalid "+q.param+" override")
			return
		}
		*q.dst = &amount
	}

	var claimed []models.Item
	var names []string
	for _, item := range bill.Items {
		if item.ClaimedBy == guest {
			claimed = append(claimed, item)
			names = append(names, item.Name)
		}
	}

	snapshot := calculator.Settle(claimed, policy)
	subtotal, tax, tip, total := snapshot.Display()

	resp := settlementResponse{
		Guest:    guest,
		Items:    names,
		Subtotal: subtotal,
		Tax:      tax,
		Tip:      tip,
		Total:    total,
		Zelle:    bill.HostZelle,
		CopyText: paylink.CopyText(snapshot.Total, names),
	}
	if bill.HostVenmo != "" {
		resp.Venmo = paylink.VenmoLink(bill.HostVenmo, snapshot.Total, len(names))
	}
	if bill.HostCashApp != "" {
		resp.CashApp = paylink.CashAppLink(bill.HostCashApp, snapshot.Total)
	}

	s.writeJSON(w, http.StatusOK, resp)
}
