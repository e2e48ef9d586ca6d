package service

import (
	"context"
	"fmt"
	"log/slog"

	"cheq/internal/ledger"
	"cheq/internal/metrics"
	"cheq/internal/models"
	"cheq/internal/storage"
)

// BillService publishes drafts and loads authoritative bills.
type BillService struct {
	store storage.Store
}

// NewBillService creates a BillService with the given storage backend.
func NewBillService(store storage.Store) *BillService {
	return &BillService{store: store}
}

// Publish freezes the draft into a stored bill and returns the shareable
// id. From this point item identity and prices are immutable; only claims
// change. The draft should be discarded afterwards.
func (s *BillService) Publish(ctx context.Context, draft *ledger.Ledger) (string, error) {
	bill := draft.Bill()
	if err := s.store.CreateBill(ctx, bill); err != nil {
		return "", fmt.Errorf("publish bill: %w", err)
	}

	metrics.BillsPublished.Inc()
	slog.Info("Bill published",
		"bill_id", bill.ID,
		"items", len(bill.Items),
		"tax_rate", bill.TaxRate,
		"tip_rate", bill.TipRate,
	)
	return bill.ID, nil
}

// Load returns the authoritative bill for the given id. Callers showing a
// guest view must replace any local selection state with this result after
// a commit reports conflicts; authoritative state is never merged with
// stale local state.
func (s *BillService) Load(ctx context.Context, billID string) (*models.Bill, error) {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	return bill, nil
}
