// Package storage provides abstractions for persistent bill storage.
package storage

import (
	"context"
	"errors"

	"cheq/internal/models"
)

var (
	// ErrBillNotFound is returned when a bill id does not resolve.
	ErrBillNotFound = errors.New("storage: bill not found")
	// ErrItemNotFound is returned when an item id does not resolve within
	// its bill.
	ErrItemNotFound = errors.New("storage: item not found")
)

// ClaimOutcome is the result of one conditional claim attempt.
type ClaimOutcome int

const (
	// ClaimWon: the item was unclaimed and now belongs to the claimant.
	ClaimWon ClaimOutcome = iota
	// ClaimAlreadyOwn: the claimant had already won this item earlier;
	// re-claiming is a no-op success.
	ClaimAlreadyOwn
	// ClaimTaken: another party holds the item; ClaimResult.ClaimedBy
	// carries the winner's label.
	ClaimTaken
)

// ClaimResult reports the outcome of a conditional claim and, for
// ClaimTaken, who holds the item.
type ClaimResult struct {
	Outcome   ClaimOutcome
	ClaimedBy string
}

// Store defines the interface for bill storage operations. The abstraction
// allows swapping backends without changing the service layer. Post-publish
// the only mutator is ClaimItem; item names and prices are frozen.
type Store interface {
	// CreateBill persists a published bill with all its items. The bill and
	// item ID fields are populated by the store when empty.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill with its items in display order.
	// Returns ErrBillNotFound if the id does not resolve.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ClaimItem atomically sets the item's claimant if and only if the item
	// is currently unclaimed. The write is linearizable: of any set of
	// concurrent attempts on one item exactly one observes ClaimWon, and
	// every loser observes the winner's label. Returns ErrItemNotFound when
	// the item does not belong to the bill.
	ClaimItem(ctx context.Context, billID, itemID, claimant string) (ClaimResult, error)

	// Close releases any resources held by the store.
	Close() error
}
