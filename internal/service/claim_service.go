package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cheq/internal/metrics"
	"cheq/internal/models"
	"cheq/internal/notify"
	"cheq/internal/storage"
)

var (
	// ErrGuestRequired rejects commits without a claimant label.
	ErrGuestRequired = errors.New("claims: guest label required")
	// ErrNoItems rejects commits with an empty selection.
	ErrNoItems = errors.New("claims: no item ids submitted")
	// ErrUnknownItem rejects commits naming ids the bill does not contain.
	// The whole commit is rejected before any write.
	ErrUnknownItem = errors.New("claims: unknown item id")
)

// CommitResult is the outcome of one claim commit. Claimed holds every id
// the guest now owns from this submission, including items they had already
// claimed earlier (re-submission is idempotent). Conflicts holds ids lost
// to other claimants; the caller must reload the authoritative bill and
// replace its local selection when Conflicts is non-empty.
type CommitResult struct {
	Claimed   []string `json:"claimed"`
	Conflicts []string `json:"conflicts"`
}

// ClaimCoordinator resolves proposed claim sets against the store with the
// at-most-one-claimant-per-item guarantee.
//
// Each item is claimed with an independent conditional write; there is no
// bill-wide lock and no cross-item atomicity. Guests claiming disjoint
// items never contend, and a guest may end up with a subset of their
// proposal if others won races on the rest. That partial outcome is the
// contract, not a failure: conflicted ids are reported, never silently
// dropped.
type ClaimCoordinator struct {
	store    storage.Store
	notifier *notify.Notifier
}

// NewClaimCoordinator creates a coordinator committing against store and
// announcing wins on notifier.
func NewClaimCoordinator(store storage.Store, notifier *notify.Notifier) *ClaimCoordinator {
	return &ClaimCoordinator{store: store, notifier: notifier}
}

// Commit attempts to claim every item in itemIDs for guest.
//
// Validation failures (blank guest, empty or unknown ids, unknown bill)
// reject the call before any write. After validation each id gets one
// conditional claim; a store failure mid-way returns an error, but wins
// already written stay written; the commit is idempotent, so the caller
// simply retries with the same selection.
func (c *ClaimCoordinator) Commit(ctx context.Context, billID string, itemIDs []string, guest string) (CommitResult, error) {
	if guest == "" {
		metrics.CommitRejections.Inc()
		return CommitResult{}, ErrGuestRequired
	}

	ids := dedupe(itemIDs)
	if len(ids) == 0 {
		metrics.CommitRejections.Inc()
		return CommitResult{}, ErrNoItems
	}

	// Validate the whole proposal against the bill before writing anything.
	// Items are never removed post-publish, so an id that resolves here
	// still resolves during the claims below.
	bill, err := c.store.GetBill(ctx, billID)
	if err != nil {
		return CommitResult{}, err
	}
	known := make(map[string]bool, len(bill.Items))
	for _, item := range bill.Items {
		known[item.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			metrics.CommitRejections.Inc()
			return CommitResult{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
		}
	}

	result := CommitResult{Claimed: []string{}, Conflicts: []string{}}
	for _, id := range ids {
		res, err := c.store.ClaimItem(ctx, billID, id, guest)
		if err != nil {
			// No rollback needed: every prior write was independently
			// atomic and resubmitting the same selection is safe.
			return CommitResult{}, fmt.Errorf("commit claim for %s: %w", id, err)
		}

		switch res.Outcome {
		case storage.ClaimWon:
			result.Claimed = append(result.Claimed, id)
			metrics.ClaimsWon.Inc()
			c.notifier.Publish(models.ClaimEvent{BillID: billID, ItemID: id, ClaimedBy: guest})
		case storage.ClaimAlreadyOwn:
			result.Claimed = append(result.Claimed, id)
		case storage.ClaimTaken:
			result.Conflicts = append(result.Conflicts, id)
			metrics.ClaimConflicts.Inc()
		}
	}

	slog.Info("Claims committed",
		"bill_id", billID,
		"guest", guest,
		"claimed", len(result.Claimed),
		"conflicts", len(result.Conflicts),
	)
	return result, nil
}

// dedupe keeps first occurrences, preserving submission order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
