// Package ledger holds a bill while the host is still authoring it. A
// Ledger is an explicit session object owned by the host's request/view:
// created when the host starts a bill, discarded when they navigate away,
// and turned into an immutable published Bill exactly once.
package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cheq/internal/calculator"
	"cheq/internal/models"
)

var (
	// ErrItemNotFound is returned when an operation names an id the ledger
	// does not hold.
	ErrItemNotFound = errors.New("ledger: item not found")
	// ErrItemClaimed is returned when removing an item that already has a
	// claimant. Claims lock an item against deletion.
	ErrItemClaimed = errors.New("ledger: item is claimed")
	// ErrNegativePrice rejects items priced below zero.
	ErrNegativePrice = errors.New("ledger: price must not be negative")
	// ErrNegativeRate rejects tax/tip rates below zero.
	ErrNegativeRate = errors.New("ledger: rate must not be negative")
	// ErrEmptyName rejects items without a description.
	ErrEmptyName = errors.New("ledger: item name required")
)

// LineItem is raw {name, price} input, e.g. one entry of a scanned receipt.
type LineItem struct {
	Name  string
	Price decimal.Decimal
}

// Ledger is a mutable draft bill. It is not safe for concurrent use; a
// draft has exactly one writer, the host.
type Ledger struct {
	items       []models.Item
	taxRate     decimal.Decimal
	tipRate     decimal.Decimal
	taxOverride *decimal.Decimal
	tipOverride *decimal.Decimal
	venmo       string
	cashapp     string
	zelle       string
}

// New returns an empty draft with zero tax and tip rates.
func New() *Ledger {
	return &Ledger{}
}

// AddItem appends a new unclaimed item and returns it.
func (l *Ledger) AddItem(name string, price decimal.Decimal) (models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Item{}, ErrEmptyName
	}
	if price.IsNegative() {
		return models.Item{}, fmt.Errorf("%w: %s", ErrNegativePrice, price)
	}
	item := models.Item{
		ID:    uuid.New().String(),
		Name:  name,
		Price: price,
	}
	l.items = append(l.items, item)
	return item, nil
}

// Import appends one item per scanned line. An empty scan is fine; the
// draft simply stays as it was.
func (l *Ledger) Import(lines []LineItem) error {
	for _, line := range lines {
		if _, err := l.AddItem(line.Name, line.Price); err != nil {
			return err
		}
	}
	return nil
}

// RemoveItem deletes an unclaimed item from the draft.
func (l *Ledger) RemoveItem(id string) error {
	idx, err := l.indexOf(id)
	if err != nil {
		return err
	}
	if l.items[idx].Claimed() {
		return fmt.Errorf("%w: %s claimed by %s", ErrItemClaimed, id, l.items[idx].ClaimedBy)
	}
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	return nil
}

// SplitItem replaces one item with ways equal-priced pieces at the item's
// original position, so the rest of the list keeps its order.
func (l *Ledger) SplitItem(id string, ways int) error {
	idx, err := l.indexOf(id)
	if err != nil {
		return err
	}

	pieces, err := calculator.Split(l.items[idx], ways)
	if err != nil {
		return err
	}

	replaced := make([]models.Item, 0, len(l.items)+ways-1)
	replaced = append(replaced, l.items[:idx]...)
	replaced = append(replaced, pieces...)
	replaced = append(replaced, l.items[idx+1:]...)
	l.items = replaced
	return nil
}

// SetTaxRate sets the fractional tax rate (0.08 = 8%).
func (l *Ledger) SetTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fmt.Errorf("%w: tax %s", ErrNegativeRate, rate)
	}
	l.taxRate = rate
	return nil
}

// SetTipRate sets the fractional tip rate (0.20 = 20%).
func (l *Ledger) SetTipRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fmt.Errorf("%w: tip %s", ErrNegativeRate, rate)
	}
	l.tipRate = rate
	return nil
}

// SetOverrides records absolute tax/tip dollar amounts, typically read off
// a scanned receipt. Passing nil clears the corresponding override, which
// reverts that amount to its rate-derived value.
func (l *Ledger) SetOverrides(tax, tip *decimal.Decimal) {
	l.taxOverride = cloneAmount(tax)
	l.tipOverride = cloneAmount(tip)
}

// SetHandles records the host's payment handles.
func (l *Ledger) SetHandles(venmo, cashapp, zelle string) {
	l.venmo = venmo
	l.cashapp = cashapp
	l.zelle = zelle
}

// ClaimForHost marks the given items as kept by the host. Unlike guest
// claims this happens before publish, so plain assignment is safe: the
// draft has a single writer.
func (l *Ledger) ClaimForHost(ids ...string) error {
	for _, id := range ids {
		idx, err := l.indexOf(id)
		if err != nil {
			return err
		}
		l.items[idx].ClaimedBy = models.HostLabel
	}
	return nil
}

// Items returns a copy of the draft's items in display order.
func (l *Ledger) Items() []models.Item {
	out := make([]models.Item, len(l.items))
	copy(out, l.items)
	return out
}

// Settlement previews the snapshot for the given item ids under the
// draft's current policy. Unknown ids are ignored; this is a preview, not
// a commit.
func (l *Ledger) Settlement(ids ...string) calculator.Snapshot {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var subset []models.Item
	for _, item := range l.items {
		if want[item.ID] {
			subset = append(subset, item)
		}
	}
	return calculator.Settle(subset, l.policy())
}

// Bill materialises the draft as a publishable bill. The store assigns the
// bill id and stamps item ownership; after that the draft should be
// discarded.
func (l *Ledger) Bill() *models.Bill {
	return &models.Bill{
		Items:       l.Items(),
		TaxRate:     l.taxRate,
		TipRate:     l.tipRate,
		TaxOverride: cloneAmount(l.taxOverride),
		TipOverride: cloneAmount(l.tipOverride),
		HostVenmo:   l.venmo,
		HostCashApp: l.cashapp,
		HostZelle:   l.zelle,
	}
}

func (l *Ledger) policy() calculator.Policy {
	return calculator.Policy{
		TaxRate:     l.taxRate,
		TipRate:     l.tipRate,
		TaxOverride: l.taxOverride,
		TipOverride: l.tipOverride,
	}
}

func (l *Ledger) indexOf(id string) (int, error) {
	for i := range l.items {
		if l.items[i].ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

func cloneAmount(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
