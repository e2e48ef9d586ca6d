// Package calculator holds the pure bill math: settlement snapshots and the
// equal-way item split. Nothing in here touches storage or the network.
package calculator

import (
	"github.com/shopspring/decimal"

	"cheq/internal/models"
)

// Policy is the tax/tip policy a snapshot is computed under. Overrides are
// absolute dollar amounts; when non-nil they win over the rate-derived
// amount regardless of the subtotal.
type Policy struct {
	TaxRate     decimal.Decimal
	TipRate     decimal.Decimal
	TaxOverride *decimal.Decimal
	TipOverride *decimal.Decimal
}

// PolicyFor extracts the bill's policy.
func PolicyFor(bill *models.Bill) Policy {
	return Policy{
		TaxRate:     bill.TaxRate,
		TipRate:     bill.TipRate,
		TaxOverride: bill.TaxOverride,
		TipOverride: bill.TipOverride,
	}
}

// Snapshot is a derived settlement for one subset of items. Total is always
// exactly Subtotal + Tax + Tip; values carry full precision and are rounded
// only by the Display helpers.
type Snapshot struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Tip      decimal.Decimal `json:"tip"`
	Total    decimal.Decimal `json:"total"`
}

// Settle computes the settlement snapshot for the given item subset.
// The empty subset yields the all-zero snapshot. There are no error
// conditions: every combination of items and policy has a defined result.
func Settle(items []models.Item, p Policy) Snapshot {
	subtotal := decimal.Zero
	// Summed in slice order so repeated computation over the same input is
	// bit-identical.
	for _, item := range items {
		subtotal = subtotal.Add(item.Price)
	}

	tax := subtotal.Mul(p.TaxRate)
	if p.TaxOverride != nil {
		tax = *p.TaxOverride
	}
	tip := subtotal.Mul(p.TipRate)
	if p.TipOverride != nil {
		tip = *p.TipOverride
	}

	return Snapshot{
		Subtotal: subtotal,
		Tax:      tax,
		Tip:      tip,
		Total:    subtotal.Add(tax).Add(tip),
	}
}

// SettleFor computes the snapshot for the items on the bill claimed by the
// given label, under the bill's own policy.
func SettleFor(bill *models.Bill, claimant string) Snapshot {
	var mine []models.Item
	for _, item := range bill.Items {
		if item.ClaimedBy == claimant {
			mine = append(mine, item)
		}
	}
	return Settle(mine, PolicyFor(bill))
}

// DisplayTotal renders the total rounded to two decimal places, the only
// place rounding is allowed to happen.
func (s Snapshot) DisplayTotal() string {
	return s.Total.StringFixed(2)
}

// Display renders all four figures at two decimal places.
func (s Snapshot) Display() (subtotal, tax, tip, total string) {
	return s.Subtotal.StringFixed(2), s.Tax.StringFixed(2), s.Tip.StringFixed(2), s.Total.StringFixed(2)
}
