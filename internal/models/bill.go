package models

import "github.com/shopspring/decimal"

// HostLabel is the reserved claimant label for items the host keeps.
const HostLabel = "HOST"

// Bill represents a published bill. Item identity and prices are frozen at
// publish time; only each item's ClaimedBy may change afterwards.
type Bill struct {
	// ID is the shareable identifier for the bill (UUID format).
	ID string `json:"id"`

	// Items are the claimable line items, in display order. Order is
	// presentation-relevant only; none of the math depends on it.
	Items []Item `json:"items"`

	// TaxRate and TipRate are fractions of the subtotal (0.08 = 8%).
	TaxRate decimal.Decimal `json:"tax_rate"`
	TipRate decimal.Decimal `json:"tip_rate"`

	// TaxOverride and TipOverride are absolute dollar amounts, usually read
	// off a scanned receipt. When set they take precedence over the
	// rate-derived amounts until explicitly cleared, even if the relevant
	// subtotal changes.
	TaxOverride *decimal.Decimal `json:"tax_override,omitempty"`
	TipOverride *decimal.Decimal `json:"tip_override,omitempty"`

	// Payment handles for the host. All optional; Zelle is display-only.
	HostVenmo   string `json:"host_venmo,omitempty"`
	HostCashApp string `json:"host_cashapp,omitempty"`
	HostZelle   string `json:"host_zelle,omitempty"`

	// CreatedAt is the Unix timestamp when the bill was published.
	CreatedAt int64 `json:"created_at"`
}

// Item represents a single claimable line item.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// BillID is the bill this item belongs to.
	BillID string `json:"bill_id,omitempty"`

	// Name is the item description as entered or scanned ("Pad Thai").
	Name string `json:"name"`

	// Price is the item's cost in decimal currency units, never negative.
	Price decimal.Decimal `json:"price"`

	// ClaimedBy is the display name of the party paying for this item, or
	// empty while the item is unclaimed. At most one claimant ever holds an
	// item; the transition is made exclusively through the store's
	// conditional claim.
	ClaimedBy string `json:"claimed_by,omitempty"`
}

// Claimed reports whether the item has a claimant.
func (i Item) Claimed() bool {
	return i.ClaimedBy != ""
}

// ClaimEvent is the change-feed payload for one committed claim transition.
// Applying an event is idempotent: setting ClaimedBy to the announced value
// is safe even if the subscriber already saw it.
type ClaimEvent struct {
	BillID    string `json:"bill_id"`
	ItemID    string `json:"item_id"`
	ClaimedBy string `json:"claimed_by"`
}
