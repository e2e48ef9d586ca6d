package vision

import (
	"context"
	"io"

	"github.com/shopspring/decimal"
)

// ScanPrompt is the shared prompt used by all receipt adapters.
const ScanPrompt = `List the items in this receipt as a JSON array of objects with keys 'name' (string) and 'price' (number). Exclude tax/tip. Fix abbreviations.`

// ReceiptScanner extracts purchasable line items from a receipt photo.
// Scanned items are untrusted suggestions; the host reviews and edits
// them before anything is published.
type ReceiptScanner interface {
	Scan(ctx context.Context, r io.Reader, mimeType string) (*ScanResult, error)
}

type ScanResult struct {
	Items       []ScannedItem
	RawResponse string
}

type ScannedItem struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
