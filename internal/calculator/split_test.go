package calculator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"cheq/internal/models"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		item      models.Item
		ways      int
		wantErr   error
		wantPrice string // displayed per-piece price
	}{
		{
			name:      "thirty dollars three ways",
			item:      models.Item{ID: "i1", BillID: "b1", Name: "Sushi Boat", Price: dec("30")},
			ways:      3,
			wantPrice: "10.00",
		},
		{
			name:      "uneven division",
			item:      models.Item{ID: "i2", Name: "Pitcher", Price: dec("10")},
			ways:      3,
			wantPrice: "3.33",
		},
		{
			name:    "one way rejected",
			item:    models.Item{ID: "i3", Name: "Fries", Price: dec("4")},
			ways:    1,
			wantErr: ErrTooFewWays,
		},
		{
			name:    "zero ways rejected",
			item:    models.Item{ID: "i4", Name: "Fries", Price: dec("4")},
			ways:    0,
			wantErr: ErrTooFewWays,
		},
		{
			name:    "claimed item rejected",
			item:    models.Item{ID: "i5", Name: "Wine", Price: dec("28"), ClaimedBy: "Dana"},
			ways:    2,
			wantErr: ErrSplitClaimed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pieces, err := Split(tt.item, tt.ways)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Split() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Split() unexpected error: %v", err)
			}

			if len(pieces) != tt.ways {
				t.Fatalf("got %d pieces, want %d", len(pieces), tt.ways)
			}

			seen := make(map[string]bool)
			wantName := fmt.Sprintf("1/%d %s", tt.ways, tt.item.Name)
			for _, p := range pieces {
				if p.Name != wantName {
					t.Errorf("piece name = %q, want %q", p.Name, wantName)
				}
				if p.Claimed() {
					t.Errorf("piece %s should be unclaimed", p.ID)
				}
				if p.BillID != tt.item.BillID {
					t.Errorf("piece bill id = %q, want %q", p.BillID, tt.item.BillID)
				}
				if p.ID == "" || p.ID == tt.item.ID || seen[p.ID] {
					t.Errorf("piece id %q is not a fresh identity", p.ID)
				}
				seen[p.ID] = true
				if got := p.Price.StringFixed(2); got != tt.wantPrice {
					t.Errorf("piece price = %s, want %s", got, tt.wantPrice)
				}
			}
		})
	}
}

func TestSplitTotalPreserved(t *testing.T) {
	// Re-summed pieces must match the original at display precision, and any
	// residual must sit far below a cent so repeated splits never drift into
	// the displayed value.
	epsilon := dec("0.0000000001")

	for _, price := range []string{"30", "10", "0.01", "99.99", "7.77"} {
		for ways := 2; ways <= 7; ways++ {
			item := models.Item{ID: "x", Name: "n", Price: dec(price)}
			pieces, err := Split(item, ways)
			if err != nil {
				t.Fatalf("Split(%s, %d): %v", price, ways, err)
			}

			sum := decimal.Zero
			for _, p := range pieces {
				sum = sum.Add(p.Price)
			}
			if sum.Sub(item.Price).Abs().GreaterThan(epsilon) {
				t.Errorf("Split(%s, %d): pieces sum to %s", price, ways, sum)
			}
			if sum.StringFixed(2) != item.Price.StringFixed(2) {
				t.Errorf("Split(%s, %d): displayed sum %s != %s", price, ways, sum.StringFixed(2), item.Price.StringFixed(2))
			}
		}
	}
}
