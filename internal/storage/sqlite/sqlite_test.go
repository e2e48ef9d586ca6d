package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"cheq/internal/models"
	"cheq/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testBill() *models.Bill {
	taxOverride := dec("4.00")
	return &models.Bill{
		TaxRate:     dec("0.08"),
		TipRate:     dec("0.20"),
		TaxOverride: &taxOverride,
		HostVenmo:   "@casey",
		HostZelle:   "555-0100",
		Items: []models.Item{
			{Name: "Pad Thai", Price: dec("14.50")},
			{Name: "Spring Rolls", Price: dec("6.00"), ClaimedBy: models.HostLabel},
			{Name: "Thai Iced Tea", Price: dec("4.75")},
		},
	}
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateBill generates ids", func(t *testing.T) {
		bill := testBill()
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		if bill.ID == "" {
			t.Error("Expected bill ID to be generated")
		}
		if bill.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
		for _, item := range bill.Items {
			if item.ID == "" {
				t.Errorf("Expected item %q to get an ID", item.Name)
			}
			if item.BillID != bill.ID {
				t.Errorf("Item %q bill id = %q, want %q", item.Name, item.BillID, bill.ID)
			}
		}
	})

	t.Run("GetBill round-trips exactly", func(t *testing.T) {
		original := testBill()
		if err := store.CreateBill(ctx, original); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		got, err := store.GetBill(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}

		if !got.TaxRate.Equal(original.TaxRate) || !got.TipRate.Equal(original.TipRate) {
			t.Errorf("rates = %s/%s, want %s/%s", got.TaxRate, got.TipRate, original.TaxRate, original.TipRate)
		}
		if got.TaxOverride == nil || !got.TaxOverride.Equal(*original.TaxOverride) {
			t.Errorf("tax override = %v, want %s", got.TaxOverride, original.TaxOverride)
		}
		if got.TipOverride != nil {
			t.Errorf("tip override = %v, want nil", got.TipOverride)
		}
		if got.HostVenmo != "@casey" || got.HostZelle != "555-0100" || got.HostCashApp != "" {
			t.Errorf("handles = %q/%q/%q", got.HostVenmo, got.HostCashApp, got.HostZelle)
		}

		if len(got.Items) != len(original.Items) {
			t.Fatalf("items = %d, want %d", len(got.Items), len(original.Items))
		}
		for i, item := range got.Items {
			want := original.Items[i]
			if item.Name != want.Name {
				t.Errorf("items[%d] order broken: %q, want %q", i, item.Name, want.Name)
			}
			if !item.Price.Equal(want.Price) {
				t.Errorf("items[%d] price = %s, want %s", i, item.Price, want.Price)
			}
			if item.ClaimedBy != want.ClaimedBy {
				t.Errorf("items[%d] claimed_by = %q, want %q", i, item.ClaimedBy, want.ClaimedBy)
			}
		}
	})

	t.Run("GetBill unknown id", func(t *testing.T) {
		_, err := store.GetBill(ctx, "no-such-bill")
		if !errors.Is(err, storage.ErrBillNotFound) {
			t.Errorf("error = %v, want ErrBillNotFound", err)
		}
	})
}

func TestClaimItem(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bill := testBill()
	if err := store.CreateBill(ctx, bill); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	open := bill.Items[0]
	hostOwned := bill.Items[1]

	t.Run("first claim wins", func(t *testing.T) {
		res, err := store.ClaimItem(ctx, bill.ID, open.ID, "Mike")
		if err != nil {
			t.Fatalf("ClaimItem failed: %v", err)
		}
		if res.Outcome != storage.ClaimWon || res.ClaimedBy != "Mike" {
			t.Errorf("result = %+v, want win by Mike", res)
		}
	})

	t.Run("re-claim by the same guest is a no-op success", func(t *testing.T) {
		res, err := store.ClaimItem(ctx, bill.ID, open.ID, "Mike")
		if err != nil {
			t.Fatalf("ClaimItem failed: %v", err)
		}
		if res.Outcome != storage.ClaimAlreadyOwn {
			t.Errorf("outcome = %v, want ClaimAlreadyOwn", res.Outcome)
		}
	})

	t.Run("loser observes the winner", func(t *testing.T) {
		res, err := store.ClaimItem(ctx, bill.ID, open.ID, "Dana")
		if err != nil {
			t.Fatalf("ClaimItem failed: %v", err)
		}
		if res.Outcome != storage.ClaimTaken || res.ClaimedBy != "Mike" {
			t.Errorf("result = %+v, want taken by Mike", res)
		}
	})

	t.Run("host self-claims block guests", func(t *testing.T) {
		res, err := store.ClaimItem(ctx, bill.ID, hostOwned.ID, "Dana")
		if err != nil {
			t.Fatalf("ClaimItem failed: %v", err)
		}
		if res.Outcome != storage.ClaimTaken || res.ClaimedBy != models.HostLabel {
			t.Errorf("result = %+v, want taken by HOST", res)
		}
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := store.ClaimItem(ctx, bill.ID, "no-such-item", "Dana")
		if !errors.Is(err, storage.ErrItemNotFound) {
			t.Errorf("error = %v, want ErrItemNotFound", err)
		}
	})

	t.Run("item from another bill is not claimable through this one", func(t *testing.T) {
		other := testBill()
		if err := store.CreateBill(ctx, other); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		_, err := store.ClaimItem(ctx, bill.ID, other.Items[0].ID, "Dana")
		if !errors.Is(err, storage.ErrItemNotFound) {
			t.Errorf("error = %v, want ErrItemNotFound", err)
		}
	})
}

// TestClaimItemConcurrent hammers a single item from many goroutines and
// checks that exactly one attempt wins.
func TestClaimItemConcurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bill := &models.Bill{
		TaxRate: dec("0"), TipRate: dec("0"),
		Items: []models.Item{{Name: "Contested", Price: dec("9.99")}},
	}
	if err := store.CreateBill(ctx, bill); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	itemID := bill.Items[0].ID

	const guests = 16
	results := make([]storage.ClaimResult, guests)

	var g errgroup.Group
	for i := 0; i < guests; i++ {
		g.Go(func() error {
			res, err := store.ClaimItem(ctx, bill.ID, itemID, guestLabel(i))
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent claims failed: %v", err)
	}

	var winner string
	wins := 0
	for i, res := range results {
		switch res.Outcome {
		case storage.ClaimWon:
			wins++
			winner = guestLabel(i)
		case storage.ClaimTaken:
			// every loser must already see a winner label
			if res.ClaimedBy == "" {
				t.Errorf("guest %d lost but observed no winner", i)
			}
		default:
			t.Errorf("guest %d got unexpected outcome %v", i, res.Outcome)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}

	got, err := store.GetBill(ctx, bill.ID)
	if err != nil {
		t.Fatalf("GetBill failed: %v", err)
	}
	if got.Items[0].ClaimedBy != winner {
		t.Errorf("stored claimant = %q, winner was %q", got.Items[0].ClaimedBy, winner)
	}
}

func guestLabel(i int) string {
	return string(rune('A'+i)) + "-guest"
}
