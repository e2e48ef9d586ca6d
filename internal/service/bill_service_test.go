package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"cheq/internal/ledger"
	"cheq/internal/models"
	"cheq/internal/storage"
	"cheq/internal/storage/sqlite"
)

func TestPublishAndLoad(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()
	bills := NewBillService(store)

	draft := ledger.New()
	if _, err := draft.AddItem("Burger", dec("12.50")); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	fries, err := draft.AddItem("Fries", dec("4.25"))
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := draft.SetTaxRate(dec("0.08")); err != nil {
		t.Fatalf("SetTaxRate: %v", err)
	}
	draft.SetHandles("host-venmo", "hostcash", "host@example.com")
	if err := draft.ClaimForHost(fries.ID); err != nil {
		t.Fatalf("ClaimForHost: %v", err)
	}

	billID, err := bills.Publish(context.Background(), draft)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if billID == "" {
		t.Fatal("Publish returned empty bill id")
	}

	bill, err := bills.Load(context.Background(), billID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(bill.Items) != 2 {
		t.Fatalf("loaded %d items, want 2", len(bill.Items))
	}
	if bill.Items[0].Name != "Burger" || bill.Items[1].Name != "Fries" {
		t.Errorf("item order not preserved: %q, %q", bill.Items[0].Name, bill.Items[1].Name)
	}
	if !bill.Items[0].Price.Equal(dec("12.50")) {
		t.Errorf("price = %s, want 12.50", bill.Items[0].Price)
	}
	if bill.Items[1].ClaimedBy != models.HostLabel {
		t.Errorf("host claim not carried through publish: %q", bill.Items[1].ClaimedBy)
	}
	if bill.HostVenmo != "host-venmo" {
		t.Errorf("HostVenmo = %q", bill.HostVenmo)
	}
}

func TestLoadUnknownBill(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()
	bills := NewBillService(store)

	_, err = bills.Load(context.Background(), "missing")
	if !errors.Is(err, storage.ErrBillNotFound) {
		t.Errorf("error = %v, want %v", err, storage.ErrBillNotFound)
	}
}
