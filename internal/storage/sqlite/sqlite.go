// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"cheq/internal/models"
	"cheq/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path. It creates
// the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer. Bounding the pool to one connection
	// serializes the conditional claims at the driver instead of surfacing
	// SQLITE_BUSY to concurrent committers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateBill persists a published bill and its items in one transaction.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bills (id, tax_rate, tip_rate, tax_override, tip_override,
			host_venmo, host_cashapp, host_zelle, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID,
		bill.TaxRate.String(),
		bill.TipRate.String(),
		decimalOrNull(bill.TaxOverride),
		decimalOrNull(bill.TipOverride),
		bill.HostVenmo, bill.HostCashApp, bill.HostZelle,
		bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for i := range bill.Items {
		item := &bill.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.BillID = bill.ID

		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (id, bill_id, position, name, price, claimed_by) VALUES (?, ?, ?, ?, ?, ?)",
			item.ID, bill.ID, i, item.Name, item.Price.String(), claimantOrNull(item.ClaimedBy),
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBill retrieves a bill by ID, including items in display order.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill := &models.Bill{}
	var (
		taxRate, tipRate         string
		taxOverride, tipOverride sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, tax_rate, tip_rate, tax_override, tip_override,
			host_venmo, host_cashapp, host_zelle, created_at
		 FROM bills WHERE id = ?`,
		billID,
	).Scan(&bill.ID, &taxRate, &tipRate, &taxOverride, &tipOverride,
		&bill.HostVenmo, &bill.HostCashApp, &bill.HostZelle, &bill.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrBillNotFound, billID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	if bill.TaxRate, err = decimal.NewFromString(taxRate); err != nil {
		return nil, fmt.Errorf("failed to parse tax rate: %w", err)
	}
	if bill.TipRate, err = decimal.NewFromString(tipRate); err != nil {
		return nil, fmt.Errorf("failed to parse tip rate: %w", err)
	}
	if bill.TaxOverride, err = parseNullDecimal(taxOverride); err != nil {
		return nil, fmt.Errorf("failed to parse tax override: %w", err)
	}
	if bill.TipOverride, err = parseNullDecimal(tipOverride); err != nil {
		return nil, fmt.Errorf("failed to parse tip override: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, price, claimed_by FROM items WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item      models.Item
			price     string
			claimedBy sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Name, &price, &claimedBy); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("failed to parse item price: %w", err)
		}
		item.BillID = bill.ID
		item.ClaimedBy = claimedBy.String
		bill.Items = append(bill.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return bill, nil
}

// ClaimItem performs the per-item conditional claim: the UPDATE only
// matches while claimed_by is NULL, so of any set of concurrent attempts
// exactly one affects a row. Losers read back the winner's label in a
// follow-up query; by then the winner's write is already visible.
func (s *SQLiteStore) ClaimItem(ctx context.Context, billID, itemID, claimant string) (storage.ClaimResult, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE items SET claimed_by = ? WHERE id = ? AND bill_id = ? AND claimed_by IS NULL",
		claimant, itemID, billID,
	)
	if err != nil {
		return storage.ClaimResult{}, fmt.Errorf("failed to claim item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storage.ClaimResult{}, fmt.Errorf("failed to read claim result: %w", err)
	}
	if affected == 1 {
		return storage.ClaimResult{Outcome: storage.ClaimWon, ClaimedBy: claimant}, nil
	}

	var current sql.NullString
	err = s.db.QueryRowContext(ctx,
		"SELECT claimed_by FROM items WHERE id = ? AND bill_id = ?",
		itemID, billID,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ClaimResult{}, fmt.Errorf("%w: %s", storage.ErrItemNotFound, itemID)
	}
	if err != nil {
		return storage.ClaimResult{}, fmt.Errorf("failed to read claimant: %w", err)
	}

	if current.String == claimant {
		return storage.ClaimResult{Outcome: storage.ClaimAlreadyOwn, ClaimedBy: claimant}, nil
	}
	return storage.ClaimResult{Outcome: storage.ClaimTaken, ClaimedBy: current.String}, nil
}

func decimalOrNull(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func claimantOrNull(label string) any {
	if label == "" {
		return nil
	}
	return label
}

func parseNullDecimal(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
