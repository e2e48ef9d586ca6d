package sqlite

import "database/sql"

// schema sets up the bill tables. Monetary values are stored as TEXT so the
// decimals round-trip exactly; REAL would reintroduce binary rounding.
// claimed_by is NULL while an item is unclaimed, which is what the
// conditional claim's WHERE clause tests against.
const schema = `
CREATE TABLE IF NOT EXISTS bills (
    id TEXT PRIMARY KEY,
    tax_rate TEXT NOT NULL,
    tip_rate TEXT NOT NULL,
    tax_override TEXT,
    tip_override TEXT,
    host_venmo TEXT NOT NULL DEFAULT '',
    host_cashapp TEXT NOT NULL DEFAULT '',
    host_zelle TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    bill_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    price TEXT NOT NULL,
    claimed_by TEXT,
    FOREIGN KEY (bill_id) REFERENCES bills(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_items_bill_id ON items(bill_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
