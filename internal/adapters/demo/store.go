package demo

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS patrons (
	id           TEXT PRIMARY KEY,
	username     TEXT NOT NULL UNIQUE,
	password     TEXT NOT NULL,
	firstname    TEXT, lastname TEXT,
	email        TEXT, phone TEXT,
	address1     TEXT, zip TEXT, city TEXT,
	work_address TEXT, grp TEXT
);
CREATE TABLE IF NOT EXISTS items (
	item_id       TEXT PRIMARY KEY,
	record_id     TEXT NOT NULL,
	library       TEXT, location TEXT, location_text TEXT,
	policy        TEXT, status TEXT NOT NULL,
	call_number   TEXT, due_date TEXT, enumeration TEXT,
	holdable      INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS fees (
	id        TEXT PRIMARY KEY,
	patron_id TEXT NOT NULL,
	title     TEXT, type TEXT,
	amount    INTEGER NOT NULL, balance INTEGER NOT NULL,
	created   TEXT, item_id TEXT
);
CREATE TABLE IF NOT EXISTS loans (
	item_id       TEXT PRIMARY KEY,
	patron_id     TEXT NOT NULL,
	record_id     TEXT, title TEXT, due_date TEXT,
	renewable     INTEGER NOT NULL DEFAULT 1,
	renewal_count INTEGER NOT NULL DEFAULT 0,
	renewal_limit INTEGER NOT NULL DEFAULT 3,
	barcode       TEXT
);
CREATE TABLE IF NOT EXISTS holds (
	request_id TEXT PRIMARY KEY,
	patron_id  TEXT NOT NULL,
	record_id  TEXT, item_id TEXT, title TEXT,
	pickup     TEXT, position INTEGER,
	expires    TEXT, available INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS locations (
	id        TEXT PRIMARY KEY,
	display   TEXT NOT NULL,
	ord       INTEGER NOT NULL
);
`

// store is the sqlite-backed fixture state of one demo driver
// instance. An unconfigured db_file keeps everything in memory.
type store struct {
	db *sql.DB
}

// openStore opens (or creates) the fixture database and seeds it when
// it is still empty.
func openStore(dbFile string, fixtures *fixtureSet) (*store, error) {
	if dbFile == "" {
		dbFile = ":memory:"
	}
	db, err := sql.Open("sqlite", dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// The in-memory database lives per connection; a second connection
	// would see an empty schema.
	db.SetMaxOpenConns(1)

	s := &store{db: db}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	if err := s.seed(fixtures); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *store) seed(fixtures *fixtureSet) error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM patrons").Scan(&count); err != nil {
		return fmt.Errorf("failed to probe seed state: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range fixtures.Patrons {
		_, err := tx.Exec(`INSERT INTO patrons
			(id, username, password, firstname, lastname, email, phone, address1, zip, city, work_address, grp)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Username, p.Password, p.Firstname, p.Lastname,
			p.Email, p.Phone, p.Address1, p.Zip, p.City, p.WorkAddress, p.Group)
		if err != nil {
			return fmt.Errorf("failed to seed patron: %w", err)
		}
	}
	for _, it := range fixtures.Items {
		_, err := tx.Exec(`INSERT INTO items
			(item_id, record_id, library, location, location_text, policy, status, call_number, due_date, enumeration, holdable)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			it.ItemID, it.RecordID, it.Library, it.Location, it.LocationTxt,
			it.Policy, it.Status, it.CallNumber, it.DueDate, it.Enumeration, it.Holdable)
		if err != nil {
			return fmt.Errorf("failed to seed item: %w", err)
		}
	}
	for _, f := range fixtures.Fees {
		_, err := tx.Exec(`INSERT INTO fees
			(id, patron_id, title, type, amount, balance, created, item_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, f.PatronID, f.Title, f.Type, f.Amount, f.Balance, f.Created, f.ItemID)
		if err != nil {
			return fmt.Errorf("failed to seed fee: %w", err)
		}
	}
	for _, l := range fixtures.Loans {
		_, err := tx.Exec(`INSERT INTO loans
			(item_id, patron_id, record_id, title, due_date, renewable, renewal_count, renewal_limit, barcode)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			l.ItemID, l.PatronID, l.RecordID, l.Title, l.DueDate,
			l.Renewable, l.RenewalCount, l.RenewalLimit, l.Barcode)
		if err != nil {
			return fmt.Errorf("failed to seed loan: %w", err)
		}
	}
	for _, h := range fixtures.Holds {
		_, err := tx.Exec(`INSERT INTO holds
			(request_id, patron_id, record_id, item_id, title, pickup, position, expires, available)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.RequestID, h.PatronID, h.RecordID, h.ItemID, h.Title,
			h.Pickup, h.Position, h.Expires, h.Available)
		if err != nil {
			return fmt.Errorf("failed to seed hold: %w", err)
		}
	}
	for i, loc := range fixtures.Locations {
		_, err := tx.Exec("INSERT INTO locations (id, display, ord) VALUES (?, ?, ?)",
			loc.ID, loc.Display, i)
		if err != nil {
			return fmt.Errorf("failed to seed location: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}

func (s *store) close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, query, args...)
}

func (s *store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, query, args...)
}

func (s *store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, query, args...)
}
