// Package pricedb stores price histories in a SQLite database.
package pricedb

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	tracker "github.com/etnz/tcgtracker"
	"github.com/etnz/tcgtracker/date"
	_ "modernc.org/sqlite"
)

// Store is a tracker.PriceStore backed by SQLite. Prices are stored as decimal
// text to keep them exact.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens (or creates) the database and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so that reports can read while a fetch writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS prices (
			category_id TEXT NOT NULL,
			group_id    TEXT NOT NULL,
			product_id  TEXT NOT NULL,
			day         TEXT NOT NULL,
			price       TEXT NOT NULL,
			PRIMARY KEY (category_id, group_id, product_id, day)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// History returns the prices of a product in chronological order.
func (s *Store) History(k tracker.ProductKey) (*tracker.PriceHistory, error) {
	h := new(tracker.PriceHistory)
	rows, err := s.db.Query(
		`SELECT day, price FROM prices WHERE category_id = ? AND group_id = ? AND product_id = ? ORDER BY day`,
		string(k.Category), string(k.Group), string(k.Product))
	if err != nil {
		return h, &tracker.StoreAccessError{Path: s.path, Product: k, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var day, price string
		if err := rows.Scan(&day, &price); err != nil {
			return h, &tracker.StoreAccessError{Path: s.path, Product: k, Err: err}
		}
		on, err := date.Parse(day)
		if err != nil {
			return h, &tracker.StoreAccessError{Path: s.path, Product: k, Err: err}
		}
		p, err := tracker.ParseMoney(price)
		if err != nil {
			return h, &tracker.StoreAccessError{Path: s.path, Product: k, Err: err}
		}
		h.Append(on, p)
	}
	if err := rows.Err(); err != nil {
		return h, &tracker.StoreAccessError{Path: s.path, Product: k, Err: err}
	}
	return h, nil
}

// Upsert records the points in a single transaction.
func (s *Store) Upsert(points ...tracker.PricePoint) error {
	if len(points) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO prices (category_id, group_id, product_id, day, price) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (category_id, group_id, product_id, day) DO UPDATE SET price = excluded.price`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		k := p.Product
		if _, err := stmt.Exec(string(k.Category), string(k.Group), string(k.Product), p.Date.String(), p.Price.Decimal().String()); err != nil {
			tx.Rollback()
			return fmt.Errorf("upsert price of %s on %s: %w", k, p.Date, err)
		}
	}
	return tx.Commit()
}

// Products returns the products having at least one price.
func (s *Store) Products() ([]tracker.ProductKey, error) {
	rows, err := s.db.Query(`SELECT DISTINCT category_id, group_id, product_id FROM prices ORDER BY category_id, group_id, product_id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var keys []tracker.ProductKey
	for rows.Next() {
		var c, g, p string
		if err := rows.Scan(&c, &g, &p); err != nil {
			return nil, err
		}
		keys = append(keys, tracker.ProductKey{Category: tracker.ID(c), Group: tracker.ID(g), Product: tracker.ID(p)})
	}
	return keys, rows.Err()
}

// Count returns the number of prices stored.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM prices`).Scan(&n)
	return n, err
}

// Import copies every history of src into the database. Unreadable histories
// are skipped and reported together.
func (s *Store) Import(src tracker.PriceStore) (products, points int, err error) {
	keys, err := src.Products()
	if err != nil {
		return 0, 0, fmt.Errorf("list source products: %w", err)
	}
	var errs []error
	for _, k := range keys {
		h, err := src.History(k)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		batch := make([]tracker.PricePoint, 0, h.Len())
		for day, price := range h.Values() {
			batch = append(batch, tracker.PricePoint{Product: k, Date: day, Price: price})
		}
		if err := s.Upsert(batch...); err != nil {
			return products, points, err
		}
		products++
		points += len(batch)
	}
	return products, points, errors.Join(errs...)
}

var _ tracker.PriceStore = (*Store)(nil)
