package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/denisok6893-rgb/property-call-search/internal/domain"
)

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	const createProperties = `
CREATE TABLE IF NOT EXISTS properties (
  position INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  type TEXT NOT NULL,
  market_type TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT '',
  price REAL NOT NULL,
  size_sqm REAL NOT NULL DEFAULT 0,
  bedrooms INTEGER NOT NULL DEFAULT 0,
  bathrooms INTEGER NOT NULL DEFAULT 0,
  address TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  features_json TEXT NOT NULL DEFAULT '[]'
);
`
	const createCalls = `
CREATE TABLE IF NOT EXISTS calls (
  call_id TEXT PRIMARY KEY,
  criteria_json TEXT NOT NULL DEFAULT '{}',
  match_ids_json TEXT NOT NULL DEFAULT '[]',
  response TEXT NOT NULL DEFAULT '',
  updated_at TEXT NOT NULL
);
`
	for _, stmt := range []string{createProperties, createCalls} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) CountProperties(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM properties`).Scan(&n)
	return n, err
}

// UpsertMany inserts initial dataset without duplicating by id.
func (s *SQLiteStore) UpsertMany(ctx context.Context, items []domain.Property) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR IGNORE INTO properties
(id, title, type, market_type, status, price, size_sqm, bedrooms, bathrooms, address, description, features_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range items {
		ft, err := json.Marshal(p.Features)
		if err != nil {
			return fmt.Errorf("marshal features of %s: %w", p.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Title, p.Type, p.MarketType, p.Status, p.Price, p.SizeSqm,
			p.Bedrooms, p.Bathrooms, p.Address, p.Description, string(ft),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const selectProperty = `
SELECT id, title, type, market_type, status, price, size_sqm, bedrooms, bathrooms, address, description, features_json
FROM properties`

// GetAllProperties returns the whole inventory in insertion order.
func (s *SQLiteStore) GetAllProperties(ctx context.Context) ([]domain.Property, error) {
	rows, err := s.db.QueryContext(ctx, selectProperty+" ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}
	defer rows.Close()

	var out []domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListProperties returns one page in insertion order and the total count.
func (s *SQLiteStore) ListProperties(ctx context.Context, limit, offset int) ([]domain.Property, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	total, err := s.CountProperties(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, selectProperty+" ORDER BY position LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query properties: %w", err)
	}
	defer rows.Close()

	out := []domain.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (s *SQLiteStore) GetProperty(ctx context.Context, id string) (domain.Property, bool, error) {
	p, err := scanProperty(s.db.QueryRowContext(ctx, selectProperty+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Property{}, false, nil
	}
	if err != nil {
		return domain.Property{}, false, err
	}
	return p, true, nil
}

// UpdateCall stores the latest search metadata for a call.
func (s *SQLiteStore) UpdateCall(ctx context.Context, u domain.CallUpdate) error {
	criteria, err := json.Marshal(u.Criteria)
	if err != nil {
		return fmt.Errorf("marshal criteria: %w", err)
	}
	ids, err := json.Marshal(u.MatchIDs)
	if err != nil {
		return fmt.Errorf("marshal match ids: %w", err)
	}
	updatedAt := u.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO calls (call_id, criteria_json, match_ids_json, response, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(call_id) DO UPDATE SET
  criteria_json = excluded.criteria_json,
  match_ids_json = excluded.match_ids_json,
  response = excluded.response,
  updated_at = excluded.updated_at
`, u.CallID, string(criteria), string(ids), u.Response, updatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("update call %s: %w", u.CallID, err)
	}
	return nil
}

// GetCall returns the stored search metadata for a call.
func (s *SQLiteStore) GetCall(ctx context.Context, callID string) (domain.CallUpdate, bool, error) {
	var (
		u                           domain.CallUpdate
		criteria, ids, updatedAtStr string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT call_id, criteria_json, match_ids_json, response, updated_at FROM calls WHERE call_id = ?
`, callID).Scan(&u.CallID, &criteria, &ids, &u.Response, &updatedAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CallUpdate{}, false, nil
	}
	if err != nil {
		return domain.CallUpdate{}, false, err
	}
	if err := json.Unmarshal([]byte(criteria), &u.Criteria); err != nil {
		return domain.CallUpdate{}, false, fmt.Errorf("unmarshal criteria: %w", err)
	}
	if err := json.Unmarshal([]byte(ids), &u.MatchIDs); err != nil {
		return domain.CallUpdate{}, false, fmt.Errorf("unmarshal match ids: %w", err)
	}
	u.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAtStr)
	return u, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (domain.Property, error) {
	var p domain.Property
	var ftJSON string
	if err := row.Scan(
		&p.ID, &p.Title, &p.Type, &p.MarketType, &p.Status, &p.Price, &p.SizeSqm,
		&p.Bedrooms, &p.Bathrooms, &p.Address, &p.Description, &ftJSON,
	); err != nil {
		return domain.Property{}, err
	}
	if err := json.Unmarshal([]byte(ftJSON), &p.Features); err != nil {
		return domain.Property{}, fmt.Errorf("unmarshal features of %s: %w", p.ID, err)
	}
	return p, nil
}
