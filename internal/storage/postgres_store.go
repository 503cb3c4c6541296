package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/denisok6893-rgb/property-call-search/internal/domain"
)

var ErrCallNotFound = errors.New("call not found")

// PostgresStore reads the Supabase "properties" table and writes search
// metadata into the "calls" table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres creates a pool and checks the connection.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() { s.pool.Close() }

const selectPgProperty = `
SELECT id::text, title, type, COALESCE(market_type, ''), COALESCE(status, ''),
       price::float8, COALESCE(size_sqm, 0)::float8, COALESCE(bedrooms, 0), COALESCE(bathrooms, 0),
       COALESCE(address, ''), COALESCE(description, ''), COALESCE(features, '[]'::jsonb)
FROM properties`

func (s *PostgresStore) GetAllProperties(ctx context.Context) ([]domain.Property, error) {
	rows, err := s.pool.Query(ctx, selectPgProperty+" ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}
	defer rows.Close()

	var out []domain.Property
	for rows.Next() {
		p, err := scanPgProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return out, nil
}

// ListProperties returns one page and the total count, paging in the database.
func (s *PostgresStore) ListProperties(ctx context.Context, limit, offset int) ([]domain.Property, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM properties`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}

	rows, err := s.pool.Query(ctx, selectPgProperty+" ORDER BY created_at, id LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query properties: %w", err)
	}
	defer rows.Close()

	out := []domain.Property{}
	for rows.Next() {
		p, err := scanPgProperty(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate properties: %w", err)
	}
	return out, total, nil
}

func (s *PostgresStore) GetProperty(ctx context.Context, id string) (domain.Property, bool, error) {
	p, err := scanPgProperty(s.pool.QueryRow(ctx, selectPgProperty+" WHERE id::text = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Property{}, false, nil
	}
	if err != nil {
		return domain.Property{}, false, err
	}
	return p, true, nil
}

// UpdateCall merges the search metadata into calls.metadata.
func (s *PostgresStore) UpdateCall(ctx context.Context, u domain.CallUpdate) error {
	meta, err := json.Marshal(map[string]any{
		"property_search": map[string]any{
			"criteria":  u.Criteria,
			"match_ids": u.MatchIDs,
			"response":  u.Response,
		},
	})
	if err != nil {
		return fmt.Errorf("marshal call metadata: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
UPDATE calls
SET metadata = COALESCE(metadata, '{}'::jsonb) || $2::jsonb,
    updated_at = now()
WHERE id::text = $1
`, u.CallID, string(meta))
	if err != nil {
		return fmt.Errorf("update call %s: %w", u.CallID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update call %s: %w", u.CallID, ErrCallNotFound)
	}
	return nil
}

func scanPgProperty(row pgx.Row) (domain.Property, error) {
	var p domain.Property
	var features []byte
	if err := row.Scan(
		&p.ID, &p.Title, &p.Type, &p.MarketType, &p.Status,
		&p.Price, &p.SizeSqm, &p.Bedrooms, &p.Bathrooms,
		&p.Address, &p.Description, &features,
	); err != nil {
		return domain.Property{}, err
	}
	if err := json.Unmarshal(features, &p.Features); err != nil {
		return domain.Property{}, fmt.Errorf("unmarshal features of %s: %w", p.ID, err)
	}
	return p, nil
}
