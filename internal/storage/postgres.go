package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"autoapply/internal/domain"
)

// PostgresStore persists application records.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// SaveApplication upserts by posting URL, so re-saving the same job updates
// the existing row instead of duplicating it.
func (s *PostgresStore) SaveApplication(ctx context.Context, rec domain.ApplicationRecord) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO applications (url, title, company, location, description, source, status, applied_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (url) DO UPDATE SET
		   title = EXCLUDED.title, company = EXCLUDED.company, location = EXCLUDED.location,
		   description = EXCLUDED.description, status = EXCLUDED.status, updated_at = NOW()`,
		rec.URL, rec.Title, rec.Company, rec.Location, rec.Description, rec.Source, rec.Status, rec.AppliedAt,
	)
	if err != nil {
		return fmt.Errorf("save application: %w", err)
	}
	return nil
}

// ListApplications returns the most recent records, newest first.
func (s *PostgresStore) ListApplications(ctx context.Context, limit int) ([]domain.ApplicationRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx,
		`SELECT url, title, company, location, description, source, status, applied_at
		 FROM applications ORDER BY applied_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []domain.ApplicationRecord
	for rows.Next() {
		var rec domain.ApplicationRecord
		if err := rows.Scan(&rec.URL, &rec.Title, &rec.Company, &rec.Location,
			&rec.Description, &rec.Source, &rec.Status, &rec.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
