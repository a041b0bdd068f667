package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id       uuid PRIMARY KEY,
	title    text NOT NULL,
	src_json text NOT NULL,
	dst_json text NOT NULL,
	saved_at timestamptz NOT NULL
)`

// PostgresStore keeps documents in the documents table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Create(ctx context.Context, title, srcJSON, dstJSON string) (Record, error) {
	rec := newRecord(title, srcJSON, dstJSON, time.Now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, title, src_json, dst_json, saved_at) VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.Title, rec.SrcJSON, rec.DstJSON, rec.SavedAt,
	)
	if err != nil {
		return Record{}, fmt.Errorf("failed to insert document: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Load(ctx context.Context, id uuid.UUID) (Record, error) {
	rec := Record{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT title, src_json, dst_json, saved_at FROM documents WHERE id = $1`,
		id,
	).Scan(&rec.Title, &rec.SrcJSON, &rec.DstJSON, &rec.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load document: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Save(ctx context.Context, id uuid.UUID, srcJSON, dstJSON string) (time.Time, error) {
	var savedAt time.Time
	err := s.db.QueryRowContext(ctx,
		`UPDATE documents SET src_json = $2, dst_json = $3, saved_at = now()
		 WHERE id = $1 RETURNING saved_at`,
		id, srcJSON, dstJSON,
	).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to save document: %w", err)
	}
	return savedAt, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, src_json, dst_json, saved_at FROM documents ORDER BY saved_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.SrcJSON, &rec.DstJSON, &rec.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Open picks a store by driver name: "file" uses dir, "postgres" uses dsn.
func Open(ctx context.Context, driver, dir, dsn string) (Store, error) {
	switch driver {
	case "", "file":
		return NewFileStore(dir)
	case "postgres":
		if dsn == "" {
			return nil, fmt.Errorf("postgres store requires a DSN")
		}
		return NewPostgresStore(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}
}
