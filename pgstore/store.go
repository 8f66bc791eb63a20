package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/robomart/authtoken"
)

// ErrNotFound is an exported constant or variable used by the postgres token store.
var ErrNotFound = errors.New("token record not found")

// DBTX is the subset of database/sql operations the store needs, satisfied
// by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store defines a public type used by authtoken APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	db DBTX
}

var _ authtoken.TokenStore = (*Store)(nil)

// NewStore constructs a store bound to the given DBTX.
func NewStore(db DBTX) *Store {
	return &Store{db: db}
}

// Open connects to PostgreSQL through the pgx driver and verifies the
// connection before returning it.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// AddToken durably writes a refresh-token record. Records are never expired
// or rotated by this layer; refresh tokens live until revoked out of band.
func (s *Store) AddToken(ctx context.Context, record authtoken.TokenRecord) error {
	if record.ID == "" {
		return errors.New("token record id must not be empty")
	}

	query := `
		INSERT INTO refresh_tokens (id, email, issued_at)
		VALUES ($1, $2, $3)
	`
	if _, err := s.db.ExecContext(ctx, query, record.ID, record.Email, record.IssuedAt); err != nil {
		return fmt.Errorf("insert refresh token record: %w", err)
	}

	return nil
}

// Get returns the record for the given id. If the record is absent it
// returns ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*authtoken.TokenRecord, error) {
	query := `
		SELECT email, issued_at
		FROM refresh_tokens
		WHERE id = $1
	`
	record := &authtoken.TokenRecord{ID: id}
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&record.Email, &record.IssuedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select refresh token record: %w", err)
	}

	return record, nil
}
