// Package postgres provides a PostgreSQL implementation of storage.Storage
// on top of a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aanand-mishra/createread/internal/config"
	"github.com/aanand-mishra/createread/internal/storage"
	"github.com/aanand-mishra/createread/internal/types"
)

const schema = `
	CREATE TABLE IF NOT EXISTS records (
		id    BIGSERIAL PRIMARY KEY,
		name  TEXT NOT NULL,
		email TEXT NOT NULL,
		CONSTRAINT records_email_key UNIQUE (email)
	)
`

const (
	// uniqueViolation is SQLSTATE unique_violation.
	uniqueViolation = "23505"
	emailConstraint = "records_email_key"
)

// Postgres implements storage.Storage.
type Postgres struct {
	pool *pgxpool.Pool
}

// New creates the pool, verifies connectivity and ensures the records
// table exists.
func New(ctx context.Context, cfg *config.Config) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse database URL: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.Storage.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: create table: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Acquire checks out one pooled connection.
func (p *Postgres) Acquire(ctx context.Context) (storage.Session, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("Acquire: %w: %w", storage.ErrConnection, err)
	}
	return &session{conn: conn}, nil
}

// Ping checks database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

type session struct {
	conn *pgxpool.Conn
}

func (s *session) CreateRecord(ctx context.Context, name, email string) (int64, error) {
	var id int64
	err := s.conn.QueryRow(ctx,
		"INSERT INTO records (name, email) VALUES ($1, $2) RETURNING id",
		name, email,
	).Scan(&id)
	if err != nil {
		if isUniqueEmail(err) {
			return 0, fmt.Errorf("CreateRecord: %w", storage.ErrDuplicateEmail)
		}
		return 0, fmt.Errorf("CreateRecord: insert: %w", err)
	}
	return id, nil
}

func (s *session) ListRecords(ctx context.Context) ([]types.Record, error) {
	rows, err := s.conn.Query(ctx, "SELECT id, name, email FROM records ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("ListRecords: query: %w", err)
	}
	defer rows.Close()

	records := make([]types.Record, 0)
	for rows.Next() {
		var record types.Record
		if err := rows.Scan(&record.ID, &record.Name, &record.Email); err != nil {
			return nil, fmt.Errorf("ListRecords: scan row: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRecords: rows iteration: %w", err)
	}

	return records, nil
}

func (s *session) Release() {
	if s.conn == nil {
		return
	}
	s.conn.Release()
	s.conn = nil
}

func isUniqueEmail(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == emailConstraint
}
