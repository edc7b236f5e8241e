// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// TWO DRIVERS, ONE FILE FORMAT
// ────────────────────────────
// Both drivers register themselves with database/sql from their init()
// functions and are selected by config.Storage.Driver:
//
//   - "sqlite3": github.com/mattn/go-sqlite3 (cgo, the C SQLite library)
//   - "sqlite":  modernc.org/sqlite (pure Go, for CGO_ENABLED=0 builds)
//
// Both write to the same on-disk format, so a database file created with
// one driver can be opened with the other. In a CGO_ENABLED=0 build the
// mattn package still compiles, but its driver refuses to open; only
// "sqlite" is usable there (see unique_cgo.go / unique_nocgo.go).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
	modernc "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"

	"github.com/aanand-mishra/createread/internal/config"
	"github.com/aanand-mishra/createread/internal/storage"
	"github.com/aanand-mishra/createread/internal/types"
)

const schema = `
	CREATE TABLE IF NOT EXISTS records (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		name  TEXT    NOT NULL,
		email TEXT    NOT NULL UNIQUE
	)
`

// emailConstraint is the column name SQLite reports in
// "UNIQUE constraint failed: records.email".
const emailConstraint = "records.email"

// busyTimeoutMillis is how long a connection waits on a locked database
// before failing with SQLITE_BUSY. mattn/go-sqlite3 applies 5000 ms by
// default; modernc.org/sqlite applies none, so it is set through the DSN.
const busyTimeoutMillis = 5000

// SQLite is the concrete implementation of storage.Storage.
// Db is a connection pool managed by database/sql and is safe for
// concurrent use.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.Storage.DSN with the configured
// driver, creates the records table if it does not already exist, and
// returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	driver := cfg.Storage.Driver
	if driver != config.DriverSQLite3 && driver != config.DriverSQLite {
		return nil, fmt.Errorf("sqlite.New: unsupported driver %q", driver)
	}

	// sql.Open does NOT open a real connection yet; it only validates
	// the driver name and remembers the DSN. Every pooled connection the
	// driver opens later uses the same DSN, so per-connection pragmas
	// belong in it.
	db, err := sql.Open(driver, dsnFor(driver, cfg.Storage.DSN))
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}
	db.SetMaxOpenConns(cfg.Storage.MaxConns)

	// CREATE TABLE IF NOT EXISTS is idempotent, so this runs on every
	// startup. It is also the first real connection attempt: a bad path
	// surfaces here rather than on the first request.
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// dsnFor appends the busy-timeout pragma for the modernc driver.
//
// Without it two requests inserting the same email at the same moment do
// not both reach the UNIQUE check: the one that finds the file locked
// fails immediately with SQLITE_BUSY instead of waiting and then getting
// the constraint violation.
func dsnFor(driver, dsn string) string {
	if driver != config.DriverSQLite || strings.Contains(dsn, "busy_timeout") {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)", dsn, sep, busyTimeoutMillis)
}

// ─────────────────────────────────────────────────────────────────────────────
// Acquire checks out a dedicated *sql.Conn for one request.
//
// HOW PER-REQUEST CONNECTIONS WORK:
// ─────────────────────────────────
// *sql.DB is a pool. Calling Exec/Query on it directly may use a different
// connection for every statement. db.Conn(ctx) instead pins ONE connection
// until Close is called, so the insert and the read that follows it in the
// same request run on the same connection, and the read sees the insert.
//
// The handler defers Release right after Acquire, which returns the
// connection to the pool on every exit path, early validation failures
// included. If the pool cannot hand out a connection (closed pool,
// unreadable file, cancelled request) the error wraps
// storage.ErrConnection and the request is aborted.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Acquire(ctx context.Context) (storage.Session, error) {
	conn, err := s.Db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("Acquire: %w: %w", storage.ErrConnection, err)
	}
	return &session{conn: conn}, nil
}

// Ping verifies the database file is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.Db.PingContext(ctx)
}

// Close closes the underlying pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// session wraps one pooled connection.
type session struct {
	conn *sql.Conn
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateRecord inserts a new row into the records table.
//
// HOW PREPARED STATEMENTS KEEP INPUT OUT OF THE SQL:
// ───────────────────────────────────────────────────
// Prepare sends the statement text with ? placeholders; Exec sends the
// values separately. The driver binds name and email as data values, so
// a name like "x'); DROP TABLE records; --" is stored as that literal
// text and never parsed as SQL.
//
// The single INSERT is atomic: either the row exists afterwards or, on
// any error (including the UNIQUE violation), the table is unchanged.
// ─────────────────────────────────────────────────────────────────────────────
func (s *session) CreateRecord(ctx context.Context, name, email string) (int64, error) {
	stmt, err := s.conn.PrepareContext(ctx,
		"INSERT INTO records (name, email) VALUES (?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("CreateRecord: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, name, email)
	if err != nil {
		if isUniqueEmail(err) {
			return 0, fmt.Errorf("CreateRecord: %w", storage.ErrDuplicateEmail)
		}
		return 0, fmt.Errorf("CreateRecord: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateRecord: last insert id: %w", err)
	}

	return lastID, nil
}

// ListRecords returns all rows ordered by id, i.e. insertion order.
func (s *session) ListRecords(ctx context.Context) ([]types.Record, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT id, name, email FROM records ORDER BY id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("ListRecords: query: %w", err)
	}
	defer rows.Close()

	records := make([]types.Record, 0)

	for rows.Next() {
		var record types.Record

		if err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.Email,
		); err != nil {
			return nil, fmt.Errorf("ListRecords: scan row: %w", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRecords: rows iteration: %w", err)
	}

	return records, nil
}

// Release returns the connection to the pool. A second call is a no-op.
func (s *session) Release() {
	if s.conn == nil {
		return
	}
	s.conn.Close()
	s.conn = nil
}

// ─────────────────────────────────────────────────────────────────────────────
// isUniqueEmail reports whether err is a UNIQUE violation on records.email,
// for either registered driver.
//
// HOW THE CLASSIFICATION WORKS:
// ─────────────────────────────
// Each driver returns its own error type carrying SQLite's extended result
// code. SQLITE_CONSTRAINT_UNIQUE (2067) says "some UNIQUE constraint
// failed"; the message then names the column, e.g.
//
//	UNIQUE constraint failed: records.email
//
// Both checks must hold. Callers above this package only ever see
// storage.ErrDuplicateEmail, never a driver error code.
// ─────────────────────────────────────────────────────────────────────────────
func isUniqueEmail(err error) bool {
	if isMattnUniqueEmail(err) {
		return true
	}

	var pErr *modernc.Error
	if errors.As(err, &pErr) {
		return pErr.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE &&
			strings.Contains(pErr.Error(), emailConstraint)
	}

	return false
}
