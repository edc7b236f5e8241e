// Package storage defines the Storage interface, the contract any
// relational backend must satisfy to hold the records table.
//
// Handlers depend only on this package. Engine-specific error codes stay
// inside the backends, which translate them into the sentinel errors
// below; callers classify failures with errors.Is.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/createread/internal/types"
)

var (
	// ErrDuplicateEmail is returned by Session.CreateRecord when the
	// uniqueness constraint on records.email rejects the insert.
	ErrDuplicateEmail = errors.New("storage: email already registered")

	// ErrConnection is returned by Storage.Acquire when no connection to
	// the backend can be obtained.
	ErrConnection = errors.New("storage: connection unavailable")
)

// Storage owns the connection pool of a backend.
type Storage interface {
	// Acquire checks out one connection for the lifetime of a request.
	// The caller must Release the returned Session on every exit path.
	Acquire(ctx context.Context) (Session, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the pool. Sessions must not be used afterwards.
	Close() error
}

// Session is a single checked-out connection.
type Session interface {
	// CreateRecord inserts a record with bound name and email parameters
	// and returns the store-assigned id.
	CreateRecord(ctx context.Context, name, email string) (int64, error)

	// ListRecords returns every record ordered by id ascending.
	// Returns an empty slice (not nil) when the table is empty.
	ListRecords(ctx context.Context) ([]types.Record, error)

	// Release returns the connection to the pool. Safe to call twice.
	Release()
}
