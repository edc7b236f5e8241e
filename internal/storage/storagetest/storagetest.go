// Package storagetest provides an in-memory storage.Storage for handler
// and writer tests.
package storagetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/aanand-mishra/createread/internal/storage"
	"github.com/aanand-mishra/createread/internal/types"
)

// Store is an in-memory storage.Storage. The zero value is not usable;
// call New.
type Store struct {
	mu      sync.Mutex
	records []types.Record
	nextID  int64

	// AcquireErr, CreateErr and ListErr, when set, are returned by the
	// matching operation instead of touching the records.
	AcquireErr error
	CreateErr  error
	ListErr    error

	// Acquired and Released count session checkouts and returns.
	Acquired int
	Released int
}

// New returns an empty Store.
func New() *Store {
	return &Store{nextID: 1}
}

// Seed inserts records directly, bypassing validation.
func (s *Store) Seed(pairs ...[2]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range pairs {
		s.records = append(s.records, types.Record{ID: s.nextID, Name: p[0], Email: p[1]})
		s.nextID++
	}
}

// Records returns a copy of the stored records.
func (s *Store) Records() []types.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]types.Record(nil), s.records...)
}

func (s *Store) Acquire(ctx context.Context) (storage.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.AcquireErr != nil {
		return nil, fmt.Errorf("Acquire: %w: %w", storage.ErrConnection, s.AcquireErr)
	}
	s.Acquired++
	return &session{store: s}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.AcquireErr
}

func (s *Store) Close() error { return nil }

type session struct {
	store    *Store
	released bool
}

func (ss *session) CreateRecord(ctx context.Context, name, email string) (int64, error) {
	s := ss.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateErr != nil {
		return 0, fmt.Errorf("CreateRecord: %w", s.CreateErr)
	}
	for _, r := range s.records {
		if r.Email == email {
			return 0, fmt.Errorf("CreateRecord: %w", storage.ErrDuplicateEmail)
		}
	}

	id := s.nextID
	s.nextID++
	s.records = append(s.records, types.Record{ID: id, Name: name, Email: email})
	return id, nil
}

func (ss *session) ListRecords(ctx context.Context) ([]types.Record, error) {
	s := ss.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ListErr != nil {
		return nil, fmt.Errorf("ListRecords: %w", s.ListErr)
	}
	return append(make([]types.Record, 0, len(s.records)), s.records...), nil
}

func (ss *session) Release() {
	if ss.released {
		return
	}
	ss.released = true

	ss.store.mu.Lock()
	ss.store.Released++
	ss.store.mu.Unlock()
}
