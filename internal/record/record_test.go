package record

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aanand-mishra/createread/internal/storage/storagetest"
	"github.com/aanand-mishra/createread/internal/types"
)

func newTestWriter() *Writer {
	return NewWriter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestWriter_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		recName   string
		email     string
		want      types.WriteOutcome
		wantCount int
	}{
		{"valid", "Ada", "ada@example.com", types.Created, 2},
		{"empty name", "", "ada@example.com", types.ValidationFailed, 1},
		{"empty email", "Ada", "", types.ValidationFailed, 1},
		{"both empty", "", "", types.ValidationFailed, 1},
		{"no at sign", "Jane", "not-an-email", types.ValidationFailed, 1},
		{"no dot in domain", "Jane", "jane@localhost", types.ValidationFailed, 1},
		{"empty local part", "Jane", "@example.com", types.ValidationFailed, 1},
		{"trailing dot", "Jane", "jane@example.", types.ValidationFailed, 1},
		{"duplicate", "Someone", "grace@example.com", types.DuplicateEmail, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := storagetest.New()
			store.Seed([2]string{"Grace", "grace@example.com"})

			sess, err := store.Acquire(context.Background())
			if err != nil {
				t.Fatalf("Acquire() error = %v", err)
			}
			defer sess.Release()

			got := newTestWriter().Create(context.Background(), sess, tt.recName, tt.email)
			if got != tt.want {
				t.Errorf("Create() = %v, want %v", got, tt.want)
			}
			if n := len(store.Records()); n != tt.wantCount {
				t.Errorf("record count = %d, want %d", n, tt.wantCount)
			}
		})
	}
}

func TestWriter_CreateStoresSubmittedValues(t *testing.T) {
	t.Parallel()

	store := storagetest.New()
	sess, _ := store.Acquire(context.Background())
	defer sess.Release()

	if got := newTestWriter().Create(context.Background(), sess, "O&#39;Connor", "oconnor@example.com"); got != types.Created {
		t.Fatalf("Create() = %v, want Created", got)
	}

	records := store.Records()
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].Name != "O&#39;Connor" || records[0].Email != "oconnor@example.com" {
		t.Errorf("stored record = %+v", records[0])
	}
	if records[0].ID == 0 {
		t.Error("stored record has no id")
	}
}

func TestWriter_CreateStorageError(t *testing.T) {
	t.Parallel()

	store := storagetest.New()
	store.CreateErr = errors.New("disk I/O error")
	sess, _ := store.Acquire(context.Background())
	defer sess.Release()

	if got := newTestWriter().Create(context.Background(), sess, "Ada", "ada@example.com"); got != types.StorageError {
		t.Errorf("Create() = %v, want StorageError", got)
	}
	if n := len(store.Records()); n != 0 {
		t.Errorf("record count = %d, want 0", n)
	}
}

func TestWriter_ValidateShortCircuitsOnEmptiness(t *testing.T) {
	t.Parallel()

	w := newTestWriter()

	err := w.Validate(types.Record{Name: "", Email: "not-an-email"})
	if err == nil {
		t.Fatal("Validate() error = nil")
	}
	if err := w.Validate(types.Record{Name: "Ada", Email: "ada@example.co.uk"}); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}
