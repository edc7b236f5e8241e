// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles:
// handlers, storage, the writer and the renderer can all import types
// without depending on each other.
package types

// Record is a persisted name/email entry.
//
// validate:"..." tags are checked by the go-playground/validator package
// before a Record is handed to storage. fqdn_email is registered by the
// record package and requires a dot in the domain part.
type Record struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email,fqdn_email"`
}

// WriteOutcome classifies the result of an attempted insert.
type WriteOutcome int

const (
	// NoWrite means no insert was attempted (GET request).
	NoWrite WriteOutcome = iota
	Created
	ValidationFailed
	DuplicateEmail
	StorageError
)

func (o WriteOutcome) String() string {
	switch o {
	case NoWrite:
		return "no_write"
	case Created:
		return "created"
	case ValidationFailed:
		return "validation_failed"
	case DuplicateEmail:
		return "duplicate_email"
	case StorageError:
		return "storage_error"
	default:
		return "unknown"
	}
}

// EchoState is the request-scoped form state redisplayed to the user.
// It never outlives a single request/response cycle.
type EchoState struct {
	Name    string
	Email   string
	Outcome WriteOutcome
}

// Settle applies the outcome of a write to the echo state: the form is
// cleared after a successful insert and kept for correction otherwise.
func (e *EchoState) Settle(outcome WriteOutcome) {
	e.Outcome = outcome
	if outcome == Created {
		e.Name = ""
		e.Email = ""
	}
}
