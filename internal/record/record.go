// Package record implements the write path: validate a sanitized
// name/email pair and insert it, mapping every failure to a
// types.WriteOutcome.
package record

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/createread/internal/storage"
	"github.com/aanand-mishra/createread/internal/types"
)

// Writer validates and persists records.
type Writer struct {
	validate *validator.Validate
	log      *slog.Logger
}

// NewWriter returns a Writer with the fqdn_email rule registered.
func NewWriter(log *slog.Logger) *Writer {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("fqdn_email", fqdnEmail)

	return &Writer{validate: v, log: log}
}

// Validate checks rec against its validate tags. Emptiness is checked
// first for both fields; the email grammar only once both are present.
func (w *Writer) Validate(rec types.Record) error {
	if err := w.validate.Var(rec.Name, "required"); err != nil {
		return err
	}
	if err := w.validate.Var(rec.Email, "required"); err != nil {
		return err
	}
	return w.validate.Struct(rec)
}

// Create validates name and email and inserts them through sess.
//
// Recoverable failures never escape as errors: they are logged and
// returned as ValidationFailed, DuplicateEmail or StorageError. On any of
// those the table is left unchanged.
func (w *Writer) Create(ctx context.Context, sess storage.Session, name, email string) types.WriteOutcome {
	rec := types.Record{Name: name, Email: email}

	if err := w.Validate(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				w.log.Warn("record rejected",
					slog.String("field", fe.Field()),
					slog.String("rule", fe.ActualTag()))
			}
		}
		return types.ValidationFailed
	}

	id, err := sess.CreateRecord(ctx, rec.Name, rec.Email)
	switch {
	case errors.Is(err, storage.ErrDuplicateEmail):
		w.log.Warn("record rejected: duplicate email")
		return types.DuplicateEmail
	case err != nil:
		w.log.Error("failed to create record", slog.String("error", err.Error()))
		return types.StorageError
	}

	w.log.Info("record created", slog.Int64("id", id))
	return types.Created
}

// fqdnEmail requires a dot inside the domain part of an address, so
// "user@localhost" is rejected while "user@example.com" passes.
func fqdnEmail(fl validator.FieldLevel) bool {
	addr := fl.Field().String()

	at := strings.LastIndexByte(addr, '@')
	if at <= 0 {
		return false
	}

	domain := addr[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && !strings.HasSuffix(domain, ".")
}
