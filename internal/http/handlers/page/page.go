// Package page contains the handler for the single record page.
//
// One request runs three stages in strict sequence:
//  1. sanitize the submitted fields (POST only)
//  2. validate and insert them (POST only)
//  3. read every record and render the page (always)
//
// The handler factory receives its dependencies once at startup and
// returns the http.HandlerFunc the router calls on every request:
//
//	r.Get("/", page.New(storage, writer, renderer, log))
package page

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/createread/internal/record"
	"github.com/aanand-mishra/createread/internal/render"
	"github.com/aanand-mishra/createread/internal/storage"
	"github.com/aanand-mishra/createread/internal/types"
	"github.com/aanand-mishra/createread/internal/utils/response"
	"github.com/aanand-mishra/createread/internal/utils/sanitize"
)

// New handles GET / and POST /.
//
// GET renders the current records with no status notice. POST reads the
// form fields name and email, attempts the insert, then renders. Every
// recoverable write failure is reported inside the page with status 200;
// only a missing storage connection or a failed read aborts the request.
func New(store storage.Storage, writer *record.Writer, renderer *render.Renderer, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		// ── Acquire one connection for the whole request ──────────────
		sess, err := store.Acquire(ctx)
		if err != nil {
			log.Error("failed to acquire storage connection",
				slog.String("error", err.Error()))
			response.WriteTerminal(w, http.StatusServiceUnavailable, response.MsgUnavailable)
			return
		}
		defer sess.Release()

		var echo types.EchoState

		// ── Sanitize + write ──────────────────────────────────────────
		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err != nil {
				log.Warn("failed to parse form", slog.String("error", err.Error()))
				echo.Settle(types.ValidationFailed)
			} else {
				// A missing field and an empty one both clean to "".
				echo.Name = sanitize.Clean(r.PostForm.Get("name"))
				echo.Email = sanitize.Clean(r.PostForm.Get("email"))
				echo.Settle(writer.Create(ctx, sess, echo.Name, echo.Email))
			}
		}

		// ── Read + render ─────────────────────────────────────────────
		records, err := sess.ListRecords(ctx)
		if err != nil {
			log.Error("failed to list records", slog.String("error", err.Error()))
			response.WriteTerminal(w, http.StatusInternalServerError, response.MsgReadFailed)
			return
		}

		var buf bytes.Buffer
		if err := renderer.Render(&buf, echo, records); err != nil {
			log.Error("failed to render page", slog.String("error", err.Error()))
			response.WriteTerminal(w, http.StatusInternalServerError, response.MsgReadFailed)
			return
		}

		log.Debug("page rendered",
			slog.String("outcome", echo.Outcome.String()),
			slog.Int("records", len(records)))

		_ = response.WriteHTML(w, http.StatusOK, buf.Bytes())
	}
}
