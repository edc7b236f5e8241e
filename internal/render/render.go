// Package render turns the record list and the request's echo state into
// the HTML page.
//
// Every value that reaches the page goes through forOutput and then
// html/template's contextual escaping. Values are treated as untrusted
// regardless of any encoding applied earlier in the request.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/aanand-mishra/createread/internal/types"
	"github.com/aanand-mishra/createread/internal/utils/sanitize"
)

//go:embed templates/*.html.tmpl
var templates embed.FS

// Notice kinds, used as a CSS class suffix.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Status texts shown for each write outcome.
const (
	MsgCreated          = "Record added successfully."
	MsgDuplicateEmail   = "This email is already registered."
	MsgValidationFailed = "Please provide both a name and a valid email."
	MsgStorageError     = "Error adding record. Please try again later."
)

// Notice is the single status message of a page.
type Notice struct {
	Kind string
	Text string
}

// Row is one escaped-for-output record.
type Row struct {
	ID    string
	Name  string
	Email string
}

// Page is the view model executed by the template.
type Page struct {
	Name   string
	Email  string
	Notice *Notice
	Count  int
	Rows   []Row
}

// Renderer executes the embedded page template.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templates, "templates/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("render.New: parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the page for echo and records to w.
func (r *Renderer) Render(w io.Writer, echo types.EchoState, records []types.Record) error {
	if err := r.tmpl.ExecuteTemplate(w, "page.html.tmpl", NewPage(echo, records)); err != nil {
		return fmt.Errorf("render: execute: %w", err)
	}
	return nil
}

// NewPage builds the view model.
func NewPage(echo types.EchoState, records []types.Record) Page {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row{
			ID:    strconv.FormatInt(rec.ID, 10),
			Name:  forOutput(rec.Name),
			Email: forOutput(rec.Email),
		})
	}

	return Page{
		Name:   forOutput(echo.Name),
		Email:  forOutput(echo.Email),
		Notice: NoticeFor(echo.Outcome),
		Count:  len(rows),
		Rows:   rows,
	}
}

// NoticeFor maps a write outcome to its status notice; nil when no write
// was attempted.
func NoticeFor(outcome types.WriteOutcome) *Notice {
	switch outcome {
	case types.Created:
		return &Notice{Kind: NoticeSuccess, Text: MsgCreated}
	case types.DuplicateEmail:
		return &Notice{Kind: NoticeError, Text: MsgDuplicateEmail}
	case types.ValidationFailed:
		return &Notice{Kind: NoticeError, Text: MsgValidationFailed}
	case types.StorageError:
		return &Notice{Kind: NoticeError, Text: MsgStorageError}
	default:
		return nil
	}
}

// forOutput is the escape-for-output boundary. It undoes the encoding the
// sanitizer applied on the way in so that html/template encodes it exactly
// once: "O&#39;Connor" and "O'Connor" both render as O&#39;Connor.
func forOutput(s string) string {
	return sanitize.Decode(s)
}
