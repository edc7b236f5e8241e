package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	if err := WriteJSON(rec, http.StatusServiceUnavailable, Response{Status: StatusError, Error: MsgStorageUnavailable}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != StatusError || body.Error != MsgStorageUnavailable {
		t.Errorf("body = %+v", body)
	}
}

func TestWriteHTML(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	if err := WriteHTML(rec, http.StatusOK, []byte("<p>hi</p>")); err != nil {
		t.Fatalf("WriteHTML() error = %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.String() != "<p>hi</p>" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestWriteTerminal(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteTerminal(rec, http.StatusServiceUnavailable, MsgUnavailable)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), MsgUnavailable) {
		t.Errorf("body = %q, want terminal message", rec.Body.String())
	}
}
