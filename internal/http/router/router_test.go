package router

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aanand-mishra/createread/internal/config"
	"github.com/aanand-mishra/createread/internal/http/middleware"
	"github.com/aanand-mishra/createread/internal/render"
	"github.com/aanand-mishra/createread/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWithLogger(t, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestServerWithLogger(t *testing.T, log *slog.Logger) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Env: "dev",
		Storage: config.Storage{
			Driver:   config.DriverSQLite,
			DSN:      filepath.Join(t.TempDir(), "records.db"),
			MaxConns: 2,
		},
		HTTPServer: config.HTTPServer{MaxBodyBytes: 1 << 20},
	}

	store, err := sqlite.New(cfg)
	if err != nil {
		t.Fatalf("sqlite.New() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	h, err := New(cfg, store, log)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func submit(t *testing.T, srv *httptest.Server, name, email string) string {
	t.Helper()

	resp, err := http.PostForm(srv.URL+"/", url.Values{"name": {name}, "email": {email}})
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status = %d", resp.StatusCode)
	}
	return readBody(t, resp)
}

func TestRouter_RequestCycle(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.Header.Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := readBody(t, resp); !strings.Contains(body, "No records found.") {
		t.Error("fresh database did not render the empty state")
	}

	body := submit(t, srv, "O'Connor", "oconnor@example.com")
	if !strings.Contains(body, render.MsgCreated) || !strings.Contains(body, "Total Records: 1") {
		t.Error("first submission not created")
	}
	if !strings.Contains(body, "<td>O&#39;Connor</td>") {
		t.Error("name cell not encoded once")
	}

	body = submit(t, srv, "Jane", "not-an-email")
	if !strings.Contains(body, render.MsgValidationFailed) || !strings.Contains(body, "Total Records: 1") {
		t.Error("invalid email changed the table or missed the notice")
	}

	body = submit(t, srv, "Other", "oconnor@example.com")
	if !strings.Contains(body, render.MsgDuplicateEmail) || !strings.Contains(body, "Total Records: 1") {
		t.Error("duplicate email not rejected")
	}

	submit(t, srv, "Ada", "ada@example.com")
	submit(t, srv, "Grace", "grace@example.com")

	resp, err = http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body = readBody(t, resp)
	if !strings.Contains(body, "Total Records: 3") {
		t.Error("missing \"Total Records: 3\"")
	}
	if n := strings.Count(body, `<tr class="record">`); n != 3 {
		t.Errorf("rendered %d rows, want 3", n)
	}
	if strings.Contains(body, `class="notice`) {
		t.Error("GET rendered a status notice")
	}
	if strings.Index(body, "O&#39;Connor") > strings.Index(body, "Grace") {
		t.Error("rows not in insertion order")
	}
}

func TestRouter_SQLInjectionIsStoredAsText(t *testing.T) {
	srv := newTestServer(t)

	submit(t, srv, "x'); DROP TABLE records; --", "bobby@example.com")
	body := submit(t, srv, "Ada", "ada@example.com")

	if !strings.Contains(body, "Total Records: 2") {
		t.Error("table lost after hostile input")
	}
}

func TestRouter_HealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestRouter_IgnoresForwardedForHeaders(t *testing.T) {
	var logBuf syncBuffer
	srv := newTestServerWithLogger(t, slog.New(slog.NewTextHandler(&logBuf, nil)))

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	req.Header.Set("X-Real-IP", "203.0.113.9")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	// Close waits for in-flight handlers, so the access log line is written.
	srv.Close()

	out := logBuf.String()
	if strings.Contains(out, "203.0.113.9") {
		t.Errorf("access log trusted a forwarded header:\n%s", out)
	}
	if !strings.Contains(out, "127.0.0.1") {
		t.Errorf("access log missing peer address:\n%s", out)
	}
}

// syncBuffer guards a bytes.Buffer shared between the server goroutine and
// the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
