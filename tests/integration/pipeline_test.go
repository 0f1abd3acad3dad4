package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edseguy/code-scanner/internal/domain"
	"github.com/edseguy/code-scanner/internal/enrich"
	"github.com/edseguy/code-scanner/internal/httpserver/deps"
	"github.com/edseguy/code-scanner/internal/httpserver/routes"
	"github.com/edseguy/code-scanner/internal/logger"
	"github.com/edseguy/code-scanner/internal/session"
	"github.com/edseguy/code-scanner/internal/shell"
	"github.com/edseguy/code-scanner/internal/store"
)

// shellRecorder plays the mobile shell's callback server.
type shellRecorder struct {
	mu       sync.Mutex
	canOpen  bool
	granted  bool
	requests []string
}

func (s *shellRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.URL.Path)
		canOpen, granted := s.canOpen, s.granted
		s.mu.Unlock()

		switch r.URL.Path {
		case "/can-open":
			_ = json.NewEncoder(w).Encode(map[string]bool{"canOpen": canOpen})
		case "/permission/request":
			_ = json.NewEncoder(w).Encode(map[string]bool{"granted": granted})
		default:
			w.WriteHeader(http.StatusOK)
		}
	}
}

func (s *shellRecorder) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.requests {
		if p == path {
			n++
		}
	}
	return n
}

type env struct {
	api   *httptest.Server
	shell *shellRecorder
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := logger.New("error", false)

	sh := &shellRecorder{canOpen: true, granted: true}
	shellSrv := httptest.NewServer(sh.handler())
	t.Cleanup(shellSrv.Close)

	lookupSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"title":"Widget"}]}`))
	}))
	t.Cleanup(lookupSrv.Close)

	shellClient := shell.New(shellSrv.URL, time.Second, log)
	history := store.NewHistoryStore(store.NewMemoryKV(), "scand:history", log)
	controller := session.New(session.Options{
		History:    history,
		Enricher:   enrich.New(lookupSrv.URL, time.Second, log),
		Opener:     shellClient,
		Clipboard:  shellClient,
		Permission: shellClient,
		Capture:    shellClient,
		Logger:     log,
	})
	if err := controller.Start(context.Background()); err != nil {
		t.Fatalf("controller.Start() error = %v", err)
	}

	r := chi.NewRouter()
	routes.RegisterAll(r, deps.Deps{
		Logger:     log,
		StartTime:  time.Now(),
		Controller: controller,
	})
	api := httptest.NewServer(r)
	t.Cleanup(api.Close)

	return &env{api: api, shell: sh}
}

func (e *env) do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, e.api.URL+path, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestScanOpenableURLEndToEnd(t *testing.T) {
	e := newEnv(t)

	// First scan lands.
	resp := e.do(t, http.MethodPost, "/scan", map[string]string{
		"type": "qr",
		"data": "https://openweather.org",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /scan status = %d, want 201", resp.StatusCode)
	}
	var entry domain.HistoryEntry
	decode(t, resp, &entry)
	if !entry.PayloadIsOpenableURL {
		t.Error("entry.PayloadIsOpenableURL = false, want true")
	}

	// The capture source fires again within the cooldown window: discarded.
	resp = e.do(t, http.MethodPost, "/scan", map[string]string{
		"type": "qr",
		"data": "https://openweather.org",
	})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("repeat POST /scan status = %d, want 409", resp.StatusCode)
	}

	var hist struct {
		Entries []domain.HistoryEntry `json:"entries"`
	}
	decode(t, e.do(t, http.MethodGet, "/history", nil), &hist)
	if len(hist.Entries) != 1 {
		t.Fatalf("history has %d entries, want exactly 1", len(hist.Entries))
	}

	// Exactly one open-confirmation side effect.
	var confs struct {
		Pending []session.Confirmation `json:"pending"`
	}
	decode(t, e.do(t, http.MethodGet, "/confirmations", nil), &confs)
	if len(confs.Pending) != 1 {
		t.Fatalf("pending confirmations = %d, want exactly 1", len(confs.Pending))
	}

	resp = e.do(t, http.MethodPost, "/confirmations/"+confs.Pending[0].ID, map[string]bool{"accepted": true})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("resolve status = %d, want 204", resp.StatusCode)
	}
	if got := e.shell.count("/open"); got != 1 {
		t.Errorf("shell /open called %d times, want exactly 1", got)
	}
}

func TestScanProductCodeEndToEnd(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/scan", map[string]string{
		"type": "ean13",
		"data": "0012345678905",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /scan status = %d, want 201", resp.StatusCode)
	}
	var entry domain.HistoryEntry
	decode(t, resp, &entry)
	if entry.Annotation != "Producto: Widget" {
		t.Errorf("entry.Annotation = %q, want enrichment result", entry.Annotation)
	}
	if entry.PayloadIsOpenableURL {
		t.Error("numeric payload marked openable")
	}

	// Re-arm, then the next scan is accepted again.
	resp = e.do(t, http.MethodPost, "/session/rearm", nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("POST /session/rearm status = %d, want 204", resp.StatusCode)
	}

	resp = e.do(t, http.MethodPost, "/scan", map[string]string{
		"type": "code128",
		"data": "SN-1234",
	})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /scan after rearm status = %d, want 201", resp.StatusCode)
	}
}

func TestClearHistoryEndToEnd(t *testing.T) {
	e := newEnv(t)

	// Clearing an empty history is refused.
	resp := e.do(t, http.MethodDelete, "/history", nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("DELETE /history on empty status = %d, want 409", resp.StatusCode)
	}

	resp = e.do(t, http.MethodPost, "/scan", map[string]string{
		"type": "code39",
		"data": "ABC123",
	})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /scan status = %d, want 201", resp.StatusCode)
	}

	var conf session.Confirmation
	decode(t, e.do(t, http.MethodDelete, "/history", nil), &conf)
	if conf.Kind != session.ConfirmClearHistory {
		t.Fatalf("confirmation kind = %s, want clear-history", conf.Kind)
	}

	resp = e.do(t, http.MethodPost, "/confirmations/"+conf.ID, map[string]bool{"accepted": true})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("resolve status = %d, want 204", resp.StatusCode)
	}

	var hist struct {
		Entries []domain.HistoryEntry `json:"entries"`
	}
	decode(t, e.do(t, http.MethodGet, "/history", nil), &hist)
	if len(hist.Entries) != 0 {
		t.Errorf("history has %d entries after clear, want 0", len(hist.Entries))
	}
}

func TestCopyToClipboardEndToEnd(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/scan", map[string]string{
		"type": "qr",
		"data": "some plain text",
	})
	var entry domain.HistoryEntry
	decode(t, resp, &entry)

	resp = e.do(t, http.MethodPost, fmt.Sprintf("/history/%s/copy", entry.ID), nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("copy status = %d, want 204", resp.StatusCode)
	}
	if got := e.shell.count("/clipboard"); got != 1 {
		t.Errorf("shell /clipboard called %d times, want 1", got)
	}
}

func TestPauseDiscardsScansEndToEnd(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/session/pause", nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("POST /session/pause status = %d, want 204", resp.StatusCode)
	}

	resp = e.do(t, http.MethodPost, "/scan", map[string]string{
		"type": "qr",
		"data": "https://example.com",
	})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("POST /scan while paused status = %d, want 409", resp.StatusCode)
	}

	resp = e.do(t, http.MethodPost, "/session/resume", nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("POST /session/resume status = %d, want 204", resp.StatusCode)
	}

	var state struct {
		State session.State `json:"state"`
	}
	decode(t, e.do(t, http.MethodGet, "/session", nil), &state)
	if state.State != session.StateArmed {
		t.Errorf("session state = %s, want armed after resume", state.State)
	}
}
