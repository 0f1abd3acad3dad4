package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edseguy/code-scanner/internal/domain"
	"github.com/edseguy/code-scanner/internal/logger"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "first item title wins",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("upc"); got != "0012345678905" {
					t.Errorf("lookup sent upc=%q, want payload as key", got)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"items":[{"title":"Widget"},{"title":"Other"}]}`))
			},
			want: "Producto: Widget",
		},
		{
			name: "zero items",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"items":[]}`))
			},
			want: NotFoundAnnotation,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"items": not-json`))
			},
			want: NotFoundAnnotation,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: NotFoundAnnotation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			client := New(ts.URL, time.Second, logger.New("error", false))
			got := client.Lookup(context.Background(), domain.SymbologyEAN13, "0012345678905")
			if got != tt.want {
				t.Errorf("Lookup() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLookupNetworkFailure(t *testing.T) {
	// Closed server: connection refused.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	client := New(ts.URL, time.Second, logger.New("error", false))
	if got := client.Lookup(context.Background(), domain.SymbologyUPCA, "123456789012"); got != NotFoundAnnotation {
		t.Errorf("Lookup() on network failure = %q, want fallback annotation", got)
	}
}

func TestLookupTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"items":[{"title":"TooLate"}]}`))
	}))
	defer ts.Close()

	client := New(ts.URL, 20*time.Millisecond, logger.New("error", false))
	if got := client.Lookup(context.Background(), domain.SymbologyEAN13, "0012345678905"); got != NotFoundAnnotation {
		t.Errorf("Lookup() past timeout = %q, want fallback annotation", got)
	}
}

func TestLookupSingleAttempt(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	client := New(ts.URL, time.Second, logger.New("error", false))
	_ = client.Lookup(context.Background(), domain.SymbologyEAN13, "0012345678905")
	if calls != 1 {
		t.Errorf("Lookup() made %d requests, want exactly 1", calls)
	}
}
