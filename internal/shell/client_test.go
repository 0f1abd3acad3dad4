package shell

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edseguy/code-scanner/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(ts.URL, time.Second, logger.New("error", false)), ts
}

func TestCanOpenURL(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{
			name: "shell reports openable",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/can-open" {
					t.Errorf("path = %s, want /can-open", r.URL.Path)
				}
				if r.URL.Query().Get("url") != "https://example.com" {
					t.Errorf("url param = %q", r.URL.Query().Get("url"))
				}
				_, _ = w.Write([]byte(`{"canOpen":true}`))
			},
			want: true,
		},
		{
			name: "shell reports not openable",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"canOpen":false}`))
			},
			want: false,
		},
		{
			name: "shell error fails closed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: false,
		},
		{
			name: "malformed response fails closed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`nope`))
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler)
			if got := client.CanOpenURL(context.Background(), "https://example.com"); got != tt.want {
				t.Errorf("CanOpenURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanOpenURLUnreachableShell(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	client := New(ts.URL, time.Second, logger.New("error", false))
	if client.CanOpenURL(context.Background(), "https://example.com") {
		t.Error("CanOpenURL() with unreachable shell = true, want fail closed")
	}
}

func TestRequestCameraAccess(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		want    bool
		wantErr bool
	}{
		{name: "granted", body: `{"granted":true}`, status: http.StatusOK, want: true},
		{name: "denied", body: `{"granted":false}`, status: http.StatusOK, want: false},
		{name: "shell error", body: ``, status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/permission/request" {
					t.Errorf("path = %s, want /permission/request", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := client.RequestCameraAccess(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Error("RequestCameraAccess() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("RequestCameraAccess() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("RequestCameraAccess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCaptureCommands(t *testing.T) {
	var paths []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
	})

	ctx := context.Background()
	client.SetCaptureEnabled(ctx, false)
	client.SetTorch(ctx, true)
	client.SetZoom(ctx, 0.5)
	client.OpenURL(ctx, "https://example.com")
	client.SetClipboard(ctx, "copied")

	want := []string{"/capture/enabled", "/capture/torch", "/capture/zoom", "/open", "/clipboard"}
	if len(paths) != len(want) {
		t.Fatalf("shell received %d commands, want %d (%v)", len(paths), len(want), paths)
	}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("command %d hit %s, want %s", i, paths[i], p)
		}
	}
}
