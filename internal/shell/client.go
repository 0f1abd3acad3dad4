// Package shell talks to the mobile shell's callback server. The shell owns
// everything the pipeline treats as external: the camera, the permission
// dialog, the clipboard, and opening URLs in the platform browser.
package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/edseguy/code-scanner/internal/logger"
	"github.com/edseguy/code-scanner/internal/utils"
)

// Client is the HTTP bridge to the device shell.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

// New creates a shell client with a shared per-call timeout.
func New(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// CanOpenURL asks the shell whether it has a handler for the URL.
// Fails closed: any transport or decode error reports not openable.
func (c *Client) CanOpenURL(ctx context.Context, target string) bool {
	reqURL := fmt.Sprintf("%s/can-open?url=%s", c.baseURL, url.QueryEscape(target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("can-open check failed, treating as not openable",
			logger.String("url", target),
			logger.Error(err))
		return false
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var body struct {
		CanOpen bool `json:"canOpen"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return body.CanOpen
}

// OpenURL tells the shell to open the URL externally. Fire and forget.
func (c *Client) OpenURL(ctx context.Context, target string) {
	c.post(ctx, "/open", map[string]string{"url": target})
}

// SetClipboard copies text to the device clipboard. Fire and forget.
func (c *Client) SetClipboard(ctx context.Context, text string) {
	c.post(ctx, "/clipboard", map[string]string{"text": text})
}

// RequestCameraAccess asks the shell to request camera permission and
// reports whether it was granted.
func (c *Client) RequestCameraAccess(ctx context.Context) (bool, error) {
	resp, err := c.postWithResponse(ctx, "/permission/request", nil)
	if err != nil {
		return false, fmt.Errorf("failed to request camera access: %w", err)
	}
	defer utils.MustClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("permission request returned status %d", resp.StatusCode)
	}

	var body struct {
		Granted bool `json:"granted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("failed to decode permission response: %w", err)
	}
	return body.Granted, nil
}

// SetCaptureEnabled starts or stops event production at the capture source.
func (c *Client) SetCaptureEnabled(ctx context.Context, enabled bool) {
	c.post(ctx, "/capture/enabled", map[string]bool{"enabled": enabled})
}

// SetTorch toggles the torch.
func (c *Client) SetTorch(ctx context.Context, on bool) {
	c.post(ctx, "/capture/torch", map[string]bool{"on": on})
}

// SetZoom sets the capture zoom level. Callers clamp to [0.0, 1.0].
func (c *Client) SetZoom(ctx context.Context, level float64) {
	c.post(ctx, "/capture/zoom", map[string]float64{"level": level})
}

// post sends a fire-and-forget command; errors are logged only.
func (c *Client) post(ctx context.Context, path string, payload interface{}) {
	resp, err := c.postWithResponse(ctx, path, payload)
	if err != nil {
		c.logger.Warn("shell command failed",
			logger.String("path", path),
			logger.Error(err))
		return
	}
	utils.Close(resp.Body)
}

func (c *Client) postWithResponse(ctx context.Context, path string, payload interface{}) (*http.Response, error) {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return nil, fmt.Errorf("failed to encode shell payload: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build shell request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.http.Do(req)
}
