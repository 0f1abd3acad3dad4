// Package enrich looks up product information for scanned numeric codes.
// The upstream service is best effort: one attempt per scan, no retries,
// and every failure collapses into a fixed fallback annotation.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/edseguy/code-scanner/internal/domain"
	"github.com/edseguy/code-scanner/internal/logger"
	"github.com/edseguy/code-scanner/internal/utils"
)

const (
	// NotFoundAnnotation is returned on zero results and on any failure.
	NotFoundAnnotation = "No se encontró información del producto"

	annotationPrefix = "Producto: "
)

// Client performs product lookups against an upcitemdb-shaped endpoint:
// GET <base>?upc=<code>, JSON response with an items array whose first
// item's title is the datum of interest.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

// New creates a lookup client. The timeout bounds the single attempt.
func New(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

type lookupResponse struct {
	Items []struct {
		Title string `json:"title"`
	} `json:"items"`
}

// Lookup fetches the annotation for a scanned code. It never returns an
// error: network failures, timeouts, malformed responses, and empty result
// sets all yield the fixed not-found annotation, so enrichment can never
// abort persistence of a scan.
func (c *Client) Lookup(ctx context.Context, sym domain.Symbology, code string) string {
	reqURL := fmt.Sprintf("%s?upc=%s", c.baseURL, url.QueryEscape(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		c.logger.Warn("failed to build lookup request",
			logger.String("symbology", string(sym)),
			logger.Error(err))
		return NotFoundAnnotation
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("product lookup failed",
			logger.String("symbology", string(sym)),
			logger.Error(err))
		return NotFoundAnnotation
	}
	defer utils.MustClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("product lookup returned non-2xx",
			logger.String("symbology", string(sym)),
			logger.Int("status", resp.StatusCode))
		return NotFoundAnnotation
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Debug("product lookup response is malformed",
			logger.Error(err))
		return NotFoundAnnotation
	}

	if len(body.Items) == 0 {
		return NotFoundAnnotation
	}

	return annotationPrefix + body.Items[0].Title
}
