package engine

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Page is a fetched HTML document together with the URL it was finally
// served from after redirects.
type Page struct {
	FinalURL   string
	Body       string
	StatusCode int
}

// newFetchClient creates an HTTP client with proper settings for web scraping.
func newFetchClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30 * time.Second,
			DisableCompression:  false,
			TLSHandshakeTimeout: 15 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
}

// FetchPage GETs pageURL following redirects and returns the final URL and
// body. Transient failures are retried with exponential backoff; any other
// status is returned as-is so the caller can inspect the page body.
func FetchPage(ctx context.Context, pageURL string) (page Page, err error) {
	metrics.FetchRequests.Add(1)
	defer func() {
		if err != nil {
			metrics.FetchErrors.Add(1)
		}
	}()

	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := cfg.HTTPClient
	if client == nil {
		client = newFetchClient()
	}

	operation := func() (Page, error) {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return Page{}, backoff.Permanent(err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return Page{}, backoff.Permanent(err)
		}
		for k, v := range ChromeHeaders() {
			req.Header.Set(k, v)
		}
		req.Header.Set("User-Agent", RandomUserAgent())
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept-Encoding", "gzip")
		// Skips the EU consent interstitial, which carries none of the page metadata.
		req.Header.Set("Cookie", "CONSENT=YES+")

		resp, err := client.Do(req)
		if err != nil {
			return Page{}, backoff.Permanent(err)
		}
		defer resp.Body.Close()

		if IsRetryableStatus(resp.StatusCode) {
			return Page{}, fmt.Errorf("status %d", resp.StatusCode)
		}

		body, err := readResponseBody(resp, cfg.MaxBodyBytes)
		if err != nil {
			return Page{}, backoff.Permanent(fmt.Errorf("read body: %w", err))
		}

		return Page{
			FinalURL:   resp.Request.URL.String(),
			Body:       string(body),
			StatusCode: resp.StatusCode,
		}, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.MaxInterval = 10 * time.Second

	notify := func(err error, wait time.Duration) {
		metrics.FetchRetries.Add(1)
		slog.Debug("fetch: retrying", slog.String("url", pageURL), slog.Duration("wait", wait), slog.Any("error", err))
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(3),
		backoff.WithMaxElapsedTime(30*time.Second),
		backoff.WithNotify(notify),
	)
}

// readResponseBody reads at most limit bytes of the response body, handling
// gzip decompression if needed.
func readResponseBody(resp *http.Response, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		return io.ReadAll(io.LimitReader(gz, limit))
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}
