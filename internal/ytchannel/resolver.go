// Package ytchannel resolves a YouTube link to the channel that published it
// and, for playlist links, the playlist and its owner.
//
// A lookup runs four stages in order: classify the URL, fetch the page,
// decide which page layout was served, and extract the fields that layout
// carries. Any failing stage aborts the lookup with an *Error.
package ytchannel

import (
	"context"
	"errors"
	"log/slog"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
)

// Fetcher retrieves a page and reports the URL it was finally served from.
type Fetcher interface {
	FetchPage(ctx context.Context, pageURL string) (engine.Page, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context, pageURL string) (engine.Page, error)

func (f FetcherFunc) FetchPage(ctx context.Context, pageURL string) (engine.Page, error) {
	return f(ctx, pageURL)
}

// Resolver runs lookups. It holds no per-lookup state and is safe for concurrent use.
type Resolver struct {
	fetcher Fetcher
}

// NewResolver returns a Resolver using f, or engine.FetchPage when f is nil.
func NewResolver(f Fetcher) *Resolver {
	if f == nil {
		f = FetcherFunc(engine.FetchPage)
	}
	return &Resolver{fetcher: f}
}

// Resolve looks up the channel (and playlist, if any) behind rawURL.
// On failure it returns nil and an *Error naming the stage that failed.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (*Result, error) {
	engine.IncrLookups()

	var res *Result
	err := engine.TrackOperation(ctx, "resolve", func(ctx context.Context) error {
		var err error
		res, err = r.resolve(ctx, rawURL)
		return err
	})
	if err != nil {
		engine.IncrLookupErrors()
		slog.Debug("lookup failed", slog.String("url", rawURL), slog.Any("error", err))
		return nil, err
	}
	return res, nil
}

func (r *Resolver) resolve(ctx context.Context, rawURL string) (*Result, error) {
	src, err := Classify(rawURL)
	if err != nil {
		return nil, err
	}

	page, err := r.fetcher.FetchPage(ctx, src.URL)
	if err != nil {
		return nil, stageErr(StageFetch, src.URL, err)
	}
	finalURL := page.FinalURL
	if finalURL == "" {
		finalURL = src.URL
	}
	slog.Debug("page fetched",
		slog.String("url", src.URL),
		slog.String("final_url", finalURL),
		slog.Int("status", page.StatusCode),
		slog.Int("bytes", len(page.Body)),
	)

	if err := CheckNotFound(finalURL, page.Body); err != nil {
		return nil, err
	}

	variant, err := ResolveVariant(src.PlaylistID, finalURL, page.Body)
	if err != nil {
		return nil, err
	}
	engine.IncrVariant(variant.String())

	fields, err := Extract(variant, page.Body)
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.URL == "" {
			e.URL = finalURL
		}
		slog.Debug("extraction mismatch",
			slog.String("variant", variant.String()),
			slog.String("head", engine.TruncateRunes(page.Body, 200, "...")),
		)
		return nil, err
	}

	return assemble(src, variant, fields), nil
}
