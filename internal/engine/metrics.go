package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	Lookups       atomic.Int64
	LookupErrors  atomic.Int64
	FetchRequests atomic.Int64
	FetchErrors   atomic.Int64
	FetchRetries  atomic.Int64

	NoPlaylist             atomic.Int64
	PlaylistPage           atomic.Int64
	PlaylistPageAlbum      atomic.Int64
	WatchWithPlaylist      atomic.Int64
	WatchWithAlbumPlaylist atomic.Int64
}

// metricKeys fixes the output order of FormatMetrics.
var metricKeys = []string{
	"lookups", "lookup_errors",
	"fetch_requests", "fetch_errors", "fetch_retries",
	"variant_no_playlist", "variant_playlist_page", "variant_playlist_page_album",
	"variant_watch_with_playlist", "variant_watch_with_album_playlist",
	"cache_hits", "cache_misses",
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"lookups":                           metrics.Lookups.Load(),
		"lookup_errors":                     metrics.LookupErrors.Load(),
		"fetch_requests":                    metrics.FetchRequests.Load(),
		"fetch_errors":                      metrics.FetchErrors.Load(),
		"fetch_retries":                     metrics.FetchRetries.Load(),
		"variant_no_playlist":               metrics.NoPlaylist.Load(),
		"variant_playlist_page":             metrics.PlaylistPage.Load(),
		"variant_playlist_page_album":       metrics.PlaylistPageAlbum.Load(),
		"variant_watch_with_playlist":       metrics.WatchWithPlaylist.Load(),
		"variant_watch_with_album_playlist": metrics.WatchWithAlbumPlaylist.Load(),
		"cache_hits":                        hits,
		"cache_misses":                      misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the ytchannel sub-package.
func IncrLookups()      { metrics.Lookups.Add(1) }
func IncrLookupErrors() { metrics.LookupErrors.Add(1) }

// IncrVariant counts a resolved page variant by its String() name.
// Unknown names are ignored.
func IncrVariant(name string) {
	switch name {
	case "no_playlist":
		metrics.NoPlaylist.Add(1)
	case "playlist_page":
		metrics.PlaylistPage.Add(1)
	case "playlist_page_album":
		metrics.PlaylistPageAlbum.Add(1)
	case "watch_with_playlist":
		metrics.WatchWithPlaylist.Add(1)
	case "watch_with_album_playlist":
		metrics.WatchWithAlbumPlaylist.Add(1)
	}
}

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
