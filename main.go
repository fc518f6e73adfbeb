// go_ytchannel — YouTube channel & playlist lookup MCP server.
//
// Exposes one MCP tool: youtube_channel_id.
// Runs as HTTP MCP server, or resolves a single URL when one is given as an
// argument and prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_ytchannel/internal/engine"
	"github.com/anatolykoptev/go_ytchannel/internal/ytchannel"
	"github.com/anatolykoptev/go_ytchannel/internal/ytserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initEngine()

	if len(os.Args) > 1 {
		os.Exit(runOnce(os.Args[1]))
	}

	slog.Info("starting go_ytchannel",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_ytchannel",
		Version: version,
	}, nil)

	ytserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 1))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_ytchannel",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 60 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

// runOnce resolves rawURL, prints the result to stdout and returns the exit code.
func runOnce(rawURL string) int {
	res, err := ytchannel.NewResolver(nil).Resolve(context.Background(), rawURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		slog.Error("encode result", slog.Any("error", err))
		return 1
	}
	return 0
}

func initEngine() {
	c := engine.Config{
		FetchTimeout:         env.Duration("FETCH_TIMEOUT", 15*time.Second),
		MaxBodyBytes:         int64(env.Int("MAX_BODY_BYTES", 8<<20)),
		FetchRPS:             env.Float("FETCH_RPS", 0),
		FetchBurst:           env.Int("FETCH_BURST", 1),
		CacheTTL:             env.Duration("CACHE_TTL", 0),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
	}

	engine.Init(c)

	engine.InitCache(env.Str("REDIS_URL", ""), c.CacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
