package ytserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_ytchannel/internal/engine"
	"github.com/anatolykoptev/go_ytchannel/internal/toolutil"
	"github.com/anatolykoptev/go_ytchannel/internal/ytchannel"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ChannelLookupInput struct {
	URL string `json:"url" jsonschema:"YouTube link: video, shorts, embed, youtu.be, channel, @handle or playlist URL"`
}

type ChannelLookupOutput struct {
	Channel  ytchannel.Channel   `json:"channel"`
	Playlist *ytchannel.Playlist `json:"playlist"`
	Variant  string              `json:"variant"`
}

// RegisterTools registers the YouTube lookup tools on the given MCP server:
// youtube_channel_id.
func RegisterTools(server *mcp.Server) {
	registerChannelLookup(server, ytchannel.NewResolver(nil))
}

func registerChannelLookup(server *mcp.Server, r *ytchannel.Resolver) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_channel_id",
		Description: "Resolve a YouTube link to the channel that published it. Returns the channel name and UC... id; for playlist links also the playlist id, title and owner channel. Accepts watch, shorts, embed, youtu.be, channel, @handle and playlist URLs.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input ChannelLookupInput) (*mcp.CallToolResult, ChannelLookupOutput, error) {
		out, err := lookupChannel(ctx, r, input)
		return nil, out, err
	})
}

func lookupChannel(ctx context.Context, r *ytchannel.Resolver, input ChannelLookupInput) (ChannelLookupOutput, error) {
	rawURL := strings.TrimSpace(input.URL)
	if rawURL == "" {
		return ChannelLookupOutput{}, fmt.Errorf("url is required")
	}

	cacheKey := engine.CacheKey("youtube_channel_id", ytchannel.WatchURL(rawURL))
	if out, ok := toolutil.CacheLoadJSON[ChannelLookupOutput](ctx, cacheKey); ok {
		return out, nil
	}

	res, err := r.Resolve(ctx, rawURL)
	if err != nil {
		slog.Warn("youtube_channel_id error", slog.String("url", rawURL), slog.Any("error", err))
		return ChannelLookupOutput{}, fmt.Errorf("channel lookup failed: %w", err)
	}

	out := ChannelLookupOutput{
		Channel:  res.Channel,
		Playlist: res.Playlist,
		Variant:  res.Variant.String(),
	}
	toolutil.CacheStoreJSON(ctx, cacheKey, out)
	return out, nil
}
