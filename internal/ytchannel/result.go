package ytchannel

import (
	"log/slog"
)

// Channel is a channel's display name and stable UC... id.
type Channel struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Playlist is a playlist's identity and the channel it is attributed to.
// For contributor playlists OwnerChannel is the attributed contributor
// as shown on the page; true ownership is not inferred.
type Playlist struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	OwnerChannel Channel `json:"owner_channel"`
}

// Result is the outcome of one lookup. Playlist is nil for links without a playlist.
type Result struct {
	Channel  Channel     `json:"channel"`
	Playlist *Playlist   `json:"playlist"`
	Variant  PageVariant `json:"variant"`
}

// assemble builds the Result for a successful extraction and logs progress.
func assemble(src SourceURL, v PageVariant, f Fields) *Result {
	res := &Result{
		Channel: Channel{Name: f.ChannelName, ID: f.ChannelID},
		Variant: v,
	}
	if v.HasPlaylist() {
		res.Playlist = &Playlist{
			ID:           src.PlaylistID,
			Name:         f.PlaylistName,
			OwnerChannel: Channel{Name: f.OwnerName, ID: f.OwnerID},
		}
		slog.Info("playlist resolved",
			slog.String("playlist_id", res.Playlist.ID),
			slog.String("playlist", res.Playlist.Name),
			slog.String("owner_id", res.Playlist.OwnerChannel.ID),
			slog.String("owner", res.Playlist.OwnerChannel.Name),
		)
	}
	slog.Info("channel resolved",
		slog.String("channel_id", res.Channel.ID),
		slog.String("channel", res.Channel.Name),
		slog.String("variant", v.String()),
	)
	return res
}
