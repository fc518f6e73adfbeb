package ytchannel

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Trimmed-down page bodies. Inline JSON stays on one line as on the live site.
const (
	videoTags = `<html><head><title>Some video</title></head><body>` +
		`<span itemprop="author" itemscope itemtype="http://schema.org/Person">` +
		`<link itemprop="url" href="http://www.youtube.com/@example">` +
		`<link itemprop="name" content="Example Channel"></span>` +
		`<meta itemprop="channelId" content="UC12345">`

	noPlaylistPage = videoTags + `</body></html>`

	playlistPageBody = `<html><body><script>var ytInitialData = {"header":{"playlistHeaderRenderer":{` +
		`"ownerText":{"runs":[{"text":"Owner Name","navigationEndpoint":{"browseEndpoint":{"browseId":"UCowner"}}}]}}},` +
		`"microformat":{"playlistMetadataRenderer":{"title":"Road Trip"}}};</script></body></html>`

	albumPageBody = `<html><body><script>var ytInitialData = {"albumName":"Greatest Hits",` +
		`"subtitle":{"simpleText":"Some Artist • Album"},` +
		`"microformat":{"playlistMetadataRenderer":{"title":"Greatest Hits"}},` +
		`"byline":{"runs":[{"text":"Some Artist","navigationEndpoint":{"browseEndpoint":{"browseId":"UCartist"}}}]}};</script></body></html>`

	watchPlaylistBody = videoTags + `<script>var ytInitialData = {"contents":{"playlist":{"playlist":{"title":"Mix Tape",` +
		`"contents":[],"ownerName":{"simpleText":"List Owner"},` +
		`"ownerNav":{"browseEndpoint":{"browseId":"UClistowner"}}}}}};</script></body></html>`

	watchAlbumBody = videoTags + `<script>var ytInitialData = {"playlist":{"playlistShareUrl":"http://www.youtube.com/playlist?list=OLAK5",` +
		`"longBylineText":{"runs":[{"text":"Album Artist","navigationEndpoint":{"browseEndpoint":{"browseId":"UCalbum"}}}]},` +
		`"titleText":{"runs":[{"text":"Album Title"}]},"musicVideoType":"ALBUM"}};</script></body></html>`
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		variant PageVariant
		body    string
		want    Fields
	}{
		{
			name:    "no playlist",
			variant: NoPlaylist,
			body:    noPlaylistPage,
			want:    Fields{ChannelName: "Example Channel", ChannelID: "UC12345"},
		},
		{
			name:    "playlist page",
			variant: PlaylistPage,
			body:    playlistPageBody,
			want: Fields{
				ChannelName: "Owner Name", ChannelID: "UCowner",
				PlaylistName: "Road Trip", OwnerName: "Owner Name", OwnerID: "UCowner",
			},
		},
		{
			name:    "album playlist page",
			variant: PlaylistPageAlbum,
			body:    albumPageBody,
			want: Fields{
				ChannelName: "Some Artist", ChannelID: "UCartist",
				PlaylistName: "Greatest Hits", OwnerName: "Some Artist", OwnerID: "UCartist",
			},
		},
		{
			name:    "album subtitle without suffix",
			variant: PlaylistPageAlbum,
			body:    strings.Replace(albumPageBody, "Some Artist • Album", "Some Artist", 1),
			want: Fields{
				ChannelName: "Some Artist", ChannelID: "UCartist",
				PlaylistName: "Greatest Hits", OwnerName: "Some Artist", OwnerID: "UCartist",
			},
		},
		{
			name:    "watch with playlist",
			variant: WatchWithPlaylist,
			body:    watchPlaylistBody,
			want: Fields{
				ChannelName: "Example Channel", ChannelID: "UC12345",
				PlaylistName: "Mix Tape", OwnerName: "List Owner", OwnerID: "UClistowner",
			},
		},
		{
			name:    "watch with album playlist",
			variant: WatchWithAlbumPlaylist,
			body:    watchAlbumBody,
			want: Fields{
				ChannelName: "Example Channel", ChannelID: "UC12345",
				PlaylistName: "Album Title", OwnerName: "Album Artist", OwnerID: "UCalbum",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.variant, tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_Mismatch(t *testing.T) {
	tests := []struct {
		name     string
		variant  PageVariant
		body     string
		wantRule string
	}{
		{"missing channel id", NoPlaylist, strings.Replace(noPlaylistPage, `<meta itemprop="channelId" content="UC12345">`, "", 1), "channel id"},
		{"empty channel name", NoPlaylist, strings.Replace(noPlaylistPage, `content="Example Channel"`, `content=""`, 1), "channel name"},
		{"no owner block", PlaylistPage, noPlaylistPage, "playlist owner block"},
		{"album owner not linked", PlaylistPageAlbum, strings.Replace(albumPageBody, `"browseId":"UCartist"`, `"id":"UCartist"`, 1), "album owner id"},
		{"watch page lost playlist", WatchWithPlaylist, noPlaylistPage, "watch playlist block"},
		{"watch album without byline", WatchWithAlbumPlaylist, noPlaylistPage, "watch album block"},
		{"unknown variant", VariantUnknown, noPlaylistPage, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.variant, tt.body)
			assert.Equal(t, Fields{}, got)
			require.ErrorIs(t, err, ErrExtractionMismatch)
			var e *Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, StageExtract, e.Stage)
			assert.Equal(t, tt.wantRule, e.Field)
		})
	}
}

func TestExtract_FirstTagWins(t *testing.T) {
	body := strings.Replace(noPlaylistPage, "</body>",
		`<link itemprop="name" content="Second Name"><meta itemprop="channelId" content="UCsecond"></body>`, 1)
	got, err := Extract(NoPlaylist, body)
	require.NoError(t, err)
	assert.Equal(t, "Example Channel", got.ChannelName)
	assert.Equal(t, "UC12345", got.ChannelID)
}

func TestExtract_Unescape(t *testing.T) {
	body := strings.Replace(noPlaylistPage, "Example Channel", "Tom &amp; Jerry", 1)
	got, err := Extract(NoPlaylist, body)
	require.NoError(t, err)
	assert.Equal(t, "Tom & Jerry", got.ChannelName)

	body = strings.Replace(playlistPageBody, "Road Trip", `Rock \u0026 Roll`, 1)
	got, err = Extract(PlaylistPage, body)
	require.NoError(t, err)
	assert.Equal(t, "Rock & Roll", got.PlaylistName)

	body = strings.Replace(playlistPageBody, "Owner Name", `AC\/DC`, 1)
	got, err = Extract(PlaylistPage, body)
	require.NoError(t, err)
	assert.Equal(t, "AC/DC", got.OwnerName)
	assert.Equal(t, "AC/DC", got.ChannelName)
}

func TestExtract_TagValuesKeepBackslashes(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unicode escape", `Back\u0041slash`},
		{"escaped slash", `a\/b`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := strings.Replace(watchPlaylistBody, "Example Channel", tt.content, 1)
			got, err := Extract(WatchWithPlaylist, body)
			require.NoError(t, err)
			assert.Equal(t, tt.content, got.ChannelName)
			assert.Equal(t, "UC12345", got.ChannelID)
		})
	}
}

func TestExtract_NearestBrowseID(t *testing.T) {
	t.Run("playlist owner block", func(t *testing.T) {
		body := strings.Replace(playlistPageBody, `"microformat"`,
			`"related":{"browseEndpoint":{"browseId":"UCrelated"}},"microformat"`, 1)
		got, err := Extract(PlaylistPage, body)
		require.NoError(t, err)
		assert.Equal(t, "UCowner", got.OwnerID)
		assert.Equal(t, "UCowner", got.ChannelID)
	})

	t.Run("album later ids", func(t *testing.T) {
		body := strings.Replace(albumPageBody, "}};</script>",
			`},"more":[{"text":"Some Artist","browseId":"UCsecond"},{"browseId":"UCthird"}]};</script>`, 1)
		got, err := Extract(PlaylistPageAlbum, body)
		require.NoError(t, err)
		assert.Equal(t, "UCartist", got.OwnerID)
	})

	t.Run("album decoy names", func(t *testing.T) {
		// A longer name with its own id comes first; the first exact mention has no id of its own.
		body := strings.Replace(albumPageBody, `{"albumName"`,
			`{"fans":{"text":"Some Artist Fans","browseId":"UCfans"},"albumName"`, 1)
		body = strings.Replace(body, `"byline"`, `"credit":"Some Artist","byline"`, 1)
		got, err := Extract(PlaylistPageAlbum, body)
		require.NoError(t, err)
		assert.Equal(t, "UCartist", got.OwnerID)
	})

	t.Run("watch playlist block", func(t *testing.T) {
		body := strings.Replace(watchPlaylistBody, "}}}}};</script>",
			`}}},"next":{"browseId":"UCnext"}}};</script>`, 1)
		got, err := Extract(WatchWithPlaylist, body)
		require.NoError(t, err)
		assert.Equal(t, "UClistowner", got.OwnerID)
	})
}

func TestExtract_Contributor(t *testing.T) {
	curated := strings.Replace(playlistPageBody, "Owner Name", "by Some Curator", 1)

	t.Run("without marker", func(t *testing.T) {
		got, err := Extract(PlaylistPage, curated)
		require.NoError(t, err)
		assert.Equal(t, "by Some Curator", got.OwnerName)
	})

	t.Run("with marker", func(t *testing.T) {
		body := strings.Replace(curated, `"microformat"`, `"contributorName":{"runs":[]},"microformat"`, 1)
		got, err := Extract(PlaylistPage, body)
		require.NoError(t, err)
		assert.Equal(t, "Some Curator", got.OwnerName)
		assert.Equal(t, "Some Curator", got.ChannelName)
		assert.Equal(t, "UCowner", got.OwnerID)
	})

	t.Run("strips once", func(t *testing.T) {
		body := strings.Replace(playlistPageBody, "Owner Name", "by by Name", 1)
		body = strings.Replace(body, `"microformat"`, `"contributorName":{},"microformat"`, 1)
		got, err := Extract(PlaylistPage, body)
		require.NoError(t, err)
		assert.Equal(t, "by Name", got.OwnerName)
	})

	t.Run("watch channel untouched", func(t *testing.T) {
		body := strings.Replace(watchPlaylistBody, "List Owner", "by List Owner", 1)
		body = strings.Replace(body, `"contents":[]`, `"contents":[],"contributorName":{}`, 1)
		got, err := Extract(WatchWithPlaylist, body)
		require.NoError(t, err)
		assert.Equal(t, "List Owner", got.OwnerName)
		assert.Equal(t, "Example Channel", got.ChannelName)
	})
}
