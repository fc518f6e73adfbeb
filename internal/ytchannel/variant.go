package ytchannel

import (
	"errors"
	"strings"
)

// PageVariant identifies which page layout produced a fetched document.
type PageVariant int

const (
	VariantUnknown PageVariant = iota
	NoPlaylist
	PlaylistPage
	PlaylistPageAlbum
	WatchWithPlaylist
	WatchWithAlbumPlaylist
)

var variantNames = map[PageVariant]string{
	VariantUnknown:         "unknown",
	NoPlaylist:             "no_playlist",
	PlaylistPage:           "playlist_page",
	PlaylistPageAlbum:      "playlist_page_album",
	WatchWithPlaylist:      "watch_with_playlist",
	WatchWithAlbumPlaylist: "watch_with_album_playlist",
}

func (v PageVariant) String() string {
	if s, ok := variantNames[v]; ok {
		return s
	}
	return "unknown"
}

// MarshalText encodes the variant by name.
func (v PageVariant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a variant name written by MarshalText.
func (v *PageVariant) UnmarshalText(b []byte) error {
	for k, name := range variantNames {
		if name == string(b) {
			*v = k
			return nil
		}
	}
	return errors.New("unknown page variant " + string(b))
}

// HasPlaylist reports whether the variant carries playlist identity.
func (v PageVariant) HasPlaylist() bool {
	return v != NoPlaylist && v != VariantUnknown
}

// Markers inspected in the final URL and page body.
const (
	playlistPathMarker = "/playlist?"
	watchPathMarker    = "/watch?"
	albumNameMarker    = `"albumName":`
	albumTypeMarker    = `:"ALBUM"`
	artistBadgeMarker  = "OFFICIAL_ARTIST_BADGE"
	contributorMarker  = `"contributorName":`
	homeFilterMarker   = "STYLE_HOME_FILTER"
	errorPageMarker    = "/error?src=404"
)

// ResolveVariant decides which layout the page is. Every combination maps
// to exactly one variant; a playlist link that landed on neither a playlist
// nor a watch page is reported as ErrExtractionMismatch.
func ResolveVariant(playlistID, finalURL, body string) (PageVariant, error) {
	switch {
	case playlistID == "":
		return NoPlaylist, nil
	case strings.Contains(finalURL, playlistPathMarker):
		if strings.Contains(body, albumNameMarker) {
			return PlaylistPageAlbum, nil
		}
		return PlaylistPage, nil
	case strings.Contains(finalURL, watchPathMarker):
		if strings.Contains(body, albumTypeMarker) || strings.Contains(body, artistBadgeMarker) {
			return WatchWithAlbumPlaylist, nil
		}
		return WatchWithPlaylist, nil
	}
	return VariantUnknown, &Error{Stage: StageVariant, URL: finalURL, Field: "list=" + playlistID, Err: ErrExtractionMismatch}
}

// CheckNotFound reports ErrPageNotFound when YouTube redirected to its root
// or served one of its "does not exist" pages, whatever the HTTP status was.
func CheckNotFound(finalURL, body string) error {
	if isSiteRoot(finalURL) || strings.Contains(body, homeFilterMarker) || strings.Contains(body, errorPageMarker) {
		return stageErr(StageFetch, finalURL, ErrPageNotFound)
	}
	return nil
}
