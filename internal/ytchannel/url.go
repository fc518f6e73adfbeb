package ytchannel

import (
	"net/url"
	"regexp"
	"strings"
)

// SourceURL is a validated YouTube link and the identifiers embedded in it.
// At most one of PlaylistID and EmbedVideoID is set; a list= parameter wins.
type SourceURL struct {
	Raw          string // input as given
	URL          string // fetch target, embed links rewritten to /watch
	PlaylistID   string
	EmbedVideoID string
}

var (
	// ytHostRe matches youtube.com and its national/nocookie variants, plus youtu.be.
	ytHostRe = regexp.MustCompile(`^(?:(?:m|www|music)\.)?(?:youtube(?:-nocookie)?\.[a-z]{2,3}(?:\.[a-z]{2})?|youtu\.be)$`)

	// ytPathRe lists the accepted path shapes on youtube.com hosts.
	ytPathRe = regexp.MustCompile(`^/(?:(?:watch|playlist)/?$|(?:shorts|channel|user|c|embed)/[^/]+|@[^/]+)`)

	shortLinkPathRe = regexp.MustCompile(`^/[\w-]+/?$`)
	embedPathRe     = regexp.MustCompile(`^/embed/([\w-]+)`)
	listParamRe     = regexp.MustCompile(`(?:^|&)list=([\w-]+)`)
)

// reservedPlaylists are per-user playlists that resolve differently for every viewer.
var reservedPlaylists = map[string]string{
	"LL": "Liked Videos",
	"WL": "Watch Later",
}

// Classify validates rawURL and extracts its playlist or embed video id.
// Embed links are rewritten to the equivalent watch URL, because the embed
// player page often renders a "video unavailable" placeholder instead of
// the channel metadata.
func Classify(rawURL string) (SourceURL, error) {
	raw := strings.TrimSpace(rawURL)
	src := SourceURL{Raw: rawURL}

	u, err := parseLenient(raw)
	if err != nil {
		return src, stageErr(StageClassify, rawURL, ErrNotYoutubeURL)
	}
	host := strings.ToLower(u.Hostname())
	if !ytHostRe.MatchString(host) {
		return src, stageErr(StageClassify, rawURL, ErrNotYoutubeURL)
	}

	if (u.Path == "" || u.Path == "/") && u.RawQuery == "" {
		return src, stageErr(StageClassify, rawURL, ErrHomepageURL)
	}

	if host == "youtu.be" {
		if !shortLinkPathRe.MatchString(u.Path) {
			return src, stageErr(StageClassify, rawURL, ErrNotYoutubeURL)
		}
	} else if !ytPathRe.MatchString(u.Path) {
		return src, stageErr(StageClassify, rawURL, ErrNotYoutubeURL)
	}

	if m := listParamRe.FindStringSubmatch(u.RawQuery); m != nil {
		src.PlaylistID = m[1]
	}
	if name, ok := reservedPlaylists[src.PlaylistID]; ok {
		return src, &Error{Stage: StageClassify, URL: rawURL, Field: name, Err: ErrReservedPlaylist}
	}

	src.URL = u.String()
	if m := embedPathRe.FindStringSubmatch(u.Path); m != nil {
		if src.PlaylistID == "" {
			src.EmbedVideoID = m[1]
		}
		src.URL = embedToWatch(u, m[1])
	}
	return src, nil
}

// parseLenient parses s as an http(s) URL, assuming https when no scheme is given.
func parseLenient(s string) (*url.URL, error) {
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		if strings.Contains(s, "://") {
			return nil, ErrNotYoutubeURL
		}
		s = "https://" + s
	}
	return url.Parse(s)
}

// embedToWatch builds the watch URL for an embed link, keeping any extra
// query parameters after v=.
func embedToWatch(u *url.URL, videoID string) string {
	w := *u
	if strings.Contains(strings.ToLower(w.Host), "youtube-nocookie") {
		w.Host = "www.youtube.com"
	}
	w.Path = "/watch"
	w.RawPath = ""
	q := "v=" + videoID
	if u.RawQuery != "" {
		q += "&" + u.RawQuery
	}
	w.RawQuery = q
	return w.String()
}

// WatchURL rewrites an embed link to its watch form and returns any other
// URL unchanged. Applying it twice yields the same result.
func WatchURL(rawURL string) string {
	u, err := parseLenient(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	m := embedPathRe.FindStringSubmatch(u.Path)
	if m == nil {
		return rawURL
	}
	return embedToWatch(u, m[1])
}

// isSiteRoot reports whether pageURL is a youtube host with no path and no query.
func isSiteRoot(pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	return ytHostRe.MatchString(strings.ToLower(u.Hostname())) &&
		(u.Path == "" || u.Path == "/") && u.RawQuery == ""
}
