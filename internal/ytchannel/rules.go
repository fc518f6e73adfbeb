package ytchannel

import (
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// field names one extracted value.
type field int

const (
	fieldChannelName field = iota
	fieldChannelID
	fieldPlaylistName
	fieldOwnerName
	fieldOwnerID
)

// document is a page body with a lazily built DOM for tag rules.
type document struct {
	body string

	once sync.Once
	dom  *goquery.Document
}

func newDocument(body string) *document {
	return &document{body: body}
}

func (d *document) html() *goquery.Document {
	d.once.Do(func() {
		dom, err := goquery.NewDocumentFromReader(strings.NewReader(d.body))
		if err == nil {
			d.dom = dom
		}
	})
	return d.dom
}

// rule extracts one or more fields from a document. Values already
// extracted by earlier rules of the same variant are passed in got.
// match returns one value per entry in fields, all non-empty, or ok=false.
// json marks values scraped from inline JSON, which still carry string escapes.
type rule struct {
	name   string
	fields []field
	json   bool
	match  func(d *document, got *Fields) (values []string, ok bool)
}

// regexRule applies re once (first match) and maps its capture groups to fields in order.
func regexRule(name string, re *regexp.Regexp, fields ...field) rule {
	return rule{
		name:   name,
		fields: fields,
		json:   true,
		match: func(d *document, _ *Fields) ([]string, bool) {
			m := re.FindStringSubmatch(d.body)
			if m == nil {
				return nil, false
			}
			return m[1:], true
		},
	}
}

// tagRule reads attr from the first element matching selector, falling
// back to scraping the raw tag with fallback when the DOM has no match.
func tagRule(name, selector, attr string, fallback *regexp.Regexp, f field) rule {
	return rule{
		name:   name,
		fields: []field{f},
		match: func(d *document, _ *Fields) ([]string, bool) {
			if dom := d.html(); dom != nil {
				if v, ok := dom.Find(selector).First().Attr(attr); ok && v != "" {
					return []string{v}, true
				}
			}
			if m := fallback.FindStringSubmatch(d.body); m != nil {
				return []string{html.UnescapeString(m[1])}, true
			}
			return nil, false
		},
	}
}

// Album playlist pages have no owner block; the owner's browseId is the
// nearest one following the quoted owner name anywhere in the page.
var albumOwnerIDRule = rule{
	name:   "album owner id",
	fields: []field{fieldOwnerID},
	json:   true,
	match: func(d *document, got *Fields) ([]string, bool) {
		if got.OwnerName == "" {
			return nil, false
		}
		re, err := regexp.Compile(`"` + regexp.QuoteMeta(got.OwnerName) + `".*?browseId":"([^"]+)`)
		if err != nil {
			return nil, false
		}
		m := re.FindStringSubmatch(d.body)
		if m == nil {
			return nil, false
		}
		return m[1:], true
	},
}

var (
	linkNameRe      = regexp.MustCompile(`<link itemprop="name" content="([^"]+)"`)
	metaChannelIDRe = regexp.MustCompile(`<meta itemprop="channelId" content="([^"]+)"`)

	// All JSON-fragment patterns are non-greedy and take the first match.
	playlistPageOwnerRe = regexp.MustCompile(`ownerText":\{.*?text":"([^"]+).*?browseEndpoint":\{"browseId":"([^"]+).*?playlistMetadataRenderer":\{"title":"([^"]+)`)
	albumPageSubtitleRe = regexp.MustCompile(`subtitle":\{"simpleText":"(.+?)(?: • Album)?".*?playlistMetadataRenderer":\{"title":"([^"]+)`)
	watchPlaylistRe     = regexp.MustCompile(`playlist":\{"title":"([^"]+).*?ownerName":\{"simpleText":"([^"]+)".*?browseId":"([^"]+)`)
	watchAlbumRe        = regexp.MustCompile(`playlistShareUrl.*?longBylineText":\{"runs":\[\{"text":"([^"]+).*?browseId":"([^"]+).*?titleText":\{"runs":\[\{"text":"([^"]+)`)
)

var (
	channelNameRule = tagRule("channel name", `link[itemprop="name"]`, "content", linkNameRe, fieldChannelName)
	channelIDRule   = tagRule("channel id", `meta[itemprop="channelId"]`, "content", metaChannelIDRe, fieldChannelID)
)

// variantRules is the ordered extraction rule set for every page variant.
var variantRules = map[PageVariant][]rule{
	NoPlaylist: {
		channelNameRule,
		channelIDRule,
	},
	PlaylistPage: {
		regexRule("playlist owner block", playlistPageOwnerRe, fieldOwnerName, fieldOwnerID, fieldPlaylistName),
	},
	PlaylistPageAlbum: {
		regexRule("album subtitle", albumPageSubtitleRe, fieldOwnerName, fieldPlaylistName),
		albumOwnerIDRule,
	},
	WatchWithPlaylist: {
		channelNameRule,
		channelIDRule,
		regexRule("watch playlist block", watchPlaylistRe, fieldPlaylistName, fieldOwnerName, fieldOwnerID),
	},
	WatchWithAlbumPlaylist: {
		channelNameRule,
		channelIDRule,
		regexRule("watch album block", watchAlbumRe, fieldOwnerName, fieldOwnerID, fieldPlaylistName),
	},
}
