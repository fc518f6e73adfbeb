package ytchannel

import (
	"encoding/json"
	"strings"
)

// Fields holds the raw values recovered from one page.
// Owner* and PlaylistName are empty for NoPlaylist.
type Fields struct {
	ChannelName  string
	ChannelID    string
	PlaylistName string
	OwnerName    string
	OwnerID      string
}

func (f *Fields) ptr(k field) *string {
	switch k {
	case fieldChannelName:
		return &f.ChannelName
	case fieldChannelID:
		return &f.ChannelID
	case fieldPlaylistName:
		return &f.PlaylistName
	case fieldOwnerName:
		return &f.OwnerName
	case fieldOwnerID:
		return &f.OwnerID
	}
	return nil
}

// Extract runs the rule set of variant v over body. Any rule without a
// match fails the whole extraction with ErrExtractionMismatch; nothing
// partial is returned.
func Extract(v PageVariant, body string) (Fields, error) {
	rules, ok := variantRules[v]
	if !ok {
		return Fields{}, &Error{Stage: StageExtract, Field: v.String(), Err: ErrExtractionMismatch}
	}

	d := newDocument(body)
	var f Fields
	var escaped []field
	for _, r := range rules {
		values, ok := r.match(d, &f)
		if !ok || len(values) != len(r.fields) {
			return Fields{}, &Error{Stage: StageExtract, Field: r.name, Err: ErrExtractionMismatch}
		}
		for i, k := range r.fields {
			if values[i] == "" {
				return Fields{}, &Error{Stage: StageExtract, Field: r.name, Err: ErrExtractionMismatch}
			}
			*f.ptr(k) = values[i]
		}
		if r.json {
			escaped = append(escaped, r.fields...)
		}
	}

	// Tag values were already entity-decoded by the HTML parser.
	for _, k := range escaped {
		p := f.ptr(k)
		*p = decodeJSONText(*p)
	}

	// PlaylistPage variants describe the owner only; the owner is the channel.
	if v == PlaylistPage || v == PlaylistPageAlbum {
		f.ChannelName, f.ChannelID = f.OwnerName, f.OwnerID
	}

	f.correctContributor(body)
	return f, nil
}

// correctContributor strips the single "by " that YouTube prefixes to the
// owner name of playlists that list contributors.
func (f *Fields) correctContributor(body string) {
	if !strings.Contains(body, contributorMarker) || f.OwnerName == "" {
		return
	}
	owner := f.OwnerName
	f.OwnerName = strings.TrimPrefix(owner, "by ")
	if f.ChannelName == owner && f.ChannelID == f.OwnerID {
		f.ChannelName = f.OwnerName
	}
}

// decodeJSONText resolves JSON string escapes (\u0026, \/) left in values
// scraped from inline JSON. Values that are not valid JSON text are kept.
func decodeJSONText(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err != nil {
		return s
	}
	return out
}
