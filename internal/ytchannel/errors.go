package ytchannel

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by this package wraps exactly one of
// them (or a transport error at StageFetch) inside an *Error.
var (
	ErrNotYoutubeURL      = errors.New("not a youtube url")
	ErrHomepageURL        = errors.New("url is the youtube homepage")
	ErrPageNotFound       = errors.New("youtube page does not exist")
	ErrReservedPlaylist   = errors.New("reserved playlist has no public owner")
	ErrExtractionMismatch = errors.New("page markup did not match the expected shape")
)

// Pipeline stages reported in Error.Stage.
const (
	StageClassify = "classify"
	StageFetch    = "fetch"
	StageVariant  = "variant"
	StageExtract  = "extract"
)

// Error carries the stage and URL at which a lookup failed.
type Error struct {
	Stage string
	URL   string
	Field string // extraction rule or field name, if any
	Err   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %s [%s]: %v", e.Stage, e.URL, e.Field, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func stageErr(stage, url string, err error) *Error {
	return &Error{Stage: stage, URL: url, Err: err}
}
