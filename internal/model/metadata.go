package model

import (
	"fmt"
	"regexp"
	"strings"
)

// CoverArt describes remote cover art.
type CoverArt struct {
	URL    string
	Width  int
	Height int
}

var (
	googleSizeRe = regexp.MustCompile(`=w\d+-h\d+`)
	rwaSuffixRe  = regexp.MustCompile(`-rwa$`)
)

// thumbnailHost serves video thumbnails, which are 16:9 even for official songs.
const thumbnailHost = "https://i.ytimg.com"

// CoverArtFromThumbnail builds CoverArt from a thumbnail URL, asking the image
// host for the 1000x1000 rendition when the URL carries a size directive.
func CoverArtFromThumbnail(url string, width, height int) CoverArt {
	url = googleSizeRe.ReplaceAllString(url, "=w1000-h1000")
	url = rwaSuffixRe.ReplaceAllString(url, "")
	return CoverArt{URL: url, Width: width, Height: height}
}

// Exists reports whether a cover URL is known.
func (c CoverArt) Exists() bool {
	return c.URL != ""
}

// AspectRatio returns the reduced ratio such as "16:9", or "unknown".
func (c CoverArt) AspectRatio() string {
	if c.Width <= 0 || c.Height <= 0 {
		return "unknown"
	}
	d := gcd(c.Width, c.Height)
	return fmt.Sprintf("%d:%d", c.Width/d, c.Height/d)
}

// IsSquare reports whether width equals height.
func (c CoverArt) IsSquare() bool {
	return c.Width == c.Height
}

// RequiresCropping reports whether the artwork looks like a video thumbnail.
// Other non-square images are left as they are.
func (c CoverArt) RequiresCropping() bool {
	return c.AspectRatio() == "16:9" || strings.HasPrefix(c.URL, thumbnailHost)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Enrichment holds supplementary tag fields from a secondary metadata source.
// Zero values mean absent.
type Enrichment struct {
	Genre       string
	TrackNumber int
	TrackCount  int
	DiscNumber  int
	DiscCount   int
	ReleaseDate string
	Copyright   string
}

// IsEmpty reports whether genre, track number and release date are all absent.
func (e Enrichment) IsEmpty() bool {
	return e.Genre == "" && e.TrackNumber <= 0 && e.ReleaseDate == ""
}

// TrackMetadata is the immutable description of one track.
//
// Values are never modified in place; WithEnrichment returns a new value.
type TrackMetadata struct {
	Title      string
	Artists    Artists
	Album      string
	Year       string
	CoverArt   CoverArt
	DurationMs int64

	enrichment *Enrichment
}

// NewTrackMetadata creates metadata without enrichment.
func NewTrackMetadata(title string, artists Artists, album, year string, cover CoverArt) TrackMetadata {
	return TrackMetadata{
		Title:    strings.TrimSpace(title),
		Artists:  artists,
		Album:    strings.TrimSpace(album),
		Year:     strings.TrimSpace(year),
		CoverArt: cover,
	}
}

// WithDuration returns a copy with the given duration in milliseconds.
func (m TrackMetadata) WithDuration(ms int64) TrackMetadata {
	m.DurationMs = ms
	return m
}

// WithEnrichment returns a copy carrying e. The receiver is left untouched.
func (m TrackMetadata) WithEnrichment(e Enrichment) TrackMetadata {
	m.enrichment = &e
	return m
}

// Enrichment returns the merged enrichment, if any.
func (m TrackMetadata) Enrichment() (Enrichment, bool) {
	if m.enrichment == nil {
		return Enrichment{}, false
	}
	return *m.enrichment, true
}

// IsComplete reports whether the metadata may be used for a completed download.
func (m TrackMetadata) IsComplete() bool {
	return strings.TrimSpace(m.Title) != "" && !m.Artists.IsEmpty() && m.CoverArt.Exists()
}

// RequiresEnrichment reports whether no useful enrichment has been merged yet.
func (m TrackMetadata) RequiresEnrichment() bool {
	return m.enrichment == nil || m.enrichment.IsEmpty()
}

// TrackNumber returns the enriched track number, or 0.
func (m TrackMetadata) TrackNumber() int {
	if m.enrichment == nil {
		return 0
	}
	return m.enrichment.TrackNumber
}

// Genre returns the enriched genre, or "".
func (m TrackMetadata) Genre() string {
	if m.enrichment == nil {
		return ""
	}
	return m.enrichment.Genre
}
