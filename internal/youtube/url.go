package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/handiism/ytmusic-downloader/internal/model"
)

// MusicHost is the only accepted URL host.
const MusicHost = "music.youtube.com"

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Ref identifies a track, a playlist or both, as found in one URL.
type Ref struct {
	VideoID    string
	PlaylistID string
}

// IsPlaylist reports whether the reference carries a playlist.
func (r Ref) IsPlaylist() bool {
	return r.PlaylistID != ""
}

// WatchURL returns the canonical track URL.
func (r Ref) WatchURL() string {
	return WatchURL(r.VideoID)
}

// PlaylistURL returns the canonical playlist URL.
func (r Ref) PlaylistURL() string {
	return "https://" + MusicHost + "/playlist?list=" + url.QueryEscape(r.PlaylistID)
}

// WatchURL returns the canonical URL of a video id.
func WatchURL(videoID string) string {
	return "https://" + MusicHost + "/watch?v=" + videoID
}

// ParseVideoID validates an 11 character video id.
func ParseVideoID(id string) (string, error) {
	if !videoIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: video id %q must be 11 characters of [A-Za-z0-9_-]", model.ErrInvalidIdentifier, id)
	}
	return id, nil
}

// ParseURL parses a YouTube Music URL or a bare video id.
//
// Accepted forms:
//
//	dQw4w9WgXcQ
//	https://music.youtube.com/watch?v=dQw4w9WgXcQ
//	https://music.youtube.com/watch?v=dQw4w9WgXcQ&list=PL123
//	https://music.youtube.com/playlist?list=PL123
//
// Every failure wraps model.ErrInvalidIdentifier.
func ParseURL(raw string) (Ref, error) {
	raw = strings.TrimSpace(raw)
	if videoIDPattern.MatchString(raw) {
		return Ref{VideoID: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %v", model.ErrInvalidIdentifier, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return Ref{}, fmt.Errorf("%w: %q is not an http(s) URL", model.ErrInvalidIdentifier, raw)
	}
	if !strings.EqualFold(u.Hostname(), MusicHost) {
		return Ref{}, fmt.Errorf("%w: host %q is not %s", model.ErrInvalidIdentifier, u.Hostname(), MusicHost)
	}

	q := u.Query()
	ref := Ref{PlaylistID: q.Get("list")}
	if v := q.Get("v"); v != "" {
		id, err := ParseVideoID(v)
		if err != nil {
			return Ref{}, err
		}
		ref.VideoID = id
	}

	if ref.VideoID == "" && ref.PlaylistID == "" {
		return Ref{}, fmt.Errorf("%w: no video id or playlist in %q", model.ErrInvalidIdentifier, raw)
	}
	return ref, nil
}
