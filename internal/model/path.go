package model

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	invalidNameChars = regexp.MustCompile(`[/\\?%*:|"<>]`)
	whitespaceRuns   = regexp.MustCompile(`[\s\p{Z}\x{85}]+`)
)

// DefaultExtension is appended to filenames when none is configured.
const DefaultExtension = "mp3"

// Sanitize makes a single file or folder name safe for any file system.
//
// The following transformations are applied:
//   - Invalid characters (/\?%*:|"<>) are replaced with a dash
//   - Whitespace runs, including Unicode spaces, are collapsed to a single space
//   - Leading and trailing whitespace is removed
//
// Sanitize is idempotent.
//
// Example:
//
//	Sanitize("AC/DC: Live") // Returns "AC-DC- Live"
func Sanitize(name string) string {
	name = invalidNameChars.ReplaceAllString(name, "-")
	name = whitespaceRuns.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// OutputPath is the folder a track is written to:
//
//	base/Artist
//	base/Artist/Album
//	base/Artist/Album (Year)
type OutputPath struct {
	base   string
	artist string
	album  string
}

// NewOutputPath builds the folder layout for a track.
//
// The album folder is omitted when album is empty. A year suffix is added
// when year is known and not "0".
func NewOutputPath(base string, artists Artists, album, year string) OutputPath {
	p := OutputPath{
		base:   base,
		artist: Sanitize(artists.Primary()),
	}

	album = strings.TrimSpace(album)
	if album == "" {
		return p
	}

	year = strings.TrimSpace(year)
	if year != "" && year != "0" {
		p.album = Sanitize(fmt.Sprintf("%s (%s)", album, year))
	} else {
		p.album = Sanitize(album)
	}
	return p
}

// ArtistFolder returns the sanitized artist folder name.
func (p OutputPath) ArtistFolder() string {
	return p.artist
}

// AlbumFolder returns the sanitized album folder name, if any.
func (p OutputPath) AlbumFolder() (string, bool) {
	return p.album, p.album != ""
}

// String joins the folders with forward slashes on every platform.
func (p OutputPath) String() string {
	parts := []string{p.base, p.artist}
	if p.album != "" {
		parts = append(parts, p.album)
	}
	return strings.ReplaceAll(strings.Join(parts, "/"), `\`, "/")
}

// Filename is the unsanitized base name of a track file.
type Filename struct {
	value string
}

// NewFilename returns "01 - Title" when trackNumber is positive and
// "Artist A, Artist B - Title" otherwise.
func NewFilename(artists Artists, title string, trackNumber int) Filename {
	if trackNumber > 0 {
		return Filename{value: fmt.Sprintf("%02d - %s", trackNumber, title)}
	}
	return Filename{value: fmt.Sprintf("%s - %s", artists.String(), title)}
}

// Sanitized returns the name safe for the file system.
func (f Filename) Sanitized() string {
	return Sanitize(f.value)
}

// WithExtension returns the sanitized name plus ext. An empty ext means mp3.
func (f Filename) WithExtension(ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = DefaultExtension
	}
	return f.Sanitized() + "." + ext
}

func (f Filename) String() string {
	return f.value
}
