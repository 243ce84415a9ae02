package model

import (
	"strings"

	"github.com/samber/lo"
)

// UnknownArtist is the sentinel used when no real artist is known.
const UnknownArtist = "Unknown Artist"

// Artists is a normalized, never-empty list of artist names.
//
// The zero value behaves like a list containing only UnknownArtist.
type Artists struct {
	values []string
}

// NewArtists trims the given names and drops empty ones.
// If nothing remains, the list holds only UnknownArtist.
func NewArtists(names ...string) Artists {
	values := lo.FilterMap(names, func(name string, _ int) (string, bool) {
		name = strings.TrimSpace(name)
		return name, name != ""
	})
	if len(values) == 0 {
		values = []string{UnknownArtist}
	}
	return Artists{values: values}
}

// Primary returns the first artist.
func (a Artists) Primary() string {
	if len(a.values) == 0 {
		return UnknownArtist
	}
	return a.values[0]
}

// All returns a copy of the artist names.
func (a Artists) All() []string {
	if len(a.values) == 0 {
		return []string{UnknownArtist}
	}
	return append([]string(nil), a.values...)
}

// IsEmpty reports whether no real artist is known.
func (a Artists) IsEmpty() bool {
	return lo.EveryBy(a.values, func(v string) bool { return v == UnknownArtist })
}

// Join joins the names with sep.
func (a Artists) Join(sep string) string {
	return strings.Join(a.All(), sep)
}

// String joins the names with ", ".
func (a Artists) String() string {
	return a.Join(", ")
}

// ID3 joins the names the way ID3 multi-value text frames expect.
func (a Artists) ID3() string {
	return a.Join("; ")
}
