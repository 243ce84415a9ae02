package model

import "fmt"

// SearchResult is one track returned by a catalog search.
type SearchResult struct {
	VideoID    string
	Title      string
	Artists    Artists
	Album      string
	DurationMs int64
}

// Label formats the result for display, e.g. "Thunder - Imagine Dragons (3:07)".
func (r SearchResult) Label() string {
	label := r.Title + " - " + r.Artists.String()
	if r.DurationMs > 0 {
		secs := r.DurationMs / 1000
		label += fmt.Sprintf(" (%d:%02d)", secs/60, secs%60)
	}
	return label
}
