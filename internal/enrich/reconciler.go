package enrich

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/handiism/ytmusic-downloader/internal/model"
)

// DefaultTimeout bounds one lookup.
const DefaultTimeout = 30 * time.Second

// Query is the base metadata a candidate is scored against.
type Query struct {
	Title      string
	Artists    []string
	DurationMs int64
	Year       string
}

// QueryFrom builds a Query from base metadata. The unknown-artist sentinel
// is not used for matching.
func QueryFrom(md model.TrackMetadata) Query {
	q := Query{Title: md.Title, DurationMs: md.DurationMs, Year: md.Year}
	if !md.Artists.IsEmpty() {
		q.Artists = md.Artists.All()
	}
	return q
}

// Candidate is one external match together with the enrichment it offers.
type Candidate struct {
	Title       string
	Artist      string
	DurationMs  int64
	ReleaseDate string

	Enrichment model.Enrichment
}

// Year returns the first four digits of the release date, or "".
func (c Candidate) Year() string {
	return leadingYear(c.ReleaseDate)
}

func leadingYear(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return ""
	}
	for _, r := range s[:4] {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return s[:4]
}

// Lookup fetches external candidates for base metadata.
type Lookup interface {
	Candidates(ctx context.Context, md model.TrackMetadata) ([]Candidate, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, md model.TrackMetadata) ([]Candidate, error)

func (f LookupFunc) Candidates(ctx context.Context, md model.TrackMetadata) ([]Candidate, error) {
	return f(ctx, md)
}

// Score rates how well c matches q.
//
//   - +40 when the titles are equal ignoring case
//   - +25 for every query artist contained in the candidate artist, ignoring case
//   - up to +25 for duration, losing one point per second of difference
//   - +20 when the years match, -10 when they differ
//
// Duration and year only count when both sides know them.
func Score(q Query, c Candidate) float64 {
	var score float64

	if strings.ToLower(c.Title) == strings.ToLower(q.Title) {
		score += 40
	}

	artist := strings.ToLower(c.Artist)
	for _, a := range q.Artists {
		if a != "" && strings.Contains(artist, strings.ToLower(a)) {
			score += 25
		}
	}

	if q.DurationMs > 0 && c.DurationMs > 0 {
		diff := math.Abs(float64(c.DurationMs - q.DurationMs))
		score += math.Max(0, 25-diff/1000)
	}

	year := strings.TrimSpace(q.Year)
	if cy := c.Year(); year != "" && year != "0" && cy != "" {
		if cy == year {
			score += 20
		} else {
			score -= 10
		}
	}

	return score
}

// Reconcile returns the best scoring candidate.
//
// Candidates are scanned in order and a later candidate only wins with a
// strictly greater score, so the first of equal candidates is kept. Any
// score, negative ones included, can win. An empty list yields false.
//
// Example:
//
//	best, ok := enrich.Reconcile(enrich.QueryFrom(md), candidates)
//	if ok {
//	    md = md.WithEnrichment(best.Enrichment)
//	}
func Reconcile(q Query, candidates []Candidate) (Candidate, bool) {
	var best Candidate
	bestScore := math.Inf(-1)
	found := false

	for _, c := range candidates {
		if s := Score(q, c); s > bestScore {
			best, bestScore, found = c, s, true
		}
	}
	return best, found
}

// Reconciler runs a Lookup and reconciles its result.
//
// Enrichment never fails the pipeline: lookup errors and timeouts are
// reported to onWarning as model.ErrEnrichmentUnavailable and treated like
// an empty candidate list.
type Reconciler struct {
	lookup    Lookup
	timeout   time.Duration
	onWarning func(error)
}

// NewReconciler creates a Reconciler. A nil lookup disables enrichment and a
// zero timeout selects DefaultTimeout.
func NewReconciler(lookup Lookup, timeout time.Duration, onWarning func(error)) *Reconciler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Reconciler{lookup: lookup, timeout: timeout, onWarning: onWarning}
}

// Enrich returns the enrichment of the best candidate for md, if any.
func (r *Reconciler) Enrich(ctx context.Context, md model.TrackMetadata) (model.Enrichment, bool) {
	if r == nil || r.lookup == nil {
		return model.Enrichment{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	candidates, err := r.lookup.Candidates(ctx, md)
	if err != nil {
		r.warn(fmt.Errorf("%w: %v", model.ErrEnrichmentUnavailable, err))
		return model.Enrichment{}, false
	}

	best, ok := Reconcile(QueryFrom(md), candidates)
	if !ok {
		return model.Enrichment{}, false
	}
	return best.Enrichment, true
}

func (r *Reconciler) warn(err error) {
	if r.onWarning != nil {
		r.onWarning(err)
	}
}
