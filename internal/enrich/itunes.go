package enrich

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	ythttp "github.com/handiism/ytmusic-downloader/internal/http"
	"github.com/handiism/ytmusic-downloader/internal/model"
)

const (
	iTunesSearchURL = "https://itunes.apple.com/search"

	// defaultLimit is the number of results requested per search.
	defaultLimit = 25
)

// ITunesOptions configures ITunes. Zero values select the defaults.
type ITunesOptions struct {
	BaseURL   string
	Country   string
	Limit     int
	RateLimit time.Duration
	Retry     ythttp.RetryPolicy
}

// ITunes looks up candidates through the iTunes Search API.
//
// Example:
//
//	lookup := enrich.NewITunes(ythttp.NewClient(30*time.Second), enrich.ITunesOptions{Country: "US"})
//	r := enrich.NewReconciler(lookup, 0, onWarning)
type ITunes struct {
	client  *ythttp.Client
	opts    ITunesOptions
	limiter *rate.Limiter
}

// NewITunes creates an iTunes lookup.
func NewITunes(client *ythttp.Client, opts ITunesOptions) *ITunes {
	if opts.BaseURL == "" {
		opts.BaseURL = iTunesSearchURL
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = time.Second
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = ythttp.DefaultRetryPolicy()
	}
	return &ITunes{
		client:  client,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Every(opts.RateLimit), 3),
	}
}

type iTunesResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []iTunesResult `json:"results"`
}

type iTunesResult struct {
	TrackName        string `json:"trackName"`
	ArtistName       string `json:"artistName"`
	CollectionName   string `json:"collectionName"`
	TrackTimeMillis  int64  `json:"trackTimeMillis"`
	ReleaseDate      string `json:"releaseDate"`
	PrimaryGenreName string `json:"primaryGenreName"`
	TrackNumber      int    `json:"trackNumber"`
	TrackCount       int    `json:"trackCount"`
	DiscNumber       int    `json:"discNumber"`
	DiscCount        int    `json:"discCount"`
	Copyright        string `json:"copyright"`
}

func (r iTunesResult) candidate() Candidate {
	return Candidate{
		Title:       r.TrackName,
		Artist:      r.ArtistName,
		DurationMs:  r.TrackTimeMillis,
		ReleaseDate: r.ReleaseDate,
		Enrichment: model.Enrichment{
			Genre:       r.PrimaryGenreName,
			TrackNumber: r.TrackNumber,
			TrackCount:  r.TrackCount,
			DiscNumber:  r.DiscNumber,
			DiscCount:   r.DiscCount,
			ReleaseDate: r.ReleaseDate,
			Copyright:   r.Copyright,
		},
	}
}

// Candidates searches songs matching the title and artists of md.
func (c *ITunes) Candidates(ctx context.Context, md model.TrackMetadata) ([]Candidate, error) {
	term := md.Title
	if !md.Artists.IsEmpty() {
		term += " " + md.Artists.String()
	}

	params := url.Values{}
	params.Set("term", strings.TrimSpace(term))
	params.Set("entity", "song")
	params.Set("limit", fmt.Sprint(c.opts.Limit))
	if c.opts.Country != "" {
		params.Set("country", c.opts.Country)
	}
	searchURL := c.opts.BaseURL + "?" + params.Encode()

	var res iTunesResponse
	err := ythttp.Retry(ctx, c.opts.Retry, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		res = iTunesResponse{}
		return c.client.GetJSON(ctx, searchURL, &res)
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("itunes search: %w", err)
	}

	candidates := make([]Candidate, 0, len(res.Results))
	for _, r := range res.Results {
		candidates = append(candidates, r.candidate())
	}
	return candidates, nil
}
