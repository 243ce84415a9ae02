package enrich

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	ythttp "github.com/handiism/ytmusic-downloader/internal/http"
	"github.com/handiism/ytmusic-downloader/internal/model"
)

const (
	musicBrainzURL       = "https://musicbrainz.org/ws/2/recording"
	musicBrainzUserAgent = "ytmusic-downloader/1.0 ( https://github.com/handiism/ytmusic-downloader )"
)

// MusicBrainzOptions configures MusicBrainz. Zero values select the defaults.
type MusicBrainzOptions struct {
	BaseURL   string
	Limit     int
	RateLimit time.Duration
	Retry     ythttp.RetryPolicy
}

// MusicBrainz looks up candidates through the MusicBrainz recording search.
//
// MusicBrainz asks clients to stay at one request per second and to send an
// identifying User-Agent; both are applied here.
type MusicBrainz struct {
	client  *ythttp.Client
	opts    MusicBrainzOptions
	limiter *rate.Limiter
}

// NewMusicBrainz creates a MusicBrainz lookup.
func NewMusicBrainz(client *ythttp.Client, opts MusicBrainzOptions) *MusicBrainz {
	if opts.BaseURL == "" {
		opts.BaseURL = musicBrainzURL
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
	return &MusicBrainz{
		client:  client.WithUserAgent(musicBrainzUserAgent),
		opts:    opts,
		limiter: rate.NewLimiter(rate.Every(opts.RateLimit), 1),
	}
}

// Candidates searches recordings matching the title and primary artist of md.
func (c *MusicBrainz) Candidates(ctx context.Context, md model.TrackMetadata) ([]Candidate, error) {
	query := fmt.Sprintf(`recording:"%s"`, escapeLucene(md.Title))
	if !md.Artists.IsEmpty() {
		query += fmt.Sprintf(` AND artist:"%s"`, escapeLucene(md.Artists.Primary()))
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", fmt.Sprint(c.opts.Limit))
	searchURL := c.opts.BaseURL + "?" + params.Encode()

	var body []byte
	err := ythttp.Retry(ctx, c.opts.Retry, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		var err error
		body, err = c.client.Get(ctx, searchURL)
		return err
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("musicbrainz search: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("musicbrainz search: invalid JSON response")
	}

	var candidates []Candidate
	gjson.GetBytes(body, "recordings").ForEach(func(_, rec gjson.Result) bool {
		candidates = append(candidates, recordingCandidate(rec))
		return true
	})
	return candidates, nil
}

func recordingCandidate(rec gjson.Result) Candidate {
	var artist strings.Builder
	rec.Get("artist-credit").ForEach(func(_, credit gjson.Result) bool {
		artist.WriteString(credit.Get("name").String())
		artist.WriteString(credit.Get("joinphrase").String())
		return true
	})

	release := rec.Get("releases.0")
	medium := release.Get("media.0")
	date := rec.Get("first-release-date").String()
	if date == "" {
		date = release.Get("date").String()
	}

	return Candidate{
		Title:       rec.Get("title").String(),
		Artist:      artist.String(),
		DurationMs:  rec.Get("length").Int(),
		ReleaseDate: date,
		Enrichment: model.Enrichment{
			Genre:       topTag(rec.Get("tags")),
			TrackNumber: int(medium.Get("track.0.position").Int()),
			TrackCount:  int(medium.Get("track-count").Int()),
			DiscNumber:  int(medium.Get("position").Int()),
			DiscCount:   int(release.Get("media.#").Int()),
			ReleaseDate: date,
		},
	}
}

// topTag returns the most voted tag name, the first one on ties.
func topTag(tags gjson.Result) string {
	var name string
	best := int64(-1)
	tags.ForEach(func(_, tag gjson.Result) bool {
		if n := tag.Get("count").Int(); n > best {
			best, name = n, tag.Get("name").String()
		}
		return true
	})
	return name
}

var luceneEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeLucene(s string) string {
	return luceneEscaper.Replace(s)
}
