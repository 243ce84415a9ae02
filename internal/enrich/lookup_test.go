package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ythttp "github.com/handiism/ytmusic-downloader/internal/http"
	"github.com/handiism/ytmusic-downloader/internal/model"
)

var fastRetry = ythttp.RetryPolicy{MaxAttempts: 2, Cooldown: 0.001, Exponent: 1}

const iTunesBody = `{
  "resultCount": 2,
  "results": [
    {"trackName": "Thunder (Live)", "artistName": "Imagine Dragons & Friends", "trackTimeMillis": 200000,
     "releaseDate": "2018-01-01T08:00:00Z", "primaryGenreName": "Live", "trackNumber": 2, "trackCount": 9},
    {"trackName": "Thunder", "artistName": "Imagine Dragons", "trackTimeMillis": 187000,
     "releaseDate": "2017-04-27T07:00:00Z", "primaryGenreName": "Alternative", "trackNumber": 11, "trackCount": 17,
     "discNumber": 1, "discCount": 1, "copyright": "℗ 2017 KIDinaKORNER/Interscope Records"}
  ]
}`

func TestITunes_Candidates(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(iTunesBody))
	}))
	defer srv.Close()

	lookup := NewITunes(ythttp.NewClient(time.Second), ITunesOptions{BaseURL: srv.URL, Country: "US", RateLimit: time.Millisecond, Retry: fastRetry})
	md := model.NewTrackMetadata("Thunder", model.NewArtists("Imagine Dragons"), "", "2017", model.CoverArt{})

	candidates, err := lookup.Candidates(context.Background(), md)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates", len(candidates))
	}
	for _, want := range []string{"term=Thunder+Imagine+Dragons", "entity=song", "limit=25", "country=US"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}

	best, ok := Reconcile(QueryFrom(md.WithDuration(187_000)), candidates)
	if !ok {
		t.Fatal("no match")
	}
	e := best.Enrichment
	if e.Genre != "Alternative" || e.TrackNumber != 11 || e.TrackCount != 17 || e.DiscCount != 1 || !strings.HasPrefix(e.Copyright, "℗ 2017") {
		t.Errorf("enrichment = %+v", e)
	}
}

func TestITunes_ServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	lookup := NewITunes(ythttp.NewClient(time.Second), ITunesOptions{BaseURL: srv.URL, RateLimit: time.Millisecond, Retry: fastRetry})
	md := model.NewTrackMetadata("Thunder", model.NewArtists("Imagine Dragons"), "", "", model.CoverArt{})

	if _, err := lookup.Candidates(context.Background(), md); err == nil {
		t.Error("expected error")
	}
	if calls != 2 {
		t.Errorf("server called %d times, want 2", calls)
	}
}

const musicBrainzBody = `{
  "count": 1,
  "recordings": [
    {
      "id": "c1f0b3c4",
      "title": "Thunder",
      "length": 187138,
      "artist-credit": [{"name": "Imagine Dragons", "joinphrase": " feat. "}, {"name": "Someone"}],
      "first-release-date": "2017-04-27",
      "tags": [{"count": 1, "name": "pop"}, {"count": 4, "name": "alternative rock"}],
      "releases": [
        {"title": "Evolve", "date": "2017-06-23", "track-count": 12,
         "media": [{"position": 1, "format": "CD", "track": [{"number": "11", "position": 11}], "track-count": 12}]}
      ]
    }
  ]
}`

func TestMusicBrainz_Candidates(t *testing.T) {
	var gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(musicBrainzBody))
	}))
	defer srv.Close()

	lookup := NewMusicBrainz(ythttp.NewClient(time.Second), MusicBrainzOptions{BaseURL: srv.URL, RateLimit: time.Millisecond, Retry: fastRetry})
	md := model.NewTrackMetadata(`Say "Hi"`, model.NewArtists("Imagine Dragons"), "", "", model.CoverArt{})

	candidates, err := lookup.Candidates(context.Background(), md)
	if err != nil {
		t.Fatal(err)
	}
	if gotQuery != `recording:"Say \"Hi\"" AND artist:"Imagine Dragons"` {
		t.Errorf("query = %q", gotQuery)
	}
	if !strings.HasPrefix(gotUA, "ytmusic-downloader/") {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates", len(candidates))
	}

	c := candidates[0]
	if c.Title != "Thunder" || c.Artist != "Imagine Dragons feat. Someone" || c.DurationMs != 187138 || c.Year() != "2017" {
		t.Errorf("candidate = %+v", c)
	}
	e := c.Enrichment
	if e.Genre != "alternative rock" || e.TrackNumber != 11 || e.TrackCount != 12 || e.DiscNumber != 1 || e.DiscCount != 1 || e.ReleaseDate != "2017-04-27" {
		t.Errorf("enrichment = %+v", e)
	}
}

func TestMusicBrainz_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>rate limited</html>"))
	}))
	defer srv.Close()

	lookup := NewMusicBrainz(ythttp.NewClient(time.Second), MusicBrainzOptions{BaseURL: srv.URL, RateLimit: time.Millisecond, Retry: fastRetry})
	md := model.NewTrackMetadata("Thunder", model.NewArtists("Imagine Dragons"), "", "", model.CoverArt{})
	if _, err := lookup.Candidates(context.Background(), md); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
