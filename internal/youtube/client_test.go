package youtube

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/handiism/ytmusic-downloader/internal/stream"
)

const trackDump = `{
  "id": "dQw4w9WgXcQ",
  "title": "Never Gonna Give You Up (Official Music Video)",
  "track": "Never Gonna Give You Up",
  "artists": ["Rick Astley"],
  "album": "Whenever You Need Somebody",
  "release_year": 1987,
  "duration": 213.5,
  "uploader": "Rick Astley - Topic",
  "thumbnail": "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
  "thumbnails": [
    {"url": "https://lh3.googleusercontent.com/abc=w60-h60-l90-rj", "width": 60, "height": 60},
    {"url": "https://lh3.googleusercontent.com/abc=w544-h544-l90-rj", "width": 544, "height": 544},
    {"url": "https://lh3.googleusercontent.com/abc=w120-h120-l90-rj", "width": 120, "height": 120}
  ],
  "http_headers": {"User-Agent": "Mozilla/5.0", "Accept": "*/*"},
  "formats": [
    {"format_id": "139", "url": "https://media/139", "ext": "m4a", "acodec": "mp4a.40.5", "vcodec": "none", "abr": 48, "format_note": "low"},
    {"format_id": "251", "url": "https://media/251", "ext": "webm", "acodec": "opus", "vcodec": "none", "abr": 135, "format_note": "medium, DRC"},
    {"format_id": "18", "url": "https://media/18", "ext": "mp4", "acodec": "mp4a.40.2", "vcodec": "avc1.42001E", "tbr": 500}
  ]
}`

const playlistDump = `{
  "id": "PLabc",
  "title": "Mix",
  "entries": [
    {"id": "aaaaaaaaaaa", "title": "One", "duration": 180, "artists": ["A"]},
    {"id": "bogus", "title": "Not a video"},
    {"id": "bbbbbbbbbbb", "title": "Two", "duration": 61, "channel": "B - Topic"},
    {"id": "ccccccccccc", "title": "Three"}
  ]
}`

type fakeDumper struct {
	responses map[string]string
	requests  []dumpRequest
	err       error
}

func (f *fakeDumper) dump(ctx context.Context, req dumpRequest) ([]byte, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	for prefix, body := range f.responses {
		if strings.HasPrefix(req.URL, prefix) {
			return []byte(body), nil
		}
	}
	return nil, errors.New("unexpected url " + req.URL)
}

func TestClient_TrackMetadata(t *testing.T) {
	fd := &fakeDumper{responses: map[string]string{"https://music.youtube.com/watch": trackDump}}
	c := newClient(fd.dump, Options{})

	md, err := c.TrackMetadata(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatal(err)
	}
	if md.Title != "Never Gonna Give You Up" {
		t.Errorf("Title = %q", md.Title)
	}
	if md.Artists.String() != "Rick Astley" || md.Album != "Whenever You Need Somebody" || md.Year != "1987" {
		t.Errorf("metadata = %+v", md)
	}
	if md.DurationMs != 213500 {
		t.Errorf("DurationMs = %d", md.DurationMs)
	}
	if md.CoverArt.URL != "https://lh3.googleusercontent.com/abc=w1000-h1000-l90-rj" || md.CoverArt.Width != 544 {
		t.Errorf("CoverArt = %+v", md.CoverArt)
	}
	if fd.requests[0].Flat {
		t.Error("track dump must not be flat")
	}
}

func TestClient_TrackMetadataFallbacks(t *testing.T) {
	dump := `{"id": "dQw4w9WgXcQ", "title": "Song", "uploader": "Band - Topic", "release_date": "20190301",
	  "thumbnail": "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg"}`
	c := newClient((&fakeDumper{responses: map[string]string{"https://": dump}}).dump, Options{})

	md, err := c.TrackMetadata(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatal(err)
	}
	if md.Title != "Song" || md.Artists.Primary() != "Band" || md.Year != "2019" || md.Album != "" {
		t.Errorf("metadata = %+v", md)
	}
	if !md.CoverArt.RequiresCropping() {
		t.Error("video thumbnail should require cropping")
	}
}

func TestClient_TrackMetadataInvalidID(t *testing.T) {
	fd := &fakeDumper{}
	if _, err := newClient(fd.dump, Options{}).TrackMetadata(context.Background(), "nope"); err == nil {
		t.Error("expected error")
	}
	if len(fd.requests) != 0 {
		t.Error("yt-dlp must not run for an invalid id")
	}
}

func TestClient_PlaylistTracks(t *testing.T) {
	fd := &fakeDumper{responses: map[string]string{"https://music.youtube.com/playlist": playlistDump}}
	ids, err := newClient(fd.dump, Options{}).PlaylistTracks(context.Background(), "PLabc")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(ids, ",") != "aaaaaaaaaaa,bbbbbbbbbbb,ccccccccccc" {
		t.Errorf("ids = %v", ids)
	}
	if !fd.requests[0].Flat || fd.requests[0].URL != "https://music.youtube.com/playlist?list=PLabc" {
		t.Errorf("request = %+v", fd.requests[0])
	}
}

func TestClient_Search(t *testing.T) {
	fd := &fakeDumper{responses: map[string]string{"https://music.youtube.com/search": playlistDump}}
	results, err := newClient(fd.dump, Options{}).Search(context.Background(), "never gonna")
	if err != nil {
		t.Fatal(err)
	}
	if fd.requests[0].URL != "https://music.youtube.com/search?q=never+gonna" {
		t.Errorf("URL = %q", fd.requests[0].URL)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if results[1].Artists.Primary() != "B" || results[1].Label() != "Two - B (1:01)" {
		t.Errorf("result = %+v, label %q", results[1], results[1].Label())
	}
	if results[2].Artists.Primary() != "Unknown Artist" {
		t.Errorf("missing artist = %q", results[2].Artists.Primary())
	}

	if _, err := newClient(fd.dump, Options{}).Search(context.Background(), "  "); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestClient_Negotiate(t *testing.T) {
	fd := &fakeDumper{responses: map[string]string{"https://music.youtube.com/watch": trackDump}}
	c := newClient(fd.dump, Options{})

	n, err := c.Negotiate(context.Background(), stream.NegotiateRequest{VideoID: "dQw4w9WgXcQ", Token: "tok"})
	if err != nil {
		t.Fatal(err)
	}
	if fd.requests[0].Token != "tok" || n.Token != "tok" {
		t.Errorf("token not forwarded: %+v", fd.requests[0])
	}
	if len(n.Formats) != 3 {
		t.Fatalf("formats = %d", len(n.Formats))
	}
	for _, f := range n.Formats {
		if f.ApproxDurationMs != 213500 {
			t.Errorf("format %s ApproxDurationMs = %d, want 213500", f.ID, f.ApproxDurationMs)
		}
	}
	if !strings.Contains(string(n.Config), `"User-Agent":"Mozilla/5.0"`) {
		t.Errorf("Config = %s", n.Config)
	}

	f, ok := stream.SelectFormat(n.Formats, stream.QualityMedium)
	if !ok || f.ID != "251" || f.Bitrate != 135000 || f.MimeType != "audio/webm" {
		t.Errorf("selected %+v", f)
	}
	if low, _ := stream.SelectFormat(n.Formats, stream.QualityLow); low.ID != "139" || low.MimeType != "audio/mp4" {
		t.Errorf("low = %+v", low)
	}
	if n.EndpointFor(f) != "https://media/251" {
		t.Errorf("EndpointFor = %q", n.EndpointFor(f))
	}
}
