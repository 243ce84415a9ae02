package model

import (
	"errors"
	"testing"
)

func TestArtists(t *testing.T) {
	a := NewArtists(" Daft Punk ", "", "  ", "Pharrell Williams")
	if a.Primary() != "Daft Punk" {
		t.Errorf("Primary() = %q", a.Primary())
	}
	if a.String() != "Daft Punk, Pharrell Williams" {
		t.Errorf("String() = %q", a.String())
	}
	if a.ID3() != "Daft Punk; Pharrell Williams" {
		t.Errorf("ID3() = %q", a.ID3())
	}
	if a.IsEmpty() {
		t.Error("IsEmpty() should be false")
	}

	empty := NewArtists("", " ")
	if !empty.IsEmpty() || empty.Primary() != UnknownArtist {
		t.Errorf("empty artists = %v, IsEmpty=%t", empty.All(), empty.IsEmpty())
	}

	var zero Artists
	if !zero.IsEmpty() || zero.Primary() != UnknownArtist {
		t.Error("zero Artists should behave like the sentinel")
	}

	if !NewArtists(UnknownArtist, UnknownArtist).IsEmpty() {
		t.Error("sentinel-only list should be empty")
	}
}

func TestCoverArt(t *testing.T) {
	tests := []struct {
		name     string
		cover    CoverArt
		ratio    string
		cropping bool
	}{
		{"video thumbnail size", CoverArt{URL: "https://example.com/a.jpg", Width: 1280, Height: 720}, "16:9", true},
		{"thumbnail host", CoverArt{URL: "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg", Width: 480, Height: 360}, "4:3", true},
		{"square artwork", CoverArt{URL: "https://lh3.googleusercontent.com/x=w544-h544", Width: 544, Height: 544}, "1:1", false},
		{"unknown size", CoverArt{URL: "https://example.com/a.jpg"}, "unknown", false},
		{"non-square, no heuristic", CoverArt{URL: "https://example.com/a.jpg", Width: 800, Height: 600}, "4:3", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cover.AspectRatio(); got != tt.ratio {
				t.Errorf("AspectRatio() = %q, want %q", got, tt.ratio)
			}
			if got := tt.cover.RequiresCropping(); got != tt.cropping {
				t.Errorf("RequiresCropping() = %t, want %t", got, tt.cropping)
			}
		})
	}
}

func TestCoverArtFromThumbnail(t *testing.T) {
	c := CoverArtFromThumbnail("https://lh3.googleusercontent.com/abc=w120-h120-l90-rj", 120, 120)
	if c.URL != "https://lh3.googleusercontent.com/abc=w1000-h1000-l90-rj" {
		t.Errorf("URL = %q", c.URL)
	}

	c = CoverArtFromThumbnail("https://lh3.googleusercontent.com/abc=w60-h60-rwa", 60, 60)
	if c.URL != "https://lh3.googleusercontent.com/abc=w1000-h1000" {
		t.Errorf("URL = %q", c.URL)
	}
}

func TestEnrichment_IsEmpty(t *testing.T) {
	if !(Enrichment{Copyright: "(c) 2017", DiscNumber: 1}).IsEmpty() {
		t.Error("enrichment without genre, track number and release date should be empty")
	}
	for _, e := range []Enrichment{{Genre: "Pop"}, {TrackNumber: 1}, {ReleaseDate: "2017-06-23"}} {
		if e.IsEmpty() {
			t.Errorf("%+v should not be empty", e)
		}
	}
}

func TestTrackMetadata_WithEnrichment(t *testing.T) {
	base := NewTrackMetadata("Thunder", NewArtists("Imagine Dragons"), "Evolve", "2017", CoverArt{URL: "https://example.com/c.jpg"})
	enriched := base.WithEnrichment(Enrichment{Genre: "Pop", TrackNumber: 11})

	if _, ok := base.Enrichment(); ok {
		t.Error("base metadata must not be modified")
	}
	if !base.RequiresEnrichment() {
		t.Error("base metadata should require enrichment")
	}
	e, ok := enriched.Enrichment()
	if !ok || e.Genre != "Pop" || enriched.TrackNumber() != 11 || enriched.Genre() != "Pop" {
		t.Errorf("enriched = %+v, %t", e, ok)
	}
	if enriched.RequiresEnrichment() {
		t.Error("enriched metadata should not require enrichment")
	}
	if enriched.Title != base.Title || enriched.Album != base.Album {
		t.Error("WithEnrichment must keep base fields")
	}
}

func TestTrackMetadata_IsComplete(t *testing.T) {
	cover := CoverArt{URL: "https://example.com/c.jpg"}
	tests := []struct {
		name string
		md   TrackMetadata
		want bool
	}{
		{"complete", NewTrackMetadata("Title", NewArtists("Artist"), "", "", cover), true},
		{"blank title", NewTrackMetadata("  ", NewArtists("Artist"), "", "", cover), false},
		{"unknown artist", NewTrackMetadata("Title", NewArtists(), "", "", cover), false},
		{"no cover", NewTrackMetadata("Title", NewArtists("Artist"), "", "", CoverArt{}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.md.IsComplete(); got != tt.want {
				t.Errorf("IsComplete() = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestParseBitrate(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr error
	}{
		{"128k", 128, nil},
		{"320K", 320, nil},
		{"64", 64, nil},
		{" 256k ", 256, nil},
		{"400k", 0, ErrBitrateOutOfRange},
		{"63k", 0, ErrBitrateOutOfRange},
		{"abc", 0, ErrInvalidBitrate},
		{"", 0, ErrInvalidBitrate},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			b, err := ParseBitrate(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseBitrate(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBitrate(%q) unexpected error: %v", tt.input, err)
			}
			if b.Kbps() != tt.want {
				t.Errorf("Kbps() = %d, want %d", b.Kbps(), tt.want)
			}
		})
	}
}

func TestBitrate_String(t *testing.T) {
	b, err := NewBitrate(256)
	if err != nil {
		t.Fatal(err)
	}
	if b.String() != "256k" || !b.IsHighQuality() {
		t.Errorf("String() = %q, IsHighQuality() = %t", b.String(), b.IsHighQuality())
	}
}

func TestNewAudioDescriptor(t *testing.T) {
	b, _ := NewBitrate(128)
	if _, err := NewAudioDescriptor("", b); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := NewAudioDescriptor("/tmp/a.webm", Bitrate{}); !errors.Is(err, ErrBitrateOutOfRange) {
		t.Errorf("expected ErrBitrateOutOfRange, got %v", err)
	}
	d, err := NewAudioDescriptor("/tmp/a.webm", b)
	if err != nil || d.Path != "/tmp/a.webm" || d.Bitrate.Kbps() != 128 {
		t.Errorf("NewAudioDescriptor = %+v, %v", d, err)
	}
}
