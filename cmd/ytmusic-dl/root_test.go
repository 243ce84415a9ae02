package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/handiism/ytmusic-downloader/internal/config"
	"github.com/handiism/ytmusic-downloader/internal/download"
	"github.com/handiism/ytmusic-downloader/internal/model"
)

func parseSettings(t *testing.T, args ...string) (*config.Settings, error) {
	t.Helper()
	opts := &options{}
	root := newRootCommand(opts)
	cmd, _, err := root.Find([]string{"download"})
	if err != nil {
		t.Fatal(err)
	}

	args = append([]string{"--config", filepath.Join(t.TempDir(), "missing.json")}, args...)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return opts.settings(cmd)
}

func TestSettings_Defaults(t *testing.T) {
	s, err := parseSettings(t)
	if err != nil {
		t.Fatal(err)
	}
	want := config.DefaultSettings()
	if s.AudioQuality != want.AudioQuality || s.Enricher != want.Enricher || s.MaxConcurrentTracks != want.MaxConcurrentTracks {
		t.Errorf("got %+v, want defaults", s)
	}
}

func TestSettings_FlagOverrides(t *testing.T) {
	out := t.TempDir()
	s, err := parseSettings(t,
		"--output", out,
		"-q", "high",
		"--bitrate", "192k",
		"--enricher", "musicbrainz",
		"-j", "4",
		"--continue-on-error",
		"--playlist-file",
	)
	if err != nil {
		t.Fatal(err)
	}

	if s.DownloadsPath != out {
		t.Errorf("DownloadsPath = %q, want %q", s.DownloadsPath, out)
	}
	if s.AudioQuality != "high" || s.Bitrate != "192k" || s.Enricher != config.EnricherMusicBrainz {
		t.Errorf("quality=%q bitrate=%q enricher=%q", s.AudioQuality, s.Bitrate, s.Enricher)
	}
	if s.MaxConcurrentTracks != 4 || !s.ContinueOnError || !s.CreatePlaylist {
		t.Errorf("jobs=%d continue=%v playlist=%v", s.MaxConcurrentTracks, s.ContinueOnError, s.CreatePlaylist)
	}
}

func TestSettings_InvalidFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "quality", args: []string{"--quality", "lossless"}},
		{name: "enricher", args: []string{"--enricher", "discogs"}},
		{name: "bitrate", args: []string{"--bitrate", "fast"}},
		{name: "jobs", args: []string{"--jobs", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseSettings(t, tt.args...); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestPrinter_Event(t *testing.T) {
	color.NoColor = true
	at := time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		verbose bool
		event   download.ProgressEvent
		want    string
	}{
		{name: "info", event: download.ProgressEvent{Message: "Found track", Level: download.LevelInfo}, want: "12:30:45 › Found track\n"},
		{name: "success", event: download.ProgressEvent{Message: "Saved", Level: download.LevelSuccess}, want: "12:30:45 ✓ Saved\n"},
		{name: "error", event: download.ProgressEvent{Message: "boom", Level: download.LevelError}, want: "12:30:45 ✗ boom\n"},
		{name: "warning", event: download.ProgressEvent{Message: "no cover", Level: download.LevelWarning}, want: "12:30:45 ! no cover\n"},
		{name: "verbose hidden", event: download.ProgressEvent{Message: "bytes", Level: download.LevelVerbose}, want: ""},
		{name: "verbose shown", verbose: true, event: download.ProgressEvent{Message: "bytes", Level: download.LevelVerbose}, want: "12:30:45   bytes\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := newPrinter(&buf, tt.verbose)
			p.now = func() time.Time { return at }

			p.event(tt.event)
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	err := printResults(&buf, []model.SearchResult{
		{VideoID: "dQw4w9WgXcQ", Title: "Never Gonna Give You Up", Artists: model.NewArtists("Rick Astley"), DurationMs: 213000},
	})
	if err != nil {
		t.Fatal(err)
	}

	want := "dQw4w9WgXcQ  Never Gonna Give You Up - Rick Astley (3:33)\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCountCompleted(t *testing.T) {
	if n := countCompleted([]model.Download{{}, {}}); n != 0 {
		t.Errorf("countCompleted = %d, want 0", n)
	}
}
