package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/handiism/ytmusic-downloader/internal/config"
	"github.com/handiism/ytmusic-downloader/internal/download"
	"github.com/handiism/ytmusic-downloader/internal/model"
)

type fakeSource struct {
	results []model.SearchResult
	calls   int
}

func (f *fakeSource) TrackMetadata(context.Context, string) (model.TrackMetadata, error) {
	f.calls++
	return model.TrackMetadata{}, model.ErrStreamingUnavailable
}

func (f *fakeSource) Search(context.Context, string) ([]model.SearchResult, error) {
	f.calls++
	return f.results, nil
}

func (f *fakeSource) PlaylistTracks(context.Context, string) ([]string, error) {
	f.calls++
	return nil, model.ErrStreamingUnavailable
}

func runCommand(t *testing.T, opts *options, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand(opts)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.json")))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommand_Run(t *testing.T) {
	errNoFFmpeg := errors.New("ffmpeg not found")
	results := []model.SearchResult{
		{VideoID: "dQw4w9WgXcQ", Title: "Never Gonna Give You Up", Artists: model.NewArtists("Rick Astley"), DurationMs: 213000},
	}

	tests := []struct {
		name       string
		args       []string
		factoryErr error
		wantErr    error // nil with wantFail means any error
		wantFail   bool
		wantOut    string
		wantCalls  int
	}{
		{
			name:     "download rejects a foreign host",
			args:     []string{"download", "https://example.com/watch?v=dQw4w9WgXcQ"},
			wantErr:  model.ErrInvalidIdentifier,
			wantFail: true,
		},
		{
			name:     "download rejects a malformed id",
			args:     []string{"download", "https://music.youtube.com/watch?v=short"},
			wantErr:  model.ErrInvalidIdentifier,
			wantFail: true,
		},
		{
			name:     "download needs an argument",
			args:     []string{"download"},
			wantFail: true,
		},
		{
			name:     "invalid flag value",
			args:     []string{"download", "--quality", "lossless", "dQw4w9WgXcQ"},
			wantFail: true,
		},
		{
			name:       "manager construction failure",
			args:       []string{"search", "--print", "rick"},
			factoryErr: errNoFFmpeg,
			wantErr:    errNoFFmpeg,
			wantFail:   true,
		},
		{
			name:      "search prints results",
			args:      []string{"search", "--print", "never", "gonna"},
			wantOut:   "dQw4w9WgXcQ  Never Gonna Give You Up - Rick Astley (3:33)\n",
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{results: results}
			opts := &options{
				managerFactory: func(s *config.Settings, p *printer) (*download.Manager, error) {
					if tt.factoryErr != nil {
						return nil, tt.factoryErr
					}
					return download.NewManagerWithServices(s, download.Services{Source: src}, p.event), nil
				},
			}

			out, err := runCommand(t, opts, tt.args...)
			if tt.wantFail {
				if err == nil {
					t.Fatal("expected an error")
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.wantOut != "" && !strings.Contains(out, tt.wantOut) {
				t.Errorf("output = %q, want %q", out, tt.wantOut)
			}
			if src.calls != tt.wantCalls {
				t.Errorf("source calls = %d, want %d", src.calls, tt.wantCalls)
			}
		})
	}
}
