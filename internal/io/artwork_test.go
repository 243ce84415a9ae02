package ioutils

import (
	"context"
	"errors"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"

	ythttp "github.com/handiism/ytmusic-downloader/internal/http"
	"github.com/handiism/ytmusic-downloader/internal/model"
)

func TestArtworkService_Artwork(t *testing.T) {
	thumb := pngOf(t, 160, 90, solid(color.Black))
	square := pngOf(t, 50, 50, solid(color.White))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/thumb.png":
			w.Write(thumb)
		case "/square.png":
			w.Write(square)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := NewArtworkService(ythttp.NewClient(0), ArtworkOptions{Size: 120, Retry: ythttp.RetryPolicy{MaxAttempts: 1}})

	tests := []struct {
		name  string
		cover model.CoverArt
		want  int
	}{
		{"16:9 thumbnail cropped", model.CoverArt{URL: srv.URL + "/thumb.png", Width: 160, Height: 90}, 120},
		{"square cover", model.CoverArt{URL: srv.URL + "/square.png", Width: 50, Height: 50}, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.Artwork(context.Background(), tt.cover)
			if err != nil {
				t.Fatalf("Artwork() error = %v", err)
			}
			w, h := dims(t, out)
			if w != tt.want || h != tt.want {
				t.Errorf("size = %dx%d, want %dx%d", w, h, tt.want, tt.want)
			}
		})
	}
}

func TestArtworkService_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken.png" {
			w.Write([]byte("garbage"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	svc := NewArtworkService(ythttp.NewClient(0), ArtworkOptions{Retry: ythttp.RetryPolicy{MaxAttempts: 1}})

	for _, cover := range []model.CoverArt{
		{},
		{URL: srv.URL + "/missing.png"},
		{URL: srv.URL + "/broken.png"},
	} {
		_, err := svc.Artwork(context.Background(), cover)
		if !errors.Is(err, model.ErrArtworkUnavailable) {
			t.Errorf("Artwork(%q) error = %v, want ErrArtworkUnavailable", cover.URL, err)
		}
	}
}
