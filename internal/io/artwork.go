package ioutils

import (
	"context"
	"fmt"
	"time"

	ythttp "github.com/handiism/ytmusic-downloader/internal/http"
	"github.com/handiism/ytmusic-downloader/internal/model"
)

// DefaultCoverSize is the canonical edge length of embedded covers.
const DefaultCoverSize = 1000

// ArtworkOptions configures an ArtworkService.
type ArtworkOptions struct {
	// Size is the edge length covers are resized to. Zero selects DefaultCoverSize.
	Size int

	// KeepOriginalSize skips resizing; covers are still cropped when needed
	// and re-encoded as JPEG.
	KeepOriginalSize bool

	// Timeout bounds the whole fetch-and-process call. Zero means 30s.
	Timeout time.Duration

	Retry ythttp.RetryPolicy
}

// ArtworkService fetches cover art and prepares it for embedding.
//
// Thumbnails that look like video frames are cropped to a centered square
// first, then every cover is resized to the canonical size and encoded as
// JPEG. All failures wrap model.ErrArtworkUnavailable.
//
// Example:
//
//	svc := ioutils.NewArtworkService(client, ioutils.ArtworkOptions{})
//	jpeg, err := svc.Artwork(ctx, md.CoverArt)
//	if err != nil {
//	    // tag without a picture
//	}
type ArtworkService struct {
	client *ythttp.Client
	images *ImageService
	opts   ArtworkOptions
}

// NewArtworkService creates an ArtworkService.
func NewArtworkService(client *ythttp.Client, opts ArtworkOptions) *ArtworkService {
	if opts.Size <= 0 {
		opts.Size = DefaultCoverSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &ArtworkService{client: client, images: NewImageService(), opts: opts}
}

// Artwork downloads and processes cover.
func (s *ArtworkService) Artwork(ctx context.Context, cover model.CoverArt) ([]byte, error) {
	if !cover.Exists() {
		return nil, fmt.Errorf("%w: no cover art url", model.ErrArtworkUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	var data []byte
	err := ythttp.Retry(ctx, s.opts.Retry, func() error {
		var err error
		data, err = s.client.Get(ctx, cover.URL)
		return err
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", model.ErrArtworkUnavailable, cover.URL, err)
	}

	out, err := s.process(ctx, cover, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrArtworkUnavailable, err)
	}
	return out, nil
}

func (s *ArtworkService) process(ctx context.Context, cover model.CoverArt, data []byte) ([]byte, error) {
	var err error
	if cover.RequiresCropping() {
		if data, err = s.images.CropToSquare(ctx, data); err != nil {
			return nil, err
		}
	}
	if s.opts.KeepOriginalSize {
		return s.images.ConvertToJPEG(ctx, data)
	}
	return s.images.ResizeImage(ctx, data, s.opts.Size, s.opts.Size)
}
