// Package ioutils provides the pipeline's file system and cover art
// processing.
//
// # File Operations
//
// LocalFS wraps every os failure in model.ErrIOFailure:
//
//	fs := ioutils.NewLocalFS(settings.DownloadsPath)
//	err := fs.EnsureDir("/music/Artist/Album (2020)")
//	tmp, err := fs.CreateTemp("ytmusic-*.webm")
//	err = fs.Remove(tmp.Name())
//
// # Image Processing
//
// The ImageService handles cover art manipulation:
//
//	svc := ioutils.NewImageService()
//	square, _ := svc.CropToSquare(ctx, thumbnail)
//	resized, _ := svc.ResizeImage(ctx, square, 1000, 1000)
//
// ArtworkService combines fetching and processing, and reports failures as
// model.ErrArtworkUnavailable so callers can fall back to tag-only output.
package ioutils
