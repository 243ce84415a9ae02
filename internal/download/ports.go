package download

import (
	"context"

	ioutils "github.com/handiism/ytmusic-downloader/internal/io"
	"github.com/handiism/ytmusic-downloader/internal/model"
	"github.com/handiism/ytmusic-downloader/internal/transcode"
)

// Source resolves catalog data: track metadata, search results and
// playlist members.
type Source interface {
	TrackMetadata(ctx context.Context, videoID string) (model.TrackMetadata, error)
	Search(ctx context.Context, query string) ([]model.SearchResult, error)
	PlaylistTracks(ctx context.Context, playlistID string) ([]string, error)
}

// Transcoder converts the retrieved audio into the target format.
type Transcoder interface {
	Convert(ctx context.Context, r transcode.Request) error
	DeleteTemporaryFile(path string) error
}

// MetadataWriter embeds tags and artwork into a finished file.
type MetadataWriter interface {
	SaveTags(path string, md model.TrackMetadata, artwork []byte) error
}

// ArtworkProvider fetches cover art ready for embedding.
// Failures must wrap model.ErrArtworkUnavailable.
type ArtworkProvider interface {
	Artwork(ctx context.Context, cover model.CoverArt) ([]byte, error)
}

// FileSystem owns output folders and temporary files.
type FileSystem interface {
	BaseFolder() string
	EnsureDir(path string) error
	Exists(path string) bool
	CreateTemp(pattern string) (ioutils.TempFile, error)
	Remove(path string) error
	WriteFile(ctx context.Context, path string, data []byte) error
}
