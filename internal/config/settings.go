package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/handiism/ytmusic-downloader/internal/audio"
	ythttp "github.com/handiism/ytmusic-downloader/internal/http"
	ioutils "github.com/handiism/ytmusic-downloader/internal/io"
	"github.com/handiism/ytmusic-downloader/internal/model"
	"github.com/handiism/ytmusic-downloader/internal/stream"
)

// Enricher names accepted by Settings.Enricher.
const (
	EnricherITunes      = "itunes"
	EnricherMusicBrainz = "musicbrainz"
	EnricherNone        = "none"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	DownloadsPath       string `json:"downloads_path"`
	FileExtension       string `json:"file_extension"`
	AudioQuality        string `json:"audio_quality"` // low, medium, high
	Bitrate             string `json:"bitrate"`       // overrides the stream bitrate, e.g. "320k"
	MaxConcurrentTracks int    `json:"max_concurrent_tracks"`
	ContinueOnError     bool   `json:"continue_on_error"`

	// Network settings
	NegotiationTimeoutSeconds int     `json:"negotiation_timeout_seconds"`
	RequestTimeoutSeconds     int     `json:"request_timeout_seconds"`
	DownloadMaxRetries        int     `json:"download_max_retries"`
	DownloadRetryCooldown     float64 `json:"download_retry_cooldown"`
	DownloadRetryExponent     float64 `json:"download_retry_exponent"`
	MaxReloads                int     `json:"max_reloads"`

	// Metadata settings
	Enricher      string `json:"enricher"` // itunes, musicbrainz, none
	ITunesCountry string `json:"itunes_country"`
	ModifyTags    bool   `json:"modify_tags"`

	// Cover art settings
	SaveCoverArtInTags   bool `json:"save_cover_art_in_tags"`
	CoverArtInTagsResize bool `json:"cover_art_in_tags_resize"`
	CoverArtMaxSize      int  `json:"cover_art_max_size"`

	// Playlist settings
	CreatePlaylist bool   `json:"create_playlist"`
	PlaylistFormat string `json:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `json:"m3u_extended"`

	// External tools
	YtDlpPath  string `json:"ytdlp_path"`
	FFmpegPath string `json:"ffmpeg_path"`

	// PoToken is the proof-of-origin token passed through to stream negotiation.
	PoToken string `json:"po_token"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		DownloadsPath:       ioutils.DefaultBaseFolder(),
		FileExtension:       "mp3",
		AudioQuality:        string(stream.QualityMedium),
		MaxConcurrentTracks: 1,
		ContinueOnError:     false,

		NegotiationTimeoutSeconds: 30,
		RequestTimeoutSeconds:     30,
		DownloadMaxRetries:        3,
		DownloadRetryCooldown:     0.2,
		DownloadRetryExponent:     2.0,
		MaxReloads:                stream.DefaultMaxReloads,

		Enricher:      EnricherITunes,
		ITunesCountry: "US",
		ModifyTags:    true,

		SaveCoverArtInTags:   true,
		CoverArtInTagsResize: true,
		CoverArtMaxSize:      ioutils.DefaultCoverSize,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,
	}
}

// DefaultPath returns the settings file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "ytmusic-downloader.json"
	}
	return filepath.Join(dir, "ytmusic-downloader", "settings.json")
}

// Load reads settings from a JSON file.
//
// A missing file yields the defaults. Fields absent from the file keep
// their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the values that would otherwise fail deep inside a download.
func (s *Settings) Validate() error {
	var errs []error
	if _, err := stream.ParseQuality(s.AudioQuality); err != nil {
		errs = append(errs, err)
	}
	if s.Bitrate != "" {
		if _, err := model.ParseBitrate(s.Bitrate); err != nil {
			errs = append(errs, fmt.Errorf("bitrate: %w", err))
		}
	}
	switch s.Enricher {
	case EnricherITunes, EnricherMusicBrainz, EnricherNone, "":
	default:
		errs = append(errs, fmt.Errorf("unknown enricher %q (want itunes, musicbrainz or none)", s.Enricher))
	}
	if s.MaxConcurrentTracks < 0 {
		errs = append(errs, fmt.Errorf("max_concurrent_tracks must not be negative"))
	}
	return errors.Join(errs...)
}

// Quality returns the parsed audio quality, medium when invalid.
func (s *Settings) Quality() stream.Quality {
	q, err := stream.ParseQuality(s.AudioQuality)
	if err != nil {
		return stream.QualityMedium
	}
	return q
}

// BitrateOverride returns the configured bitrate, if one is set and valid.
func (s *Settings) BitrateOverride() (model.Bitrate, bool) {
	if s.Bitrate == "" {
		return model.Bitrate{}, false
	}
	b, err := model.ParseBitrate(s.Bitrate)
	if err != nil {
		return model.Bitrate{}, false
	}
	return b, true
}

// RetryPolicy converts the retry fields.
func (s *Settings) RetryPolicy() ythttp.RetryPolicy {
	return ythttp.RetryPolicy{
		MaxAttempts: s.DownloadMaxRetries,
		Cooldown:    s.DownloadRetryCooldown,
		Exponent:    s.DownloadRetryExponent,
	}
}

// RequestTimeout is the deadline for metadata, enrichment and artwork calls.
func (s *Settings) RequestTimeout() time.Duration {
	return seconds(s.RequestTimeoutSeconds)
}

// NegotiationTimeout is the deadline for stream negotiation.
func (s *Settings) NegotiationTimeout() time.Duration {
	return seconds(s.NegotiationTimeoutSeconds)
}

// StreamOptions converts the streaming fields.
func (s *Settings) StreamOptions() stream.Options {
	return stream.Options{Timeout: s.NegotiationTimeout(), MaxReloads: s.MaxReloads}
}

// ArtworkOptions converts the cover art fields.
func (s *Settings) ArtworkOptions() ioutils.ArtworkOptions {
	return ioutils.ArtworkOptions{
		Size:             s.CoverArtMaxSize,
		KeepOriginalSize: !s.CoverArtInTagsResize,
		Timeout:          s.RequestTimeout(),
		Retry:            s.RetryPolicy(),
	}
}

// TagConfig converts the tagging fields.
func (s *Settings) TagConfig() *audio.TagConfig {
	cfg := audio.DefaultTagConfig()
	cfg.ModifyTags = s.ModifyTags
	return cfg
}

// PlaylistCreator returns the playlist writer, or nil when playlists are disabled.
func (s *Settings) PlaylistCreator() *audio.PlaylistCreator {
	if !s.CreatePlaylist {
		return nil
	}
	return audio.NewPlaylistCreator(audio.ParsePlaylistFormat(s.PlaylistFormat), s.M3UExtended)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 30 * time.Second
	}
	return time.Duration(n) * time.Second
}
