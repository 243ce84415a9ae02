package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/handiism/ytmusic-downloader/internal/audio"
	"github.com/handiism/ytmusic-downloader/internal/config"
	"github.com/handiism/ytmusic-downloader/internal/enrich"
	ythttp "github.com/handiism/ytmusic-downloader/internal/http"
	ioutils "github.com/handiism/ytmusic-downloader/internal/io"
	"github.com/handiism/ytmusic-downloader/internal/model"
	"github.com/handiism/ytmusic-downloader/internal/stream"
	"github.com/handiism/ytmusic-downloader/internal/transcode"
	"github.com/handiism/ytmusic-downloader/internal/youtube"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// String returns the lower-case level name.
func (l ProgressLevel) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "info"
	}
}

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Services bundles the external capabilities the pipeline depends on.
type Services struct {
	Source     Source
	Audio      stream.AudioSource
	Lookup     enrich.Lookup // nil disables enrichment
	Transcoder Transcoder
	Writer     MetadataWriter
	Artwork    ArtworkProvider
	FS         FileSystem
}

// NewDefaultServices wires the production adapters: yt-dlp for the catalog
// and streams, ffmpeg, the ID3 tagger and the local file system.
func NewDefaultServices(settings *config.Settings) Services {
	httpClient := ythttp.NewClient(settings.RequestTimeout())
	yt := youtube.NewClient(youtube.Options{Executable: settings.YtDlpPath, HTTP: httpClient})

	var lookup enrich.Lookup
	switch settings.Enricher {
	case config.EnricherMusicBrainz:
		lookup = enrich.NewMusicBrainz(httpClient, enrich.MusicBrainzOptions{Retry: settings.RetryPolicy()})
	case config.EnricherNone:
	default:
		lookup = enrich.NewITunes(httpClient, enrich.ITunesOptions{
			Country: settings.ITunesCountry,
			Retry:   settings.RetryPolicy(),
		})
	}

	return Services{
		Source:     yt,
		Audio:      yt,
		Lookup:     lookup,
		Transcoder: transcode.NewFFmpeg(settings.FFmpegPath),
		Writer:     audio.NewTagger(settings.TagConfig()),
		Artwork:    ioutils.NewArtworkService(httpClient, settings.ArtworkOptions()),
		FS:         ioutils.NewLocalFS(settings.DownloadsPath),
	}
}

// Manager coordinates track and playlist downloads.
//
// Every track runs the same sequence: metadata, enrichment, output folder,
// streaming into a temporary file, transcoding, tagging. Each track owns its
// Download value and temporary file, so playlist tracks may run in parallel
// when MaxConcurrentTracks is above one.
type Manager struct {
	settings   *config.Settings
	services   Services
	reconciler *enrich.Reconciler
	playlist   *audio.PlaylistCreator

	totalBytes      int64
	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a Manager backed by NewDefaultServices.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	return NewManagerWithServices(settings, NewDefaultServices(settings), onProgress)
}

// NewManagerWithServices creates a Manager using the given adapters.
func NewManagerWithServices(settings *config.Settings, services Services, onProgress func(ProgressEvent)) *Manager {
	m := &Manager{
		settings:   settings,
		services:   services,
		playlist:   settings.PlaylistCreator(),
		onProgress: onProgress,
	}
	m.reconciler = enrich.NewReconciler(services.Lookup, settings.RequestTimeout(), func(err error) {
		m.progress(ProgressEvent{Message: err.Error(), Level: LevelWarning})
	})
	return m
}

// GetProgress returns current download progress.
//
// total is an estimate from the declared bitrate and duration of each
// stream and stays 0 when the source declares neither.
func (m *Manager) GetProgress() (received, total int64, filesReceived, filesTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes), atomic.LoadInt64(&m.totalBytes),
		atomic.LoadInt32(&m.downloadedFiles), atomic.LoadInt32(&m.totalFiles)
}

// Search returns catalog tracks matching query.
func (m *Manager) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, m.settings.RequestTimeout())
	defer cancel()

	var results []model.SearchResult
	err := ythttp.Retry(ctx, m.settings.RetryPolicy(), func() error {
		var err error
		results, err = m.services.Source.Search(ctx, query)
		return err
	}, m.retryNotice("search"))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d results for %q", len(results), query), Level: LevelVerbose})
	return results, nil
}

// DownloadTrack acquires the track named by rawURL, which may be a YouTube
// Music watch URL or a bare video id.
//
// The returned Download is completed on success. On failure it is failed
// with the cause, unless the failure happened before any metadata was known,
// in which case it is the zero Download.
func (m *Manager) DownloadTrack(ctx context.Context, rawURL string) (model.Download, error) {
	ref, err := youtube.ParseURL(rawURL)
	if err != nil {
		m.progress(ProgressEvent{Message: err.Error(), Level: LevelError})
		return model.Download{}, err
	}
	if ref.VideoID == "" {
		err := fmt.Errorf("%w: %q names a playlist, not a track", model.ErrInvalidIdentifier, rawURL)
		m.progress(ProgressEvent{Message: err.Error(), Level: LevelError})
		return model.Download{}, err
	}

	atomic.AddInt32(&m.totalFiles, 1)
	return m.acquire(ctx, ref.VideoID)
}

// DownloadPlaylist acquires every member of the playlist named by rawURL,
// in playlist order.
//
// The member list is resolved once. An empty playlist is rejected with
// model.ErrEmptyPlaylist before any track is touched. The run stops at the
// first failed track unless ContinueOnError is set, in which case every
// track is attempted and the failures are returned joined. The returned
// slice holds one Download per attempted track in playlist order.
func (m *Manager) DownloadPlaylist(ctx context.Context, rawURL string) ([]model.Download, error) {
	ref, err := youtube.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	if !ref.IsPlaylist() {
		return nil, fmt.Errorf("%w: %q has no playlist id", model.ErrInvalidIdentifier, rawURL)
	}

	ids, err := m.playlistTracks(ctx, ref.PlaylistID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %w: %s", model.ErrInvalidIdentifier, model.ErrEmptyPlaylist, ref.PlaylistID)
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Found playlist %s (%d tracks)", ref.PlaylistID, len(ids)), Level: LevelInfo})
	atomic.AddInt32(&m.totalFiles, int32(len(ids)))

	var downloads []model.Download
	if m.settings.MaxConcurrentTracks > 1 {
		downloads, err = m.runParallel(ctx, ids)
	} else {
		downloads, err = m.runSequential(ctx, ids)
	}

	m.writePlaylist(ctx, ref.PlaylistID, downloads)

	completed := 0
	for _, d := range downloads {
		if d.IsCompleted() {
			completed++
		}
	}
	if completed == len(ids) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Successfully downloaded playlist %s", ref.PlaylistID), Level: LevelSuccess})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Finished playlist %s, %d of %d tracks downloaded", ref.PlaylistID, completed, len(ids)), Level: LevelWarning})
	}

	return downloads, err
}

func (m *Manager) playlistTracks(ctx context.Context, playlistID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.settings.RequestTimeout())
	defer cancel()

	var ids []string
	err := ythttp.Retry(ctx, m.settings.RetryPolicy(), func() error {
		var err error
		ids, err = m.services.Source.PlaylistTracks(ctx, playlistID)
		return err
	}, m.retryNotice("playlist "+playlistID))
	if err != nil {
		return nil, fmt.Errorf("resolve playlist %s: %w", playlistID, err)
	}
	return ids, nil
}

func (m *Manager) runSequential(ctx context.Context, ids []string) ([]model.Download, error) {
	downloads := make([]model.Download, 0, len(ids))
	var errs []error
	for i, id := range ids {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Track %d/%d: %s", i+1, len(ids), id), Level: LevelInfo})
		d, err := m.acquire(ctx, id)
		downloads = append(downloads, d)
		if err != nil {
			if !m.settings.ContinueOnError {
				return downloads, err
			}
			errs = append(errs, err)
		}
	}
	return downloads, errors.Join(errs...)
}

func (m *Manager) runParallel(ctx context.Context, ids []string) ([]model.Download, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentTracks)

	downloads := make([]model.Download, len(ids))
	attempted := make([]bool, len(ids))
	var (
		errMu sync.Mutex
		errs  []error
	)

	for i, id := range ids {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			attempted[i] = true
			d, err := m.acquire(gctx, id)
			downloads[i] = d
			if err == nil {
				return nil
			}
			if !m.settings.ContinueOnError {
				return err
			}
			errMu.Lock()
			errs = append(errs, err)
			errMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return keepAttempted(downloads, attempted), err
	}
	return downloads, errors.Join(errs...)
}

// keepAttempted drops the slots of tracks that never started.
func keepAttempted(downloads []model.Download, attempted []bool) []model.Download {
	out := make([]model.Download, 0, len(downloads))
	for i, d := range downloads {
		if attempted[i] {
			out = append(out, d)
		}
	}
	return out
}

func (m *Manager) writePlaylist(ctx context.Context, title string, downloads []model.Download) {
	if m.playlist == nil {
		return
	}
	base := m.services.FS.BaseFolder()
	pl := audio.PlaylistFromDownloads(title, base, downloads)
	if len(pl.Entries) == 0 {
		return
	}

	path := filepath.Join(base, model.Sanitize(title)+m.playlist.Format().Extension())
	if err := m.services.FS.EnsureDir(base); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return
	}
	if err := m.services.FS.WriteFile(ctx, path, []byte(m.playlist.CreatePlaylist(pl))); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist %s", path), Level: LevelSuccess})
}

func (m *Manager) retryNotice(what string) func(int, error) {
	return func(attempt int, err error) {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Retry %d/%d for %s: %v", attempt, m.settings.DownloadMaxRetries, what, err),
			Level:   LevelWarning,
		})
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onProgress(event)
}
