package download

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	ythttp "github.com/handiism/ytmusic-downloader/internal/http"
	"github.com/handiism/ytmusic-downloader/internal/model"
	"github.com/handiism/ytmusic-downloader/internal/stream"
	"github.com/handiism/ytmusic-downloader/internal/transcode"
)

// trackRun holds the resources one track acquisition owns.
type trackRun struct {
	m       *Manager
	videoID string

	d          model.Download
	temp       string
	target     string
	ownsTarget bool
}

// acquire runs the whole pipeline for one video id and reports the outcome.
func (m *Manager) acquire(ctx context.Context, videoID string) (model.Download, error) {
	t := &trackRun{m: m, videoID: videoID}

	d, err := t.run(ctx)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", videoID, err), Level: LevelError})
		return d, err
	}

	atomic.AddInt32(&m.downloadedFiles, 1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", d.OutputPath()), Level: LevelSuccess})
	return d, nil
}

func (t *trackRun) run(ctx context.Context) (model.Download, error) {
	m := t.m

	md, err := t.fetchMetadata(ctx)
	if err != nil {
		return model.Download{}, err
	}
	t.d = model.NewDownload(md)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found track: %s - %s", md.Artists, md.Title), Level: LevelInfo})

	if e, ok := m.reconciler.Enrich(ctx, md); ok {
		if t.d, err = t.d.EnrichMetadata(e); err != nil {
			return t.fail(err)
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Enriched metadata for %s", md.Title), Level: LevelVerbose})
	}
	md = t.d.Metadata()

	dir := model.NewOutputPath(m.services.FS.BaseFolder(), md.Artists, md.Album, md.Year).String()
	if err := m.services.FS.EnsureDir(dir); err != nil {
		return t.fail(err)
	}
	// Joined by hand: path.Join would collapse a UNC "//host" prefix and
	// filepath.Join would bring back backslashes.
	t.target = dir + "/" + t.d.Filename().WithExtension(m.settings.FileExtension)

	if t.d, err = t.d.StartDownloading(); err != nil {
		return t.fail(err)
	}

	descriptor, err := t.retrieve(ctx)
	if err != nil {
		return t.fail(err)
	}

	if t.d, err = t.d.SetAudioFile(descriptor); err != nil {
		return t.fail(err)
	}

	if err := t.convert(ctx, descriptor); err != nil {
		return t.fail(err)
	}

	if t.d, err = t.d.StartWritingMetadata(); err != nil {
		return t.fail(err)
	}

	if err := m.services.Writer.SaveTags(t.target, t.d.Metadata(), t.artwork(ctx)); err != nil {
		return t.fail(err)
	}

	if t.d, err = t.d.Complete(t.target); err != nil {
		return t.fail(err)
	}
	return t.d, nil
}

func (t *trackRun) fetchMetadata(ctx context.Context) (model.TrackMetadata, error) {
	m := t.m
	ctx, cancel := context.WithTimeout(ctx, m.settings.RequestTimeout())
	defer cancel()

	var md model.TrackMetadata
	err := ythttp.Retry(ctx, m.settings.RetryPolicy(), func() error {
		var err error
		md, err = m.services.Source.TrackMetadata(ctx, t.videoID)
		if errors.Is(err, model.ErrInvalidIdentifier) {
			return ythttp.Permanent(err)
		}
		return err
	}, m.retryNotice("metadata of "+t.videoID))
	if err != nil {
		return model.TrackMetadata{}, fmt.Errorf("fetch metadata of %s: %w", t.videoID, err)
	}
	return md, nil
}

// retrieve streams the audio into a temporary file.
func (t *trackRun) retrieve(ctx context.Context) (model.AudioDescriptor, error) {
	m := t.m

	session, err := stream.Open(ctx, m.services.Audio, stream.Request{
		VideoID: t.videoID,
		Quality: m.settings.Quality(),
		Token:   m.settings.PoToken,
	}, m.settings.StreamOptions())
	if err != nil {
		return model.AudioDescriptor{}, err
	}
	defer session.Close()

	format := session.Format()
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Streaming %s (format %s, %s)", t.videoID, format.ID, session.Bitrate()),
		Level:   LevelVerbose,
	})

	tmp, err := m.services.FS.CreateTemp("ytmusic-" + t.videoID + "-*" + containerExtension(format))
	if err != nil {
		return model.AudioDescriptor{}, err
	}
	t.temp = tmp.Name()

	total := estimatedSize(format)
	atomic.AddInt64(&m.totalBytes, total)

	var last int64
	pw := &ythttp.ProgressWriter{
		Writer: tmp,
		Total:  total,
		OnUpdate: func(written, _ int64) {
			atomic.AddInt64(&m.receivedBytes, written-last)
			last = written
		},
	}

	n, err := stream.Pump(ctx, session, pw)
	if closeErr := tmp.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("%w: close %s: %v", model.ErrIOFailure, t.temp, closeErr)
	}
	if err != nil {
		return model.AudioDescriptor{}, err
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Received %d bytes for %s (%d reloads)", n, t.videoID, session.Reloads()),
		Level:   LevelVerbose,
	})

	bitrate := session.Bitrate()
	if override, ok := m.settings.BitrateOverride(); ok {
		bitrate = override
	}
	return model.NewAudioDescriptor(t.temp, bitrate)
}

// convert transcodes the temporary file into the target and releases it.
func (t *trackRun) convert(ctx context.Context, desc model.AudioDescriptor) error {
	m := t.m
	t.ownsTarget = !m.services.FS.Exists(t.target)

	err := m.services.Transcoder.Convert(ctx, transcode.Request{
		Input:   desc.Path,
		Output:  t.target,
		Bitrate: desc.Bitrate,
		Format:  m.settings.FileExtension,
	})
	if err != nil {
		return err
	}

	if err := m.services.Transcoder.DeleteTemporaryFile(t.temp); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error removing %s: %v", t.temp, err), Level: LevelWarning})
	}
	t.temp = ""
	return nil
}

// artwork returns the processed cover, or nil when it is disabled or
// unavailable.
func (t *trackRun) artwork(ctx context.Context) []byte {
	m := t.m
	if !m.settings.SaveCoverArtInTags || m.services.Artwork == nil {
		return nil
	}

	data, err := m.services.Artwork.Artwork(ctx, t.d.Metadata().CoverArt)
	if err != nil {
		level := LevelWarning
		if model.IsFatal(err) {
			level = LevelError
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Continuing without cover art: %v", err), Level: level})
		return nil
	}
	return data
}

// fail moves the Download to failed and releases what this run created.
func (t *trackRun) fail(cause error) (model.Download, error) {
	m := t.m
	if failed, err := t.d.Fail(cause); err == nil {
		t.d = failed
	}

	if t.temp != "" {
		if err := m.services.Transcoder.DeleteTemporaryFile(t.temp); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error removing %s: %v", t.temp, err), Level: LevelWarning})
		}
	}
	if t.ownsTarget {
		if err := m.services.FS.Remove(t.target); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error removing %s: %v", t.target, err), Level: LevelWarning})
		}
	}
	return t.d, cause
}

// containerExtension guesses the temporary file extension from the MIME type.
func containerExtension(f stream.Format) string {
	mime := strings.ToLower(f.MimeType)
	switch {
	case strings.Contains(mime, "webm"):
		return ".webm"
	case strings.Contains(mime, "mp4"):
		return ".m4a"
	case strings.Contains(mime, "mpeg"):
		return ".mp3"
	default:
		return ".audio"
	}
}

// estimatedSize is bitrate times duration, or 0 when either is unknown.
func estimatedSize(f stream.Format) int64 {
	return int64(f.Bitrate) * f.ApproxDurationMs / 8000
}
