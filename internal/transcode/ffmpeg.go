package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/handiism/ytmusic-downloader/internal/model"
)

const (
	DefaultSampleRate = 44100
	DefaultChannels   = 2
	DefaultFormat     = "mp3"

	// stderrTail is how much ffmpeg output is kept in errors.
	stderrTail = 2048
)

// Request describes one conversion.
type Request struct {
	Input      string
	Output     string
	Bitrate    model.Bitrate
	Format     string
	SampleRate int
	Channels   int
}

// Args returns the ffmpeg arguments for r, filling in defaults.
//
// Example:
//
//	transcode.Args(transcode.Request{Input: "in.webm", Output: "out.mp3", Bitrate: b})
//	// [-y -i in.webm -vn -ar 44100 -ac 2 -b:a 128k -f mp3 out.mp3]
func Args(r Request) []string {
	format := r.Format
	if format == "" {
		format = DefaultFormat
	}
	rate := r.SampleRate
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	channels := r.Channels
	if channels <= 0 {
		channels = DefaultChannels
	}
	bitrate := r.Bitrate.String()
	if r.Bitrate.Kbps() == 0 {
		bitrate = strconv.Itoa(model.DefaultBitrateKbps) + "k"
	}

	return []string{
		"-y",
		"-i", r.Input,
		"-vn",
		"-ar", strconv.Itoa(rate),
		"-ac", strconv.Itoa(channels),
		"-b:a", bitrate,
		"-f", format,
		r.Output,
	}
}

// FFmpeg converts audio with the ffmpeg executable.
type FFmpeg struct {
	path string
}

// NewFFmpeg creates a transcoder. An empty path means "ffmpeg" from PATH.
func NewFFmpeg(path string) *FFmpeg {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpeg{path: path}
}

// CheckAvailable reports whether the executable can be found.
func (f *FFmpeg) CheckAvailable() error {
	if _, err := exec.LookPath(f.path); err != nil {
		return fmt.Errorf("%w: ffmpeg not found (%s): %v", model.ErrTranscodeFailure, f.path, err)
	}
	return nil
}

// Convert runs ffmpeg and waits for it. A non-zero exit is returned wrapped
// in model.ErrTranscodeFailure together with the end of ffmpeg's stderr.
// Cancelling ctx kills the process.
func (f *FFmpeg) Convert(ctx context.Context, r Request) error {
	if r.Input == "" || r.Output == "" {
		return fmt.Errorf("%w: input and output paths are required", model.ErrTranscodeFailure)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.path, Args(r)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", model.ErrTranscodeFailure, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: ffmpeg exited with code %d: %s",
				model.ErrTranscodeFailure, exitErr.ExitCode(), tail(stderr.String()))
		}
		return fmt.Errorf("%w: %v", model.ErrTranscodeFailure, err)
	}
	return nil
}

// DeleteTemporaryFile removes path. A missing file is not an error.
func (f *FFmpeg) DeleteTemporaryFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTail {
		s = "..." + s[len(s)-stderrTail:]
	}
	return s
}
