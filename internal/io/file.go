package ioutils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/handiism/ytmusic-downloader/internal/model"
)

// TempFile is a writable file that knows its own path.
// *os.File satisfies it.
type TempFile interface {
	io.WriteCloser
	Name() string
}

// LocalFS is the pipeline's file system, rooted at a base folder.
//
// Every failure is wrapped with model.ErrIOFailure so the orchestrator can
// classify it without inspecting os errors.
//
// Example:
//
//	fs := ioutils.NewLocalFS("")           // ~/Music/YouTube Music
//	err := fs.EnsureDir(filepath.Dir(out))
type LocalFS struct {
	base    string
	tempDir string
}

// NewLocalFS creates a LocalFS. An empty base selects DefaultBaseFolder.
func NewLocalFS(base string) *LocalFS {
	if base == "" {
		base = DefaultBaseFolder()
	}
	return &LocalFS{base: base}
}

// WithTempDir places temporary files in dir instead of os.TempDir.
func (fs *LocalFS) WithTempDir(dir string) *LocalFS {
	fs.tempDir = dir
	return fs
}

// DefaultBaseFolder returns ~/Music/YouTube Music, or a folder under the
// working directory when the home directory is unknown.
func DefaultBaseFolder() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "YouTube Music")
	}
	return filepath.Join(home, "Music", "YouTube Music")
}

// BaseFolder returns the root every output path is built under.
func (fs *LocalFS) BaseFolder() string {
	return fs.base
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
//
// Example:
//
//	err := fs.EnsureDir("/music/Artist/Album (2020)")
func (fs *LocalFS) EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("%w: create directory %s: %v", model.ErrIOFailure, path, err)
	}
	return nil
}

// Exists reports whether path names an existing file or directory.
func (fs *LocalFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CreateTemp creates a new temporary file. pattern follows os.CreateTemp.
func (fs *LocalFS) CreateTemp(pattern string) (TempFile, error) {
	f, err := os.CreateTemp(fs.tempDir, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: create temporary file: %v", model.ErrIOFailure, err)
	}
	return f, nil
}

// Remove deletes path. A missing file is not an error.
func (fs *LocalFS) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: remove %s: %v", model.ErrIOFailure, path, err)
	}
	return nil
}

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
//
// Example:
//
//	playlistContent := []byte("#EXTM3U\n...")
//	err := fs.WriteFile(ctx, "/music/playlist.m3u", playlistContent)
func (fs *LocalFS) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: write %s: %v", model.ErrIOFailure, path, err)
	}
	return nil
}
