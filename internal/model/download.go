package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// State is a step of the download lifecycle.
type State string

const (
	StatePending         State = "pending"
	StateDownloading     State = "downloading"
	StateConverting      State = "converting"
	StateWritingMetadata State = "writing_metadata"
	StateCompleted       State = "completed"
	StateFailed          State = "failed"
)

// IsTerminal reports whether no further transition is permitted.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Download tracks the acquisition of one track.
//
// Download is a value: every transition returns the next value and leaves the
// receiver untouched. A rejected transition returns the receiver together with
// an error wrapping ErrInvalidStateTransition (or ErrIncompleteMetadata).
//
//	d := model.NewDownload(md)
//	d, err := d.StartDownloading()
type Download struct {
	id         string
	metadata   TrackMetadata
	state      State
	audio      *AudioDescriptor
	outputPath string
	err        error
}

// NewDownload creates a pending Download with a fresh identity.
func NewDownload(metadata TrackMetadata) Download {
	return Download{
		id:       uuid.NewString(),
		metadata: metadata,
		state:    StatePending,
	}
}

func (d Download) ID() string              { return d.id }
func (d Download) Metadata() TrackMetadata { return d.metadata }
func (d Download) State() State            { return d.state }
func (d Download) OutputPath() string      { return d.outputPath }
func (d Download) Err() error              { return d.err }
func (d Download) IsCompleted() bool       { return d.state == StateCompleted }
func (d Download) IsFailed() bool          { return d.state == StateFailed }

// AudioFile returns the attached audio descriptor, if any.
func (d Download) AudioFile() (AudioDescriptor, bool) {
	if d.audio == nil {
		return AudioDescriptor{}, false
	}
	return *d.audio, true
}

// Filename derives the track file name from the current metadata.
func (d Download) Filename() Filename {
	return NewFilename(d.metadata.Artists, d.metadata.Title, d.metadata.TrackNumber())
}

func (d Download) require(op string, want State) error {
	if d.state != want {
		return fmt.Errorf("%w: cannot %s from %s (requires %s)", ErrInvalidStateTransition, op, d.state, want)
	}
	return nil
}

// StartDownloading moves pending to downloading.
func (d Download) StartDownloading() (Download, error) {
	if err := d.require("start downloading", StatePending); err != nil {
		return d, err
	}
	d.state = StateDownloading
	return d, nil
}

// SetAudioFile attaches the retrieved audio and moves downloading to converting.
func (d Download) SetAudioFile(audio AudioDescriptor) (Download, error) {
	if err := d.require("set audio file", StateDownloading); err != nil {
		return d, err
	}
	d.audio = &audio
	d.state = StateConverting
	return d, nil
}

// StartWritingMetadata moves converting to writing_metadata.
func (d Download) StartWritingMetadata() (Download, error) {
	if err := d.require("start writing metadata", StateConverting); err != nil {
		return d, err
	}
	d.state = StateWritingMetadata
	return d, nil
}

// EnrichMetadata merges e into the metadata. The state is unchanged.
func (d Download) EnrichMetadata(e Enrichment) (Download, error) {
	if d.state == StateCompleted {
		return d, fmt.Errorf("%w: cannot enrich metadata of a completed download", ErrInvalidStateTransition)
	}
	d.metadata = d.metadata.WithEnrichment(e)
	return d, nil
}

// Complete records the final path and moves writing_metadata to completed.
func (d Download) Complete(outputPath string) (Download, error) {
	// Both failures are reported together.
	var errs []error
	if err := d.require("complete", StateWritingMetadata); err != nil {
		errs = append(errs, err)
	}
	if !d.metadata.IsComplete() {
		errs = append(errs, fmt.Errorf("%w: title, artist and cover art are required (title=%q, artist=%q, cover=%t)",
			ErrIncompleteMetadata, d.metadata.Title, d.metadata.Artists.Primary(), d.metadata.CoverArt.Exists()))
	}
	if err := errors.Join(errs...); err != nil {
		return d, err
	}
	d.outputPath = outputPath
	d.state = StateCompleted
	return d, nil
}

// Fail records cause and moves any non-terminal state to failed.
func (d Download) Fail(cause error) (Download, error) {
	if d.state.IsTerminal() {
		return d, fmt.Errorf("%w: cannot fail a %s download", ErrInvalidStateTransition, d.state)
	}
	d.err = cause
	d.state = StateFailed
	return d, nil
}
