package model

import "errors"

// Fatal errors abort the current track and move its Download to failed.
var (
	// ErrInvalidIdentifier is returned for malformed or unrecognized track and playlist identifiers.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrInvalidStateTransition is returned when a Download operation is called out of order.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrIncompleteMetadata is returned by Complete when title, artists or cover art are missing.
	ErrIncompleteMetadata = errors.New("incomplete metadata")

	// ErrBitrateOutOfRange is returned for bitrates outside 64-320 kbps.
	ErrBitrateOutOfRange = errors.New("bitrate out of range")

	// ErrInvalidBitrate is returned when a bitrate string cannot be parsed.
	ErrInvalidBitrate = errors.New("invalid bitrate format")

	// ErrStreamingUnavailable is returned when stream negotiation or renegotiation fails.
	ErrStreamingUnavailable = errors.New("streaming unavailable")

	// ErrTranscodeFailure is returned when the transcoder exits unsuccessfully.
	ErrTranscodeFailure = errors.New("transcode failure")

	// ErrIOFailure is returned for directory creation and persistent write failures.
	ErrIOFailure = errors.New("i/o failure")

	// ErrEmptyPlaylist is returned when a playlist resolves to no tracks.
	ErrEmptyPlaylist = errors.New("no tracks found in the playlist")
)

// Non-fatal errors are reported as warnings and the pipeline continues with degraded data.
var (
	// ErrEnrichmentUnavailable means the external metadata lookup failed.
	ErrEnrichmentUnavailable = errors.New("enrichment unavailable")

	// ErrArtworkUnavailable means cover art could not be fetched or processed.
	ErrArtworkUnavailable = errors.New("artwork unavailable")
)

// IsFatal reports whether err should abort the track pipeline.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrEnrichmentUnavailable) && !errors.Is(err, ErrArtworkUnavailable)
}
