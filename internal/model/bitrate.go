package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MinBitrateKbps     = 64
	MaxBitrateKbps     = 320
	DefaultBitrateKbps = 128
)

// Bitrate is an audio bitrate in kbps, always within [64, 320].
type Bitrate struct {
	kbps int
}

// NewBitrate validates kbps.
func NewBitrate(kbps int) (Bitrate, error) {
	if kbps < MinBitrateKbps || kbps > MaxBitrateKbps {
		return Bitrate{}, fmt.Errorf("%w (%d-%d): %d", ErrBitrateOutOfRange, MinBitrateKbps, MaxBitrateKbps, kbps)
	}
	return Bitrate{kbps: kbps}, nil
}

// ParseBitrate parses strings such as "128k" or "320".
func ParseBitrate(value string) (Bitrate, error) {
	s := strings.TrimSpace(value)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "k"), "K")
	kbps, err := strconv.Atoi(s)
	if err != nil {
		return Bitrate{}, fmt.Errorf("%w: %q", ErrInvalidBitrate, value)
	}
	return NewBitrate(kbps)
}

// Kbps returns the bitrate in kilobits per second.
func (b Bitrate) Kbps() int {
	return b.kbps
}

// IsHighQuality reports whether the bitrate is 256 kbps or more.
func (b Bitrate) IsHighQuality() bool {
	return b.kbps >= 256
}

// String formats the bitrate for ffmpeg, e.g. "128k".
func (b Bitrate) String() string {
	return strconv.Itoa(b.kbps) + "k"
}

// AudioDescriptor points at retrieved compressed audio in temporary storage.
type AudioDescriptor struct {
	Path    string
	Bitrate Bitrate
}

// NewAudioDescriptor validates the descriptor fields.
func NewAudioDescriptor(path string, bitrate Bitrate) (AudioDescriptor, error) {
	if path == "" {
		return AudioDescriptor{}, errors.New("audio descriptor requires a path")
	}
	if bitrate.kbps == 0 {
		return AudioDescriptor{}, fmt.Errorf("%w: bitrate not set", ErrBitrateOutOfRange)
	}
	return AudioDescriptor{Path: path, Bitrate: bitrate}, nil
}
