package audio

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/bogem/id3v2"
	"github.com/handiism/ytmusic-downloader/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
//
// Each tag field can be configured independently to determine whether
// it should be modified, cleared, or left unchanged.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the reconciled metadata.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags:  true,
//	    Artist:      TagModify,
//	    Genre:       TagModify,
//	    Copyright:   TagDoNotModify, // keep whatever the encoder wrote
//	    Comments:    TagEmpty,
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no text frames are modified.
	ModifyTags bool

	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// AlbumArtist controls the TPE2 (Album artist) frame.
	AlbumArtist TagEditAction

	// Album controls the TALB (Album title) frame.
	Album TagEditAction

	// Year controls the TYER (Year) frame.
	Year TagEditAction

	// Date controls the TDRC (Recording time) frame.
	Date TagEditAction

	// Genre controls the TCON (Content type) frame.
	Genre TagEditAction

	// TrackNumber controls the TRCK (Track number) frame.
	TrackNumber TagEditAction

	// DiscNumber controls the TPOS (Part of a set) frame.
	DiscNumber TagEditAction

	// TrackTitle controls the TIT2 (Title) frame.
	TrackTitle TagEditAction

	// Copyright controls the TCOP (Copyright message) frame.
	Copyright TagEditAction

	// Comments controls the COMM (Comments) frame.
	Comments TagEditAction
}

// DefaultTagConfig returns the default tag configuration.
//
// Every frame is set to TagModify except comments, which are cleared.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:  true,
		Artist:      TagModify,
		AlbumArtist: TagModify,
		Album:       TagModify,
		Year:        TagModify,
		Date:        TagModify,
		Genre:       TagModify,
		TrackNumber: TagModify,
		DiscNumber:  TagModify,
		TrackTitle:  TagModify,
		Copyright:   TagModify,
		Comments:    TagEmpty,
	}
}

// Tagger writes ID3 tags to MP3 files.
//
// Tagger uses the id3v2 library to write:
//   - Title, Artists (joined with "; "), Album Artist (primary artist)
//   - Album, Year, Release date
//   - Genre, Track and Disc numbers, Copyright
//   - Cover Art (attached picture)
//
// Enrichment-derived frames are only written when the metadata carries the
// corresponding value.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	if err := tagger.SaveTags(path, download.Metadata(), jpegBytes); err != nil {
//	    return err
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes ID3 tags for md into the MP3 file at path.
//
// artwork holds JPEG bytes for the front cover; nil leaves the existing
// pictures untouched. Failures wrap model.ErrIOFailure.
func (t *Tagger) SaveTags(path string, md model.TrackMetadata, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: tag %s: file does not exist", model.ErrIOFailure, path)
		}
		return fmt.Errorf("%w: open tags of %s: %v", model.ErrIOFailure, path, err)
	}
	defer tag.Close()

	if t.config.ModifyTags {
		t.updateStringTags(tag, md)
	}

	if artwork != nil {
		t.updateArtwork(tag, artwork)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("%w: save tags of %s: %v", model.ErrIOFailure, path, err)
	}
	return nil
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (t *Tagger) updateStringTags(tag *id3v2.Tag, md model.TrackMetadata) {
	e, _ := md.Enrichment()

	apply(tag, "TIT2", t.config.TrackTitle, md.Title)
	apply(tag, "TPE1", t.config.Artist, md.Artists.ID3())
	apply(tag, "TPE2", t.config.AlbumArtist, md.Artists.Primary())
	apply(tag, "TALB", t.config.Album, md.Album)
	apply(tag, "TYER", t.config.Year, md.Year)
	apply(tag, "TCON", t.config.Genre, e.Genre)
	apply(tag, "TRCK", t.config.TrackNumber, position(e.TrackNumber, e.TrackCount))
	apply(tag, "TPOS", t.config.DiscNumber, position(e.DiscNumber, e.DiscCount))
	apply(tag, "TDRC", t.config.Date, e.ReleaseDate)
	apply(tag, "TCOP", t.config.Copyright, e.Copyright)

	if t.config.Comments == TagEmpty {
		tag.DeleteFrames(tag.CommonID("Comments"))
	}
}

// apply writes value into the frame id according to action.
// An empty value never overwrites an existing frame.
func apply(tag *id3v2.Tag, id string, action TagEditAction, value string) {
	switch action {
	case TagEmpty:
		tag.DeleteFrames(id)
	case TagModify:
		if value == "" {
			return
		}
		tag.DeleteFrames(id)
		tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
	}
}

// position formats "n/count", "n", or "" when n is absent.
func position(n, count int) string {
	if n <= 0 {
		return ""
	}
	if count <= 0 {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%d/%d", n, count)
}

// updateArtwork embeds cover art as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}
