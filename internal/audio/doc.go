// Package audio writes ID3 tags into finished MP3 files and generates
// playlist files for playlist downloads.
//
// # ID3 Tagging
//
// The Tagger is the pipeline's metadata writer:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(path, download.Metadata(), jpegBytes)
//
// The tagger supports:
//   - Title, Artists, Album Artist, Album
//   - Year and release date
//   - Genre, track and disc position, copyright (when enriched)
//   - Cover Art (embedded in MP3)
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(audio.PlaylistFromDownloads("Mix", base, downloads))
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
