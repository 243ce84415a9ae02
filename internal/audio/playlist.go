package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handiism/ytmusic-downloader/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
//
// Each format has different features and compatibility:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
//   - WPL: XML format, Windows Media Player
//   - ZPL: XML format, Zune/Groove Music
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for duration/title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS

	// FormatWPL creates .wpl files (Windows Media Player).
	FormatWPL

	// FormatZPL creates .zpl files (Zune/Groove Music).
	FormatZPL
)

// ParsePlaylistFormat maps a settings value such as "m3u" or "PLS" to a format.
// Unknown values fall back to M3U.
func ParsePlaylistFormat(s string) PlaylistFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pls":
		return FormatPLS
	case "wpl":
		return FormatWPL
	case "zpl":
		return FormatZPL
	default:
		return FormatM3U
	}
}

// Extension returns the file extension for the format, including the dot.
func (f PlaylistFormat) Extension() string {
	switch f {
	case FormatPLS:
		return ".pls"
	case FormatWPL:
		return ".wpl"
	case FormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

// PlaylistEntry is one track line of a playlist file.
type PlaylistEntry struct {
	Path        string
	Title       string
	Artist      string
	Album       string
	DurationSec int
}

// Playlist is an ordered list of downloaded tracks.
type Playlist struct {
	Title   string
	Entries []PlaylistEntry
}

// PlaylistFromDownloads collects the completed downloads in order.
// Failed or unfinished downloads are skipped. Paths are made relative to
// root, the folder the playlist file is written to.
func PlaylistFromDownloads(title, root string, downloads []model.Download) Playlist {
	pl := Playlist{Title: title}
	for _, d := range downloads {
		if !d.IsCompleted() {
			continue
		}
		md := d.Metadata()
		pl.Entries = append(pl.Entries, PlaylistEntry{
			Path:        relativePath(root, d.OutputPath()),
			Title:       md.Title,
			Artist:      md.Artists.String(),
			Album:       md.Album,
			DurationSec: int(md.DurationMs / 1000),
		})
	}
	return pl
}

func relativePath(root, path string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}

// PlaylistCreator generates playlist files in various formats.
//
// The output is a string that can be written to a file. Entry paths are
// written as given, so they should be relative to the playlist file.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist(audio.PlaylistFromDownloads("Mix", base, downloads))
//	os.WriteFile(path, []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:213,Rick Astley - Never Gonna Give You Up
//	// Rick Astley/Rick Astley - Never Gonna Give You Up.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with duration/title
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// extended only affects the M3U format.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Format returns the configured playlist format.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

// CreatePlaylist generates playlist content.
func (p *PlaylistCreator) CreatePlaylist(pl Playlist) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(pl)
	case FormatWPL:
		return p.createWPL(pl)
	case FormatZPL:
		return p.createZPL(pl)
	default:
		return p.createM3U(pl)
	}
}

// createM3U generates an M3U playlist.
//
// Standard M3U format:
//
//	filename1.mp3
//	filename2.mp3
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#EXTINF:180,Artist - Title
//	filename1.mp3
func (p *PlaylistCreator) createM3U(pl Playlist) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, e := range pl.Entries {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s - %s\n", e.DurationSec, e.Artist, e.Title))
		}
		sb.WriteString(e.Path + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
// PLS format is an INI-style text file:
//
//	[playlist]
//	File1=filename1.mp3
//	Title1=Song Title
//	Length1=180
//	NumberOfEntries=2
//	Version=2
func (p *PlaylistCreator) createPLS(pl Playlist) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, e := range pl.Entries {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, e.Path))
		sb.WriteString(fmt.Sprintf("Title%d=%s - %s\n", idx, e.Artist, e.Title))
		sb.WriteString(fmt.Sprintf("Length%d=%d\n", idx, e.DurationSec))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(pl.Entries)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// createWPL generates a Windows Media Player playlist.
//
// WPL is an XML-based SMIL format used by Windows Media Player.
func (p *PlaylistCreator) createWPL(pl Playlist) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(pl.Title)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, e := range pl.Entries {
		sb.WriteString(fmt.Sprintf("      <media src=\"%s\"/>\n", escapeXML(e.Path)))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// createZPL generates a Zune/Groove Music playlist.
//
// ZPL is similar to WPL but includes additional metadata attributes
// like album title, artist, and track duration.
func (p *PlaylistCreator) createZPL(pl Playlist) string {
	var sb strings.Builder

	sb.WriteString("<?zpl version=\"2.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(pl.Title)))
	sb.WriteString("    <meta name=\"Generator\" content=\"ytmusic-downloader\"/>\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(pl.Entries)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, e := range pl.Entries {
		sb.WriteString(fmt.Sprintf("      <media src=\"%s\" albumTitle=\"%s\" trackTitle=\"%s\" trackArtist=\"%s\" duration=\"%d\"/>\n",
			escapeXML(e.Path),
			escapeXML(e.Album),
			escapeXML(e.Title),
			escapeXML(e.Artist),
			e.DurationSec*1000))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
