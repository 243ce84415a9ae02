package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/lrstanley/go-ytdlp"
	"github.com/samber/lo"

	ythttp "github.com/handiism/ytmusic-downloader/internal/http"
	"github.com/handiism/ytmusic-downloader/internal/model"
)

// dumpRequest describes one yt-dlp info dump.
type dumpRequest struct {
	URL   string
	Flat  bool
	Token string
}

// Dumper returns the JSON info dump for a URL.
type Dumper func(ctx context.Context, req dumpRequest) ([]byte, error)

// Options configures a Client.
type Options struct {
	// Executable is the yt-dlp binary. Empty means "yt-dlp" from PATH.
	Executable string

	// HTTP is used for media transfers.
	HTTP *ythttp.Client

	// ChunkSize is the read size of media transfers, 64 KiB when 0.
	ChunkSize int
}

// Client talks to YouTube Music through yt-dlp.
//
// It resolves track metadata, searches the catalog, lists playlist members
// and implements stream.AudioSource on top of yt-dlp format dumps.
//
// Example:
//
//	client := youtube.NewClient(youtube.Options{HTTP: ythttp.NewClient(30 * time.Second)})
//	md, err := client.TrackMetadata(ctx, "dQw4w9WgXcQ")
type Client struct {
	dump      Dumper
	http      *ythttp.Client
	chunkSize int
}

// NewClient creates a Client backed by the yt-dlp executable.
func NewClient(opts Options) *Client {
	return newClient(ytdlpDumper(opts.Executable), opts)
}

func newClient(dump Dumper, opts Options) *Client {
	if opts.HTTP == nil {
		opts.HTTP = ythttp.NewClient(0)
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 64 << 10
	}
	return &Client{dump: dump, http: opts.HTTP, chunkSize: opts.ChunkSize}
}

func ytdlpDumper(executable string) Dumper {
	return func(ctx context.Context, req dumpRequest) ([]byte, error) {
		cmd := ytdlp.New().
			DumpSingleJSON().
			SkipDownload().
			NoWarnings()
		if executable != "" {
			cmd.SetExecutable(executable)
		}
		if req.Flat {
			cmd.FlatPlaylist()
		}
		if req.Token != "" {
			cmd.ExtractorArgs("youtube:player_client=web_music;po_token=web_music.gvs+" + req.Token)
		}

		res, err := cmd.Run(ctx, req.URL)
		if err != nil {
			return nil, fmt.Errorf("yt-dlp %s: %w", req.URL, err)
		}
		return []byte(res.Stdout), nil
	}
}

func (c *Client) videoInfo(ctx context.Context, videoID, token string) (*videoInfo, error) {
	data, err := c.dump(ctx, dumpRequest{URL: WatchURL(videoID), Token: token})
	if err != nil {
		return nil, err
	}
	var info videoInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decode info for %s: %w", videoID, err)
	}
	return &info, nil
}

func (c *Client) listInfo(ctx context.Context, u string) (*listInfo, error) {
	data, err := c.dump(ctx, dumpRequest{URL: u, Flat: true})
	if err != nil {
		return nil, err
	}
	var info listInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decode list %s: %w", u, err)
	}
	return &info, nil
}

// TrackMetadata fetches the base metadata of a track.
func (c *Client) TrackMetadata(ctx context.Context, videoID string) (model.TrackMetadata, error) {
	if _, err := ParseVideoID(videoID); err != nil {
		return model.TrackMetadata{}, err
	}
	info, err := c.videoInfo(ctx, videoID, "")
	if err != nil {
		return model.TrackMetadata{}, err
	}
	return info.metadata(), nil
}

// Search returns catalog tracks matching query, in catalog order.
func (c *Client) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}

	info, err := c.listInfo(ctx, "https://"+MusicHost+"/search?q="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}

	return lo.FilterMap(info.Entries, func(e entryInfo, _ int) (model.SearchResult, bool) {
		if !videoIDPattern.MatchString(e.ID) {
			return model.SearchResult{}, false
		}
		return model.SearchResult{
			VideoID:    e.ID,
			Title:      e.Title,
			Artists:    model.NewArtists(entryArtists(e)...),
			Album:      e.Album,
			DurationMs: int64(e.Duration * 1000),
		}, true
	}), nil
}

// PlaylistTracks returns the member video ids of a playlist in order.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string) ([]string, error) {
	if strings.TrimSpace(playlistID) == "" {
		return nil, fmt.Errorf("%w: empty playlist id", model.ErrInvalidIdentifier)
	}
	info, err := c.listInfo(ctx, Ref{PlaylistID: playlistID}.PlaylistURL())
	if err != nil {
		return nil, err
	}

	ids := lo.FilterMap(info.Entries, func(e entryInfo, _ int) (string, bool) {
		return e.ID, videoIDPattern.MatchString(e.ID)
	})
	return ids, nil
}

func (v *videoInfo) metadata() model.TrackMetadata {
	title := lo.CoalesceOrEmpty(v.Track, v.Title)

	md := model.NewTrackMetadata(title, model.NewArtists(v.artists()...), v.Album, v.year(), v.cover())
	return md.WithDuration(int64(v.Duration * 1000))
}

func (v *videoInfo) artists() []string {
	if len(v.Artists) > 0 {
		return v.Artists
	}
	if a := lo.CoalesceOrEmpty(v.Artist, v.Creator); a != "" {
		return strings.Split(a, ", ")
	}
	return []string{topicName(lo.CoalesceOrEmpty(v.Uploader, v.Channel))}
}

func entryArtists(e entryInfo) []string {
	if len(e.Artists) > 0 {
		return e.Artists
	}
	return []string{topicName(lo.CoalesceOrEmpty(e.Uploader, e.Channel))}
}

// topicName strips the suffix of auto-generated artist channels.
func topicName(name string) string {
	return strings.TrimSuffix(strings.TrimSpace(name), " - Topic")
}

func (v *videoInfo) year() string {
	if v.ReleaseYear > 0 {
		return strconv.Itoa(v.ReleaseYear)
	}
	if len(v.ReleaseDate) >= 4 {
		return v.ReleaseDate[:4]
	}
	return ""
}

// cover picks the largest thumbnail.
func (v *videoInfo) cover() model.CoverArt {
	var best thumbnailInfo
	for _, t := range v.Thumbnails {
		if t.URL != "" && t.Width*t.Height >= best.Width*best.Height {
			best = t
		}
	}
	if best.URL == "" {
		best = thumbnailInfo{URL: v.Thumbnail}
	}
	return model.CoverArtFromThumbnail(best.URL, best.Width, best.Height)
}
