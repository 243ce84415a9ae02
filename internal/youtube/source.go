package youtube

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-json"

	"github.com/handiism/ytmusic-downloader/internal/stream"
)

// Negotiate extracts fresh formats for req.VideoID.
//
// yt-dlp hands out signed per-format URLs, so every negotiation, including
// one after a reload, is a new extraction. The proof-of-origin token is passed
// to yt-dlp as an extractor argument. The negotiated Config holds the request
// headers the media host expects, encoded as JSON.
func (c *Client) Negotiate(ctx context.Context, req stream.NegotiateRequest) (*stream.Negotiation, error) {
	id, err := ParseVideoID(req.VideoID)
	if err != nil {
		return nil, err
	}

	info, err := c.videoInfo(ctx, id, req.Token)
	if err != nil {
		return nil, err
	}

	formats := make([]stream.Format, 0, len(info.Formats))
	headers := info.HTTPHeaders
	for _, f := range info.Formats {
		sf := f.streamFormat()
		sf.ApproxDurationMs = int64(math.Round(info.Duration * 1000))
		formats = append(formats, sf)
		if len(headers) == 0 && sf.AudioOnly && len(f.HTTPHeaders) > 0 {
			headers = f.HTTPHeaders
		}
	}
	if headers == nil {
		headers = map[string]string{}
	}

	config, err := json.Marshal(headers)
	if err != nil {
		return nil, fmt.Errorf("encode client config: %w", err)
	}

	return &stream.Negotiation{
		Formats: formats,
		Config:  config,
		Token:   req.Token,
	}, nil
}

// Open starts a ranged HTTP transfer of f.
func (c *Client) Open(ctx context.Context, n *stream.Negotiation, f stream.Format) (stream.Transfer, error) {
	t := &httpTransfer{client: c.http, format: f, chunkSize: c.chunkSize}
	if err := t.Redirect(n); err != nil {
		return nil, err
	}
	return t, nil
}

func (f formatInfo) streamFormat() stream.Format {
	audioOnly := f.VCodec == "none" && f.ACodec != "" && f.ACodec != "none"
	kbps := f.ABR
	if kbps == 0 && audioOnly {
		kbps = f.TBR
	}
	return stream.Format{
		ID:        f.FormatID,
		MimeType:  mimeType(f),
		Codec:     f.ACodec,
		Bitrate:   int(kbps * 1000),
		AudioOnly: audioOnly,
		Quality:   noteQuality(f.FormatNote),
		URL:       f.URL,
	}
}

func mimeType(f formatInfo) string {
	if f.Ext == "" {
		return ""
	}
	if f.VCodec == "none" {
		if f.Ext == "m4a" {
			return "audio/mp4"
		}
		return "audio/" + f.Ext
	}
	return "video/" + f.Ext
}

// noteQuality reads the tier out of notes such as "medium, DRC".
func noteQuality(note string) stream.Quality {
	note = strings.ToLower(note)
	for _, q := range []stream.Quality{stream.QualityHigh, stream.QualityMedium, stream.QualityLow} {
		if strings.Contains(note, string(q)) {
			return q
		}
	}
	return ""
}
