package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"time"

	"github.com/handiism/ytmusic-downloader/internal/model"
)

const (
	// DefaultTimeout bounds negotiation and every renegotiation.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxReloads caps renegotiations for one session.
	DefaultMaxReloads = 8
)

// ErrSessionConsumed is returned when the chunk sequence is requested twice.
var ErrSessionConsumed = errors.New("stream session already consumed")

// Request names the track to stream.
type Request struct {
	VideoID string
	Quality Quality
	Token   string
}

// Options tune a Session. Zero values select the defaults.
type Options struct {
	Timeout    time.Duration
	MaxReloads int
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxReloads <= 0 {
		o.MaxReloads = DefaultMaxReloads
	}
	return o
}

// Session is a resumable adaptive-bitrate transfer of one track.
//
// A Session is driven by a single goroutine. Reload requests from the source
// are handled inside Next: the session renegotiates with the reload context and
// the original token, redirects the transfer and carries on, so the caller
// sees one gap-free sequence of chunks.
//
// Example:
//
//	s, err := stream.Open(ctx, source, stream.Request{VideoID: "dQw4w9WgXcQ"}, stream.Options{})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	for chunk, err := range s.Chunks(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    tmp.Write(chunk)
//	}
type Session struct {
	src      AudioSource
	req      Request
	opts     Options
	neg      *Negotiation
	format   Format
	bitrate  model.Bitrate
	transfer Transfer
	token    string

	reloads  int
	done     bool
	consumed bool
}

// Open negotiates with src, selects a format and opens the transfer.
//
// Any negotiation failure, including a missed deadline, a missing audio-only
// format or a missing endpoint or config, is returned wrapped in
// model.ErrStreamingUnavailable. A declared bitrate outside 64-320 kbps is
// clamped into that range, so low tier renditions (about 48 kbps) still
// transcode at 64k.
func Open(ctx context.Context, src AudioSource, req Request, opts Options) (*Session, error) {
	opts = opts.withDefaults()

	neg, err := negotiate(ctx, src, NegotiateRequest{VideoID: req.VideoID, Token: req.Token}, opts.Timeout)
	if err != nil {
		return nil, err
	}

	format, ok := SelectFormat(neg.Formats, req.Quality)
	if !ok {
		return nil, fmt.Errorf("%w: no audio-only format among %d formats", model.ErrStreamingUnavailable, len(neg.Formats))
	}
	if !neg.usable(format) {
		return nil, fmt.Errorf("%w: missing streaming endpoint or client config", model.ErrStreamingUnavailable)
	}

	bitrate, err := declaredBitrate(format)
	if err != nil {
		return nil, err
	}

	token := neg.Token
	if token == "" {
		token = req.Token
	}

	transfer, err := src.Open(ctx, neg, format)
	if err != nil {
		return nil, fmt.Errorf("%w: open transfer: %v", model.ErrStreamingUnavailable, err)
	}

	return &Session{
		src:      src,
		req:      req,
		opts:     opts,
		neg:      neg,
		format:   format,
		bitrate:  bitrate,
		transfer: transfer,
		token:    token,
	}, nil
}

func negotiate(ctx context.Context, src AudioSource, req NegotiateRequest, timeout time.Duration) (*Negotiation, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	neg, err := src.Negotiate(ctx, req)
	if err == nil && neg == nil {
		err = errors.New("empty negotiation")
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: negotiation deadline exceeded: %v", model.ErrStreamingUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %v", model.ErrStreamingUnavailable, err)
	}
	return neg, nil
}

// declaredBitrate rounds the format bitrate to kbps, defaulting to 128, and
// clamps it into the accepted range.
func declaredBitrate(f Format) (model.Bitrate, error) {
	kbps := int(math.Round(float64(f.Bitrate) / 1000))
	if kbps == 0 {
		kbps = model.DefaultBitrateKbps
	}
	return model.NewBitrate(min(max(kbps, model.MinBitrateKbps), model.MaxBitrateKbps))
}

// Bitrate returns the declared bitrate of the selected format.
func (s *Session) Bitrate() model.Bitrate {
	return s.bitrate
}

// Format returns the selected format.
func (s *Session) Format() Format {
	return s.format
}

// Reloads returns how many renegotiations took place.
func (s *Session) Reloads() int {
	return s.reloads
}

// Next returns the next chunk in arrival order, or io.EOF once the source
// has signalled end of data.
func (s *Session) Next(ctx context.Context) ([]byte, error) {
	for !s.done {
		msg, err := s.transfer.Recv(ctx)
		if err != nil {
			return nil, fmt.Errorf("receive: %w", err)
		}

		switch msg.Kind {
		case MessageChunk:
			if len(msg.Data) == 0 {
				continue
			}
			return msg.Data, nil
		case MessageReload:
			if err := s.reload(ctx, msg.Reload); err != nil {
				return nil, err
			}
		case MessageEnd:
			s.done = true
		default:
			return nil, fmt.Errorf("unexpected message kind %d", msg.Kind)
		}
	}
	return nil, io.EOF
}

func (s *Session) reload(ctx context.Context, rc *ReloadContext) error {
	s.reloads++
	if s.reloads > s.opts.MaxReloads {
		return fmt.Errorf("%w: more than %d reload requests", model.ErrStreamingUnavailable, s.opts.MaxReloads)
	}

	neg, err := negotiate(ctx, s.src, NegotiateRequest{
		VideoID: s.req.VideoID,
		Token:   s.token,
		Reload:  rc,
	}, s.opts.Timeout)
	if err != nil {
		return fmt.Errorf("renegotiate: %w", err)
	}
	if !neg.usable(s.format) {
		return fmt.Errorf("%w: renegotiation returned no endpoint or client config", model.ErrStreamingUnavailable)
	}
	if neg.Token == "" {
		neg.Token = s.token
	}

	if err := s.transfer.Redirect(neg); err != nil {
		return fmt.Errorf("%w: redirect: %v", model.ErrStreamingUnavailable, err)
	}
	s.neg = neg
	return nil
}

// Chunks returns the chunk sequence. It can be ranged over once; later calls
// yield ErrSessionConsumed.
func (s *Session) Chunks(ctx context.Context) iter.Seq2[[]byte, error] {
	if s.consumed {
		return func(yield func([]byte, error) bool) {
			yield(nil, ErrSessionConsumed)
		}
	}
	s.consumed = true

	return func(yield func([]byte, error) bool) {
		for {
			chunk, err := s.Next(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// Close releases the transfer.
func (s *Session) Close() error {
	return s.transfer.Close()
}
