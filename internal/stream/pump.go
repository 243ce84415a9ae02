package stream

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/ytmusic-downloader/internal/model"
)

// pumpBuffer is the number of chunks in flight between producer and writer.
const pumpBuffer = 8

// Pump copies every chunk of s into w and returns the bytes written.
//
// One goroutine drains the session and one writes, connected by a bounded
// channel, so chunks reach w one at a time in arrival order. A write failure
// is returned wrapped in model.ErrIOFailure and stops the session.
//
// Example:
//
//	tmp, _ := os.CreateTemp("", "ytmusic-*.webm")
//	defer tmp.Close()
//	n, err := stream.Pump(ctx, session, tmp)
func Pump(ctx context.Context, s *Session, w io.Writer) (int64, error) {
	g, ctx := errgroup.WithContext(ctx)
	chunks := make(chan []byte, pumpBuffer)

	g.Go(func() error {
		defer close(chunks)
		for chunk, err := range s.Chunks(ctx) {
			if err != nil {
				return err
			}
			select {
			case chunks <- chunk:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var written int64
	g.Go(func() error {
		for chunk := range chunks {
			n, err := w.Write(chunk)
			written += int64(n)
			if err != nil {
				return fmt.Errorf("%w: write chunk: %v", model.ErrIOFailure, err)
			}
		}
		return nil
	})

	err := g.Wait()
	return written, err
}
