package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	ythttp "github.com/handiism/ytmusic-downloader/internal/http"
	"github.com/handiism/ytmusic-downloader/internal/stream"
)

// httpTransfer reads one format over ranged GETs.
//
// An expired URL (403/410) or a connection dropped mid-body is reported as a
// reload request. After Redirect the next Recv resumes at the first byte not
// yet delivered.
type httpTransfer struct {
	client    *ythttp.Client
	format    stream.Format
	chunkSize int

	url     string
	headers map[string]string
	offset  int64
	total   int64
	body    io.ReadCloser
	eof     bool
}

func (t *httpTransfer) Recv(ctx context.Context) (stream.Message, error) {
	if t.eof {
		return stream.End(), nil
	}

	if t.body == nil {
		resp, err := t.client.OpenRange(ctx, t.url, t.headers, t.offset)
		if err != nil {
			var se *ythttp.StatusError
			if errors.As(err, &se) && se.Expired() {
				return stream.Reload(stream.ReloadContext{Reason: se.Error()}), nil
			}
			return stream.Message{}, err
		}
		t.body = resp.Body
		t.total = 0
		if resp.ContentLength > 0 {
			// A 200 reply ignored the range; OpenRange already skipped the
			// first offset bytes and the length covers the whole file.
			t.total = resp.ContentLength
			if resp.StatusCode == http.StatusPartialContent {
				t.total += t.offset
			}
		}
	}

	buf := make([]byte, t.chunkSize)
	n, err := t.body.Read(buf)
	t.offset += int64(n)

	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		t.closeBody()
		if t.total > 0 && t.offset < t.total {
			return t.deliverOrReload(buf[:n], "body ended early")
		}
		t.eof = true
	default:
		t.closeBody()
		if ctx.Err() != nil {
			return stream.Message{}, ctx.Err()
		}
		return t.deliverOrReload(buf[:n], err.Error())
	}

	if n == 0 {
		if t.eof {
			return stream.End(), nil
		}
		return t.Recv(ctx)
	}
	return stream.Chunk(buf[:n]), nil
}

// deliverOrReload returns the bytes read before a failure, if any. The next
// Recv then reopens from the current offset.
func (t *httpTransfer) deliverOrReload(data []byte, reason string) (stream.Message, error) {
	if len(data) > 0 {
		return stream.Chunk(data), nil
	}
	return stream.Reload(stream.ReloadContext{Reason: reason}), nil
}

func (t *httpTransfer) Redirect(n *stream.Negotiation) error {
	u := n.EndpointFor(t.format)
	if u == "" {
		return fmt.Errorf("no URL for format %s", t.format.ID)
	}

	headers := map[string]string{}
	if len(n.Config) > 0 {
		if err := json.Unmarshal(n.Config, &headers); err != nil {
			return fmt.Errorf("decode client config: %w", err)
		}
	}

	t.closeBody()
	t.url = u
	t.headers = headers
	return nil
}

func (t *httpTransfer) Close() error {
	t.closeBody()
	return nil
}

func (t *httpTransfer) closeBody() {
	if t.body != nil {
		t.body.Close()
		t.body = nil
	}
}
