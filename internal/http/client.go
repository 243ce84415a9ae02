package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// StatusError is returned when the server answers with an unexpected status.
//
// Callers use errors.As to inspect the code, for example to treat an expired
// media URL (403/410) differently from a missing resource:
//
//	var se *http.StatusError
//	if errors.As(err, &se) && se.Expired() {
//	    // renegotiate
//	}
type StatusError struct {
	Code   int
	Status string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// Expired reports whether the status means the URL is no longer valid.
func (e *StatusError) Expired() bool {
	return e.Code == http.StatusForbidden || e.Code == http.StatusGone
}

// Client wraps HTTP operations used by the pipeline.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout handling for small requests (metadata, artwork)
//   - Ranged GETs without a total timeout for long media transfers
//   - JSON decoding
//
// Example usage:
//
//	client := NewClient(30 * time.Second)
//
//	// Fetch and decode a JSON document
//	var res searchResponse
//	err := client.GetJSON(ctx, "https://itunes.apple.com/search?term=thunder", &res)
//
//	// Resume a media transfer from byte 4096
//	resp, err := client.OpenRange(ctx, mediaURL, headers, 4096)
type Client struct {
	httpClient   *http.Client
	streamClient *http.Client
	userAgent    string
}

// NewClient creates a new HTTP client.
//
// The client is configured with:
//   - timeout for Get and GetJSON (60 seconds when timeout is 0)
//   - no total timeout for OpenRange; the context bounds those transfers
//   - DefaultUserAgent
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		streamClient: &http.Client{},
		userAgent:    DefaultUserAgent,
	}
}

// WithUserAgent returns a copy of the client sending ua.
func (c *Client) WithUserAgent(ua string) *Client {
	cp := *c
	cp.userAgent = ua
	return &cp
}

// ProgressWriter wraps a writer to track transfer progress.
//
// Use this to monitor large transfers by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
// Total is 0 when the size is unknown, which is the normal case for
// adaptive streams.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d bytes\n", written)
//	    },
//	}
//	stream.Pump(ctx, session, pw)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes, or 0 when unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK (a *StatusError)
//   - Reading the body fails
//
// Example:
//
//	data, err := client.Get(ctx, "https://lh3.googleusercontent.com/abc=w1000-h1000")
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := c.newRequest(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, URL: url}
	}

	return io.ReadAll(resp.Body)
}

// GetJSON performs a GET request and decodes the JSON body into v.
//
// Example:
//
//	var res struct {
//	    ResultCount int `json:"resultCount"`
//	}
//	err := client.GetJSON(ctx, searchURL, &res)
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// OpenRange starts a GET for url from byte offset onward and returns the
// response with its body unread. The caller must close the body.
//
// headers are added to the request as-is; media hosts usually require the
// headers handed out during negotiation.
//
// A server that ignores the Range header answers 200 with the full body.
// In that case the first offset bytes are discarded before returning, so the
// body always starts at offset.
//
// Example:
//
//	resp, err := client.OpenRange(ctx, mediaURL, map[string]string{"Referer": "https://music.youtube.com/"}, 0)
//	if err != nil {
//	    return err
//	}
//	defer resp.Body.Close()
func (c *Client) OpenRange(ctx context.Context, url string, headers map[string]string, offset int64) (*http.Response, error) {
	req, err := c.newRequest(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusPartialContent:
		return resp, nil
	case http.StatusOK:
		if offset > 0 {
			if _, err := io.CopyN(io.Discard, resp.Body, offset); err != nil {
				resp.Body.Close()
				return nil, fmt.Errorf("skip to offset %d: %w", offset, err)
			}
		}
		return resp, nil
	default:
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, URL: url}
	}
}

func (c *Client) newRequest(ctx context.Context, url string, headers map[string]string) (*http.Request, error) {
	if url == "" {
		return nil, errors.New("empty URL")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req, nil
}
