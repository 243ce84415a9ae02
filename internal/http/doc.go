// Package http provides the HTTP client shared by the pipeline adapters.
//
// The Client in this package handles:
//   - User-Agent headers
//   - JSON lookups (iTunes Search, MusicBrainz)
//   - Ranged media transfers that can resume from a byte offset
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient(30 * time.Second)
//
//	// Fetch cover art
//	data, err := client.Get(ctx, coverURL)
//
//	// Resume a media transfer
//	resp, err := client.OpenRange(ctx, mediaURL, headers, written)
//
// # Retries
//
// Retry runs a function with exponential backoff:
//
//	err := http.Retry(ctx, http.DefaultRetryPolicy(), func() error {
//	    data, err = client.Get(ctx, coverURL)
//	    return err
//	}, nil)
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
