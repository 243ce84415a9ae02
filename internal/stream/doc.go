// Package stream implements a resumable adaptive-bitrate audio session.
//
// An AudioSource negotiates formats, an endpoint, an opaque client config and
// a proof-of-origin token, then opens a Transfer that delivers Messages:
//
//	chunk, chunk, ..., reload(ctx), chunk, ..., end
//
// The Session turns that into a plain sequence of chunks. A reload request is
// an explicit message rather than a callback: Next renegotiates with the
// reload context and the original token, redirects the transfer to the new
// endpoint and keeps reading from where it left off. Failing to renegotiate
// is fatal and returned as model.ErrStreamingUnavailable.
//
// # Basic Usage
//
//	s, err := stream.Open(ctx, source, stream.Request{
//	    VideoID: "dQw4w9WgXcQ",
//	    Quality: stream.QualityMedium,
//	}, stream.Options{Timeout: 30 * time.Second})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	n, err := stream.Pump(ctx, s, tmpFile)
//	fmt.Println(n, "bytes at", s.Bitrate())
//
// # Format Selection
//
// SelectFormat only considers audio-only formats. The requested tier is
// preferred, then the nearest tier; within a tier the highest declared
// bitrate wins.
package stream
