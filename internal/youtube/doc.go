// Package youtube adapts YouTube Music to the pipeline through yt-dlp.
//
// yt-dlp is run in dump mode (no download) and its JSON output is decoded to
// resolve track metadata, search results and playlist members. The same dump
// provides the signed format URLs used by the stream.AudioSource
// implementation; media bytes are then fetched with ranged HTTP requests so a
// transfer can resume after its URL expires.
//
// # URLs
//
//	ref, err := youtube.ParseURL("https://music.youtube.com/watch?v=dQw4w9WgXcQ&list=PL123")
//	// ref.VideoID == "dQw4w9WgXcQ", ref.PlaylistID == "PL123"
//
// Only music.youtube.com URLs and bare 11 character ids are accepted. Every
// rejection wraps model.ErrInvalidIdentifier.
//
// # Streaming
//
//	client := youtube.NewClient(youtube.Options{})
//	s, err := stream.Open(ctx, client, stream.Request{VideoID: ref.VideoID}, stream.Options{})
package youtube
