// Package download provides the orchestration logic for acquiring tracks
// and playlists from YouTube Music.
//
// # Manager
//
// The Manager drives every track through the same steps:
//
//  1. Parse the URL or video id
//  2. Fetch base metadata
//  3. Reconcile it against iTunes or MusicBrainz (optional, never fatal)
//  4. Create the output folder
//  5. Stream the audio into a temporary file, surviving reload requests
//  6. Transcode to MP3 with ffmpeg
//  7. Write ID3 tags and cover art
//
// Each track is tracked by a model.Download whose state only moves forward;
// any fatal error fails it, removes the temporary file and returns the cause.
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	d, err := manager.DownloadTrack(ctx, "https://music.youtube.com/watch?v=dQw4w9WgXcQ")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(d.OutputPath())
//
// # Playlists
//
// DownloadPlaylist resolves the member list once and processes the tracks in
// order. settings.MaxConcurrentTracks above one runs them through a bounded
// errgroup; results keep playlist order either way.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Non-fatal problems such as missing enrichment or cover art arrive as
// LevelWarning events. GetProgress reports byte and file counters.
//
// # Testing
//
// NewManagerWithServices accepts any Services, so every external capability
// can be replaced by a fake.
package download
