// Package transcode converts downloaded audio with ffmpeg.
//
// The conversion is fixed to the settings the pipeline needs:
// 44.1 kHz stereo, no video stream, constant bitrate, MP3 container.
//
//	ff := transcode.NewFFmpeg("")
//	if err := ff.CheckAvailable(); err != nil {
//	    return err
//	}
//	err := ff.Convert(ctx, transcode.Request{
//	    Input:   "/tmp/ytmusic-123.webm",
//	    Output:  "/music/Artist/Artist - Title.mp3",
//	    Bitrate: bitrate,
//	})
package transcode
