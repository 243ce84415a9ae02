package main

import (
	"github.com/handiism/ytmusic-downloader/internal/download"
	"github.com/handiism/ytmusic-downloader/internal/model"
	"github.com/handiism/ytmusic-downloader/internal/youtube"
	"github.com/spf13/cobra"
)

func newDownloadCommand(opts *options) *cobra.Command {
	var playlist bool

	cmd := &cobra.Command{
		Use:   "download <url>",
		Short: "Download a track or a playlist",
		Long: "Download a YouTube Music track by URL or video id.\n\n" +
			"With --playlist, or when the URL only names a playlist, every\n" +
			"track of the playlist is downloaded in order.",
		Example: "  ytmusic-dl download https://music.youtube.com/watch?v=dQw4w9WgXcQ\n" +
			"  ytmusic-dl download --playlist 'https://music.youtube.com/playlist?list=PL123'",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			p := opts.printer()
			manager, err := opts.newManager(settings, p)
			if err != nil {
				return err
			}

			ref, err := youtube.ParseURL(args[0])
			if err != nil {
				return err
			}
			if playlist || ref.VideoID == "" {
				return runPlaylist(cmd, opts, manager, p, args[0])
			}
			return runTrack(cmd, opts, manager, p, args[0])
		},
	}

	cmd.Flags().BoolVarP(&playlist, "playlist", "p", false, "Download the whole playlist the URL belongs to")
	return cmd
}

func runTrack(cmd *cobra.Command, opts *options, manager *download.Manager, p *printer, target string) error {
	stop := startProgress(manager, !opts.noProgress && !opts.verbose)
	d, err := manager.DownloadTrack(cmd.Context(), target)
	stop()
	if err != nil {
		return err
	}

	p.successf("Saved %s", d.OutputPath())
	return nil
}

func runPlaylist(cmd *cobra.Command, opts *options, manager *download.Manager, p *printer, target string) error {
	stop := startProgress(manager, !opts.noProgress && !opts.verbose)
	downloads, err := manager.DownloadPlaylist(cmd.Context(), target)
	stop()

	received, _, _, _ := manager.GetProgress()
	p.infof("Downloaded %d/%d tracks (%.2f MB)", countCompleted(downloads), len(downloads), float64(received)/1024/1024)
	return err
}

func countCompleted(downloads []model.Download) int {
	n := 0
	for _, d := range downloads {
		if d.IsCompleted() {
			n++
		}
	}
	return n
}
