package main

import (
	"fmt"
	"os"

	"github.com/handiism/ytmusic-downloader/internal/config"
	"github.com/handiism/ytmusic-downloader/internal/download"
	"github.com/handiism/ytmusic-downloader/internal/transcode"
	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath      string
	output          string
	quality         string
	bitrate         string
	enricher        string
	jobs            int
	continueOnError bool
	playlistFile    bool
	verbose         bool
	noProgress      bool

	// managerFactory replaces the ffmpeg-checked production manager when set.
	managerFactory func(*config.Settings, *printer) (*download.Manager, error)
}

func newRootCommand(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "ytmusic-dl",
		Short: "Download tracks and playlists from YouTube Music",
		Long: "ytmusic-dl downloads YouTube Music tracks, converts them with ffmpeg\n" +
			"and tags them with metadata from iTunes or MusicBrainz.\n\n" +
			"For interactive mode, use: ytmusic-tui",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "Path to config file (default "+config.DefaultPath()+")")
	f.StringVarP(&opts.output, "output", "o", "", "Output directory (overrides config)")
	f.StringVarP(&opts.quality, "quality", "q", "", "Audio quality: low, medium or high")
	f.StringVarP(&opts.bitrate, "bitrate", "b", "", "Output bitrate, e.g. 192k (overrides the stream bitrate)")
	f.StringVar(&opts.enricher, "enricher", "", "Metadata source: itunes, musicbrainz or none")
	f.IntVarP(&opts.jobs, "jobs", "j", 0, "Playlist tracks downloaded at once")
	f.BoolVar(&opts.continueOnError, "continue-on-error", false, "Keep going when a playlist track fails")
	f.BoolVar(&opts.playlistFile, "playlist-file", false, "Write a playlist file after a playlist download")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Show verbose output")
	f.BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress bar")

	root.AddCommand(newDownloadCommand(opts), newSearchCommand(opts))
	return root
}

// settings loads the config file and applies the flags the user set.
func (o *options) settings(cmd *cobra.Command) (*config.Settings, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	settings, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		settings.DownloadsPath = o.output
	}
	if flags.Changed("quality") {
		settings.AudioQuality = o.quality
	}
	if flags.Changed("bitrate") {
		settings.Bitrate = o.bitrate
	}
	if flags.Changed("enricher") {
		settings.Enricher = o.enricher
	}
	if flags.Changed("jobs") {
		settings.MaxConcurrentTracks = o.jobs
	}
	if flags.Changed("continue-on-error") {
		settings.ContinueOnError = o.continueOnError
	}
	if flags.Changed("playlist-file") {
		settings.CreatePlaylist = o.playlistFile
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// newManager checks ffmpeg and builds a manager that reports through p.
func (o *options) newManager(settings *config.Settings, p *printer) (*download.Manager, error) {
	if o.managerFactory != nil {
		return o.managerFactory(settings, p)
	}
	if err := transcode.NewFFmpeg(settings.FFmpegPath).CheckAvailable(); err != nil {
		return nil, fmt.Errorf("%w\ninstall ffmpeg (https://ffmpeg.org/download.html) or set ffmpeg_path in the config", err)
	}
	return download.NewManager(settings, p.event), nil
}

func (o *options) printer() *printer {
	return newPrinter(os.Stdout, o.verbose)
}
