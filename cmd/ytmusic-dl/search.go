package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/handiism/ytmusic-downloader/internal/model"
	"github.com/handiism/ytmusic-downloader/internal/tui"
	"github.com/spf13/cobra"
)

func newSearchCommand(opts *options) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog and download the chosen track",
		Long: "Search YouTube Music for tracks.\n\n" +
			"On a terminal the results are shown in a picker and the chosen\n" +
			"track is downloaded. Otherwise, or with --print, the results are\n" +
			"printed one per line as <video id>\t<title - artists (m:ss)>.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			p := opts.printer()
			query := strings.Join(args, " ")

			manager, err := opts.newManager(settings, p)
			if err != nil {
				return err
			}
			results, err := manager.Search(cmd.Context(), query)
			if err != nil {
				return err
			}

			interactive := !printOnly && isTerminal(os.Stdin) && isTerminal(os.Stdout)
			if !interactive {
				return printResults(cmd.OutOrStdout(), results)
			}
			if len(results) == 0 {
				return fmt.Errorf("no results for %q", query)
			}

			chosen, ok, err := tui.Pick(query, results)
			if err != nil {
				return err
			}
			if !ok {
				p.infof("Nothing selected")
				return nil
			}
			return runTrack(cmd, opts, manager, p, chosen.VideoID)
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "Print results instead of picking one")
	return cmd
}

func printResults(w io.Writer, results []model.SearchResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\n", r.VideoID, r.Label())
	}
	return tw.Flush()
}
