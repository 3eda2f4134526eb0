package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-playlist-downloader/internal/model"
	"github.com/ytget/yt-playlist-downloader/internal/platform"
)

func newListCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:          "list <playlist-URL>",
		Short:        "Print the videos of a playlist without downloading them",
		Example:      `list "https://www.youtube.com/playlist?list=PLxxxx"`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := platform.NewPlaylistParserService()
			parser.SetTimeout(timeout)

			playlist, err := parser.ParsePlaylist(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			writePlaylist(cmd.OutOrStdout(), playlist)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", platform.DefaultPlaylistParseTimeout, "time limit for fetching the playlist")
	return cmd
}

func writePlaylist(w io.Writer, playlist *model.Playlist) {
	fmt.Fprintf(w, "Title:  %s\n", playlist.Title)
	fmt.Fprintf(w, "ID:     %s\n", playlist.ID)
	fmt.Fprintf(w, "Videos: %d\n", playlist.TotalVideos)

	data := make([][]string, 0, len(playlist.Videos))
	for _, v := range playlist.Videos {
		data = append(data, []string{strconv.Itoa(v.Index), v.ID, v.Title})
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"#", "ID", "Title"})
	table.AppendBulk(data)
	table.Render()
}
