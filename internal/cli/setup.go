package cli

import (
	"fmt"

	"github.com/lrstanley/go-ytdlp"
	"github.com/spf13/cobra"
)

func newSetupCommand() *cobra.Command {
	var withFFmpeg bool

	cmd := &cobra.Command{
		Use:          "setup",
		Short:        "Install yt-dlp (and optionally ffmpeg) into the local cache",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			resolved := ytdlp.MustInstall(ctx, nil)
			fmt.Fprintln(out, "yt-dlp: ", resolved.Executable)
			if withFFmpeg {
				ffmpeg := ytdlp.MustInstallFFmpeg(ctx, nil)
				fmt.Fprintln(out, "ffmpeg: ", ffmpeg.Executable)
				ytdlp.MustInstallFFprobe(ctx, nil)
			}
			fmt.Fprintln(out, "Set ytdlp_path (and ffmpeg_path) in the config file to use these executables.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&withFFmpeg, "ffmpeg", true, "also install ffmpeg and ffprobe")
	return cmd
}
