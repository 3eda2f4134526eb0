package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	zaplog "github.com/gcottom/go-zaplog"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/yt-playlist-downloader/internal/config"
	"github.com/ytget/yt-playlist-downloader/internal/download"
	"github.com/ytget/yt-playlist-downloader/internal/merge"
	"github.com/ytget/yt-playlist-downloader/internal/model"
	"github.com/ytget/yt-playlist-downloader/internal/platform"
)

// Built-in references for --use-default and --single-video
const (
	DefaultPlaylistURL = "https://www.youtube.com/playlist?list=PLO_7Kx05VzchqbmSOPNqZJ1s1h7uzR4Ha"
	DefaultVideoURL    = "https://www.youtube.com/watch?v=ELgJ7SUqhP0"
)

var ErrMissingURL = errors.New("no URL given: pass --url, a positional URL, --use-default or --single-video")

type rootOptions struct {
	url         string
	output      string
	configPath  string
	backend     string
	quality     string
	useDefault  bool
	singleVideo bool
	open        bool
	noCleanup   bool
	verbose     bool
}

// Execute runs the command tree with a context that carries the logger
// and is cancelled on SIGINT or SIGTERM
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(zaplog.CreateAndInject(context.Background()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand(version).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "yt-playlist-downloader [URL]",
		Short: "Download a YouTube video or playlist as MP4 files",
		Long: `Downloads a YouTube video or a whole playlist as MP4 files into <desktop>/videos.
Playlists go into a subfolder named after the playlist. Intermediate files
(split streams, partial downloads, metadata) are removed afterwards.`,
		Example:      `yt-playlist-downloader --url "https://www.youtube.com/playlist?list=PLxxxx"`,
		Args:         cobra.MaximumNArgs(1),
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.url, "url", "u", "", "playlist or video URL")
	flags.StringVarP(&opts.output, "output", "o", "", "output directory (default <desktop>/videos)")
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file (default "+config.DefaultConfigPath()+", optional)")
	flags.StringVarP(&opts.backend, "backend", "b", "", "download backend: yt-dlp | native")
	flags.StringVarP(&opts.quality, "quality", "q", "", "quality preset: best | medium")
	flags.BoolVarP(&opts.useDefault, "use-default", "d", false, "use the built-in default playlist URL")
	flags.BoolVarP(&opts.singleVideo, "single-video", "s", false, "use the built-in default single video URL")
	flags.BoolVar(&opts.open, "open", false, "open the output directory when done")
	flags.BoolVar(&opts.noCleanup, "no-cleanup", false, "keep intermediate files")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "also print backend progress lines")

	cmd.AddCommand(newListCommand(), newSetupCommand(), newVersionCommand(version))
	return cmd
}

// reference picks the target URL: --url, then the positional argument,
// then the built-in defaults
func (o *rootOptions) reference(args []string) (string, error) {
	switch {
	case o.url != "":
		return o.url, nil
	case len(args) > 0 && args[0] != "":
		return args[0], nil
	case o.singleVideo:
		return DefaultVideoURL, nil
	case o.useDefault:
		return DefaultPlaylistURL, nil
	}
	return "", ErrMissingURL
}

// settings loads the config file and applies flag overrides
func (o *rootOptions) settings() (*config.Settings, error) {
	settings, err := config.LoadConfigFromFile(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.output != "" {
		settings.SetOutputDirectory(o.output)
	}
	if o.backend != "" {
		settings.SetBackend(o.backend)
	}
	if o.quality != "" {
		settings.SetQualityPreset(config.QualityPreset(o.quality))
	}
	if o.noCleanup {
		settings.KeepIntermediates = true
	}
	if o.open {
		settings.OpenOnComplete = true
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func runDownload(cmd *cobra.Command, opts *rootOptions, args []string) error {
	ref, err := opts.reference(args)
	if err != nil {
		return err
	}
	settings, err := opts.settings()
	if err != nil {
		return err
	}

	backend, err := newBackend(settings, colorable.NewColorableStderr())
	if err != nil {
		return err
	}
	prober := download.ExecProber{
		YtDlp:  settings.GetYtDlpExecutable(),
		FFmpeg: settings.GetFFmpegExecutable(),
	}

	out := cmd.OutOrStdout()
	svc := download.NewService(settings, backend, prober)
	svc.SetOutput(out)
	svc.SetVerbose(opts.verbose)

	ctx := cmd.Context()
	run, err := svc.Run(ctx, model.NewTarget(ref))
	if run != nil && run.Status != model.RunStatusError {
		download.WriteSummary(out, run)
	}
	if err != nil {
		return err
	}

	if settings.OpenOnComplete {
		if err := platform.OpenDirectoryInManager(run.OutputDir); err != nil {
			zaplog.WarnC(ctx, "failed to open output directory", zap.String("dir", run.OutputDir), zap.Error(err))
		}
	}
	return nil
}

// newBackend creates the backend named in settings
func newBackend(settings *config.Settings, progress io.Writer) (download.Backend, error) {
	switch settings.GetBackend() {
	case config.BackendYtDlp:
		b := download.NewYtDlpBackend(settings.GetYtDlpExecutable())
		if settings.FFmpegPath != "" {
			b.SetFFmpegLocation(settings.FFmpegPath)
		}
		if progress != nil {
			b.SetProgressOutput(progress)
		}
		return b, nil
	case config.BackendNative:
		b := download.NewNativeBackend(settings.GetHTTPTimeout(), merge.NewService(settings.GetFFmpegExecutable()))
		if progress != nil {
			b.SetProgressOutput(progress)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, settings.GetBackend())
}
