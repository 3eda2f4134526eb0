package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	zaplog "github.com/gcottom/go-zaplog"
	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/ytget/yt-playlist-downloader/internal/config"
)

// ProgressInterval is how often yt-dlp progress is reported
const ProgressInterval = 500 * time.Millisecond

// ErrBackendStart means the backend process never started
var ErrBackendStart = errors.New("download backend could not be started")

// YtDlpBackend drives the yt-dlp executable
type YtDlpBackend struct {
	executable string
	ffmpegPath string
	progressTo io.Writer // nil disables progress bars
}

// NewYtDlpBackend creates the yt-dlp backend. An empty executable means
// "yt-dlp" from PATH.
func NewYtDlpBackend(executable string) *YtDlpBackend {
	return &YtDlpBackend{executable: executable}
}

// SetFFmpegLocation points yt-dlp at a specific ffmpeg
func (b *YtDlpBackend) SetFFmpegLocation(path string) {
	b.ffmpegPath = path
}

// SetProgressOutput enables progress bars written to w
func (b *YtDlpBackend) SetProgressOutput(w io.Writer) {
	b.progressTo = w
}

// Name returns the backend name
func (b *YtDlpBackend) Name() string {
	return config.BackendYtDlp
}

// Requirements returns the external tools the backend needs
func (b *YtDlpBackend) Requirements() []Requirement {
	return []Requirement{RequireDownloader}
}

// command builds the yt-dlp invocation for req
func (b *YtDlpBackend) command(req Request) *ytdlp.Command {
	dl := ytdlp.New().
		Format(req.Format).
		Output(req.OutputTemplate).
		IgnoreErrors().
		Continue().
		NoOverwrites().
		IgnoreConfig()

	if req.CanMerge {
		dl = dl.MergeOutputFormat(config.MergeOutputFormat)
	}
	if req.Target.IsPlaylist() {
		dl = dl.YesPlaylist()
	} else {
		dl = dl.NoPlaylist()
	}
	if req.RestrictFilenames {
		dl = dl.RestrictFilenames()
	}
	if b.executable != "" {
		dl = dl.SetExecutable(b.executable)
	}
	if b.ffmpegPath != "" {
		dl = dl.FFmpegLocation(b.ffmpegPath)
	}
	return dl
}

// Download runs yt-dlp once for the whole target. A non-zero exit is
// returned together with the parsed result; only a process that never
// started yields ErrBackendStart. An interrupted run returns whatever
// output was captured with the context error.
func (b *YtDlpBackend) Download(ctx context.Context, req Request) (*Result, error) {
	dl := b.command(req)

	var progress *Progress
	if b.progressTo != nil {
		progress = NewProgress(b.progressTo)
		dl = dl.ProgressFunc(ProgressInterval, func(update ytdlp.ProgressUpdate) {
			updateProgress(progress, &update)
		})
	}

	zaplog.InfoC(ctx, "starting yt-dlp", zap.String("target", req.Target.Reference), zap.String("format", req.Format), zap.String("output", req.OutputTemplate))
	result, err := dl.Run(ctx, req.Target.Reference)

	if progress != nil {
		progress.Wait()
	}

	if ctx.Err() != nil {
		// keep what was printed before the interrupt so cleanup knows the files
		if result == nil {
			return nil, ctx.Err()
		}
		return newResult(result.ExitCode, splitLines(result.Stdout, result.Stderr)), ctx.Err()
	}
	if result == nil || result.ExitCode < 0 {
		return nil, fmt.Errorf("%w: %v", ErrBackendStart, err)
	}

	res := newResult(result.ExitCode, splitLines(result.Stdout, result.Stderr))
	if err != nil {
		return res, fmt.Errorf("yt-dlp exited with code %d: %w", result.ExitCode, err)
	}
	return res, nil
}

// updateProgress feeds a yt-dlp progress update into the bars
func updateProgress(progress *Progress, update *ytdlp.ProgressUpdate) {
	key := update.Filename
	name := filepath.Base(update.Filename)
	if update.Info != nil && update.Info.Title != nil && *update.Info.Title != "" {
		name = *update.Info.Title
	}
	progress.Update(key, name, int64(update.DownloadedBytes), int64(update.TotalBytes))
}

func splitLines(outputs ...string) []string {
	var lines []string
	for _, out := range outputs {
		for _, line := range strings.Split(strings.ReplaceAll(out, "\r", "\n"), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}
