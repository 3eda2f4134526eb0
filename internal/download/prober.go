package download

import (
	"context"

	"github.com/ytget/yt-playlist-downloader/internal/platform"
)

// ExecProber probes the configured executables on the host
type ExecProber struct {
	YtDlp  string
	FFmpeg string
}

// CheckDownloader verifies yt-dlp
func (p ExecProber) CheckDownloader(ctx context.Context) (*platform.ToolInfo, error) {
	return platform.CheckDownloader(ctx, p.YtDlp)
}

// CheckMerger verifies ffmpeg
func (p ExecProber) CheckMerger(ctx context.Context) (*platform.ToolInfo, error) {
	return platform.CheckMerger(ctx, p.FFmpeg)
}
