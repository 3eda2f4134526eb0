package download

import (
	"context"

	"github.com/ytget/yt-playlist-downloader/internal/model"
	"github.com/ytget/yt-playlist-downloader/internal/platform"
)

// Requirement names an external capability a backend cannot run without
type Requirement string

const (
	RequireDownloader Requirement = "downloader"
)

// Backend fetches a target into the output directory.
type Backend interface {
	Name() string
	Requirements() []Requirement
	Download(ctx context.Context, req Request) (*Result, error)
}

// ToolProber checks the external executables a run may need.
type ToolProber interface {
	CheckDownloader(ctx context.Context) (*platform.ToolInfo, error)
	CheckMerger(ctx context.Context) (*platform.ToolInfo, error)
}

// Cleaner removes intermediate artifacts after a run.
type Cleaner interface {
	Sweep(ctx context.Context, files ...string) model.CleanupReport
}
