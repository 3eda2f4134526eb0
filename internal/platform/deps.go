package platform

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// External tools
const (
	YtDlpCommand  = "yt-dlp"
	FFmpegCommand = "ffmpeg"

	VersionFlag       = "--version"
	FFmpegVersionFlag = "-version"

	DefaultProbeTimeout = 10 * time.Second
)

// Install hints printed with dependency errors
const (
	YtDlpInstallHint  = "install it with 'pip install yt-dlp' or run 'yt-playlist-downloader setup'"
	FFmpegInstallHint = "install ffmpeg to enable merged best-quality formats"
)

var (
	// ErrDownloaderMissing means yt-dlp is not on PATH or not runnable
	ErrDownloaderMissing = errors.New("yt-dlp is not installed or not accessible")

	// ErrMergerMissing means ffmpeg is not on PATH or not runnable
	ErrMergerMissing = errors.New("ffmpeg not found")
)

// ToolInfo describes a resolved external executable
type ToolInfo struct {
	Name    string
	Path    string
	Version string
}

// LookupTool resolves name on PATH (or as a path) and runs it with versionArgs
// to make sure it actually starts. The first output line is kept as version.
func LookupTool(ctx context.Context, name string, versionArgs ...string) (*ToolInfo, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, versionArgs...).Output()
	if err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", path, err)
	}

	return &ToolInfo{
		Name:    name,
		Path:    path,
		Version: firstLine(string(out)),
	}, nil
}

// CheckDownloader verifies the yt-dlp executable
func CheckDownloader(ctx context.Context, executable string) (*ToolInfo, error) {
	if executable == "" {
		executable = YtDlpCommand
	}
	info, err := LookupTool(ctx, executable, VersionFlag)
	if err != nil {
		return nil, fmt.Errorf("%w (%s): %v", ErrDownloaderMissing, YtDlpInstallHint, err)
	}
	return info, nil
}

// CheckMerger verifies the ffmpeg executable
func CheckMerger(ctx context.Context, executable string) (*ToolInfo, error) {
	if executable == "" {
		executable = FFmpegCommand
	}
	info, err := LookupTool(ctx, executable, FFmpegVersionFlag)
	if err != nil {
		return nil, fmt.Errorf("%w (%s): %v", ErrMergerMissing, FFmpegInstallHint, err)
	}
	return info, nil
}

func firstLine(s string) string {
	scanner := bufio.NewScanner(strings.NewReader(s))
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}
