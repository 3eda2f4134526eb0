package merge

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	zaplog "github.com/gcottom/go-zaplog"
	"go.uber.org/zap"

	"github.com/ytget/yt-playlist-downloader/internal/platform"
)

// FFmpeg constants for stream-copy muxing
const (
	CopyCodec     = "copy"
	FastStartFlag = "+faststart"

	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
)

// Service runs ffmpeg to merge streams
type Service struct {
	executable string
}

// NewService creates a merge service for the given ffmpeg executable name
// or path. An empty name means "ffmpeg" from PATH.
func NewService(executable string) *Service {
	if executable == "" {
		executable = platform.FFmpegCommand
	}
	return &Service{executable: executable}
}

// Merge muxes videoPath and audioPath into outputPath without re-encoding.
// onProgress, when set, receives progress in [0, 1]. A partial output file
// is removed on failure.
func (s *Service) Merge(ctx context.Context, videoPath, audioPath, outputPath string, onProgress func(float64)) error {
	for _, p := range []string{videoPath, audioPath} {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", p)
		}
	}

	var duration float64
	if onProgress != nil {
		var err error
		duration, err = s.getVideoDuration(ctx, videoPath)
		if err != nil {
			zaplog.WarnC(ctx, "failed to get video duration", zap.String("path", videoPath), zap.Error(err))
		}
	}

	cmd := exec.CommandContext(ctx, s.executable, s.BuildFFmpegArgs(videoPath, audioPath, outputPath)...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	// Wait closes the pipe, so progress must be drained first
	monitorProgress(stderr, duration, onProgress)

	if err := cmd.Wait(); err != nil {
		os.Remove(outputPath)
		if ctx.Err() != nil {
			return fmt.Errorf("merge interrupted: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg failed for %s: %w", filepath.Base(outputPath), err)
	}

	zaplog.InfoC(ctx, "merged streams", zap.String("output", outputPath))
	return nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func (s *Service) BuildFFmpegArgs(videoPath, audioPath, outputPath string) []string {
	return []string{
		"-y",            // Overwrite output file
		"-i", videoPath, // Video stream
		"-i", audioPath, // Audio stream
		"-c", CopyCodec, // No re-encoding
		"-shortest",
		"-movflags", FastStartFlag, // MP4 optimization
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats",
		outputPath,
	}
}

// ffprobePath returns the ffprobe that ships next to the configured ffmpeg,
// or "ffprobe" from PATH when ffmpeg itself comes from PATH
func (s *Service) ffprobePath() string {
	dir, name := filepath.Split(s.executable)
	if dir == "" {
		return FFprobeCommand
	}
	if i := strings.Index(strings.ToLower(name), platform.FFmpegCommand); i >= 0 {
		name = name[:i] + FFprobeCommand + name[i+len(platform.FFmpegCommand):]
		return filepath.Join(dir, name)
	}
	return filepath.Join(dir, FFprobeCommand)
}

// getVideoDuration gets the duration of a media file in seconds using ffprobe
func (s *Service) getVideoDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, s.ffprobePath(),
		"-v", FFprobeLogLevel,
		"-show_entries", FFprobeShowEntries,
		"-of", FFprobeOutputFormat,
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to get duration: %w", err)
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return duration, nil
}

// monitorProgress reads ffmpeg progress output until the pipe closes
func monitorProgress(stderr io.Reader, totalDuration float64, onProgress func(float64)) {
	scanner := bufio.NewScanner(stderr)

	for scanner.Scan() {
		progress, ok := parseProgressLine(scanner.Text(), totalDuration)
		if ok && onProgress != nil {
			onProgress(progress)
		}
	}
}

// parseProgressLine turns "out_time_us=123456" into a fraction of the total
func parseProgressLine(line string, totalDuration float64) (float64, bool) {
	line = strings.TrimSpace(line)
	if totalDuration <= 0 || !strings.HasPrefix(line, ProgressTimePrefix) {
		return 0, false
	}

	timeMicroseconds, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
	if err != nil {
		return 0, false
	}

	progress := float64(timeMicroseconds) / 1000000.0 / totalDuration
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0 {
		progress = 0
	}
	return progress, true
}
