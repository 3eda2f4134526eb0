package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	zaplog "github.com/gcottom/go-zaplog"
	"github.com/kkdai/youtube/v2"
	"go.uber.org/zap"

	"github.com/ytget/yt-playlist-downloader/internal/config"
	"github.com/ytget/yt-playlist-downloader/internal/merge"
	"github.com/ytget/yt-playlist-downloader/internal/platform"
)

// MIME prefixes of the streams the native backend can put in an MP4
const (
	mimeVideoMP4 = "video/mp4"
	mimeAudioMP4 = "audio/mp4"

	partialSuffix  = ".part"
	audioExtension = ".m4a"
	videoExtension = ".mp4"

	// merge progress is shown on a bar of this many units
	mergeBarTotal = 1000
)

var errNoFormat = errors.New("no downloadable mp4 format")

// videoSource is the part of the YouTube client the native backend uses
type videoSource interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetPlaylistContext(ctx context.Context, url string) (*youtube.Playlist, error)
	VideoFromPlaylistEntryContext(ctx context.Context, entry *youtube.PlaylistEntry) (*youtube.Video, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

// NativeBackend downloads with github.com/kkdai/youtube/v2 and merges split
// streams with ffmpeg
type NativeBackend struct {
	client     videoSource
	merger     merge.Merger
	progressTo io.Writer
}

// NewNativeBackend creates the native backend
func NewNativeBackend(timeout time.Duration, merger merge.Merger) *NativeBackend {
	return &NativeBackend{
		client: &youtube.Client{HTTPClient: &http.Client{Timeout: timeout}},
		merger: merger,
	}
}

// SetProgressOutput enables progress bars written to w
func (b *NativeBackend) SetProgressOutput(w io.Writer) {
	b.progressTo = w
}

// Name returns the backend name
func (b *NativeBackend) Name() string {
	return config.BackendNative
}

// Requirements returns nil: the native backend needs no external downloader
func (b *NativeBackend) Requirements() []Requirement {
	return nil
}

// Download fetches every video of the target one by one. Per-item failures
// are recorded in the result and the loop continues.
func (b *NativeBackend) Download(ctx context.Context, req Request) (*Result, error) {
	res := &Result{}

	var progress *Progress
	if b.progressTo != nil {
		progress = NewProgress(b.progressTo)
		defer progress.Wait()
	}

	videos, dir, total, err := b.resolve(ctx, req, res)
	if err != nil {
		res.ExitCode = 1
		res.addLine("ERROR: " + err.Error())
		return res, fmt.Errorf("failed to resolve %s: %w", req.Target.Reference, err)
	}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		res.ExitCode = 1
		return res, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	for _, video := range videos {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		path, existed, err := b.downloadVideo(ctx, video, dir, req, progress)
		if err != nil {
			// the partial name lets cleanup find what the attempt left behind
			res.addFile(path + partialSuffix)
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			res.ExitCode = 1
			status := res.addLine(fmt.Sprintf("ERROR: [%s] %s: %v", video.ID, video.Title, err))
			zaplog.WarnC(ctx, "video failed", zap.String("id", video.ID), zap.String("status", status.String()), zap.Error(err))
			continue
		}
		if existed {
			res.addLine(platform.DownloadPrefix + path + platform.AlreadyDownloadedTail)
		} else {
			res.addLine(platform.DownloadPrefix + path + " finished")
		}
		res.addFile(path)
	}

	if res.ExitCode != 0 {
		return res, fmt.Errorf("%d of %d videos failed", res.Errors+res.Skipped, total)
	}
	return res, nil
}

// resolve returns the videos of the target, the directory they go into and
// how many items the target lists. Playlist entries that cannot be resolved
// are recorded in res as failed items.
func (b *NativeBackend) resolve(ctx context.Context, req Request, res *Result) ([]*youtube.Video, string, int, error) {
	if !req.Target.IsPlaylist() {
		video, err := b.client.GetVideoContext(ctx, req.Target.Reference)
		if err != nil {
			return nil, "", 0, err
		}
		return []*youtube.Video{video}, req.OutputDir, 1, nil
	}

	playlist, err := b.client.GetPlaylistContext(ctx, req.Target.Reference)
	if err != nil {
		return nil, "", 0, err
	}
	dir := filepath.Join(req.OutputDir, RenderTemplate(req.PlaylistTemplate, map[string]string{
		"playlist_title": playlist.Title,
		"playlist":       playlist.Title,
		"playlist_id":    playlist.ID,
	}, req.RestrictFilenames))

	videos := make([]*youtube.Video, 0, len(playlist.Videos))
	for _, entry := range playlist.Videos {
		video, err := b.client.VideoFromPlaylistEntryContext(ctx, entry)
		if err != nil {
			res.ExitCode = 1
			res.addLine(fmt.Sprintf("ERROR: [%s] %s: %v", entry.ID, entry.Title, err))
			zaplog.WarnC(ctx, "skipping playlist entry", zap.String("id", entry.ID), zap.Error(err))
			continue
		}
		videos = append(videos, video)
	}
	return videos, dir, len(playlist.Videos), nil
}

// downloadVideo writes one video as a final MP4 and returns its path, which
// is returned on failure too. existed is true when the MP4 was already there.
func (b *NativeBackend) downloadVideo(ctx context.Context, video *youtube.Video, dir string, req Request, progress *Progress) (path string, existed bool, err error) {
	name := RenderTemplate(req.FilenameTemplate, map[string]string{
		"title": video.Title,
		"id":    video.ID,
		"ext":   strings.TrimPrefix(videoExtension, "."),
	}, req.RestrictFilenames)
	final := filepath.Join(dir, name)
	if filepath.Ext(final) != videoExtension {
		final += videoExtension
	}
	if _, err := os.Stat(final); err == nil {
		zaplog.InfoC(ctx, "already downloaded", zap.String("path", final))
		return final, true, nil
	}

	videoFormat, audioFormat, err := SelectFormats(video.Formats, req.Quality.MaxHeight(), req.CanMerge)
	if err != nil {
		return final, false, err
	}

	if audioFormat == nil {
		if err := b.fetch(ctx, video, videoFormat, final, progress); err != nil {
			return final, false, err
		}
		return final, false, nil
	}

	base := strings.TrimSuffix(final, videoExtension)
	videoPath := base + ".f" + strconv.Itoa(videoFormat.ItagNo) + videoExtension
	audioPath := base + ".f" + strconv.Itoa(audioFormat.ItagNo) + audioExtension
	if err := b.fetch(ctx, video, videoFormat, videoPath, progress); err != nil {
		return final, false, err
	}
	if err := b.fetch(ctx, video, audioFormat, audioPath, progress); err != nil {
		return final, false, err
	}

	var onProgress func(float64)
	if progress != nil {
		onProgress = func(p float64) {
			progress.Update(final, "merging "+video.Title, int64(p*mergeBarTotal), mergeBarTotal)
		}
		defer progress.Complete(final)
	}
	if err := b.merger.Merge(ctx, videoPath, audioPath, final, onProgress); err != nil {
		return final, false, err
	}
	return final, false, nil
}

// fetch streams one format into path through a .part file
func (b *NativeBackend) fetch(ctx context.Context, video *youtube.Video, format *youtube.Format, path string, progress *Progress) error {
	stream, size, err := b.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return fmt.Errorf("starting stream: %w", err)
	}
	defer stream.Close()

	partial := path + partialSuffix
	file, err := os.Create(partial)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}

	var reader io.Reader = stream
	if progress != nil {
		proxy := progress.Reader(path, video.Title, size, stream)
		defer proxy.Close()
		reader = proxy
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		return fmt.Errorf("download failed: %w", err)
	}
	if err := file.Close(); err != nil {
		return err
	}
	if progress != nil {
		progress.Complete(path)
	}
	return os.Rename(partial, path)
}

// SelectFormats picks the streams for a video. With merging it prefers the
// best MP4 video-only stream plus the best MP4 audio stream; otherwise, or
// when either is missing, the best progressive MP4. maxHeight 0 means no cap.
func SelectFormats(formats youtube.FormatList, maxHeight int, canMerge bool) (*youtube.Format, *youtube.Format, error) {
	var videoOnly, audioOnly, progressive []*youtube.Format
	for i := range formats {
		f := &formats[i]
		switch {
		case strings.HasPrefix(f.MimeType, mimeAudioMP4):
			audioOnly = append(audioOnly, f)
		case strings.HasPrefix(f.MimeType, mimeVideoMP4) && f.AudioChannels > 0:
			progressive = append(progressive, f)
		case strings.HasPrefix(f.MimeType, mimeVideoMP4):
			videoOnly = append(videoOnly, f)
		}
	}

	if canMerge {
		v := bestVideo(videoOnly, maxHeight)
		a := bestAudio(audioOnly)
		if v != nil && a != nil {
			return v, a, nil
		}
	}
	if v := bestVideo(progressive, maxHeight); v != nil {
		return v, nil, nil
	}
	return nil, nil, errNoFormat
}

// bestVideo returns the tallest stream within maxHeight, falling back to the
// shortest one when every stream exceeds the cap
func bestVideo(formats []*youtube.Format, maxHeight int) *youtube.Format {
	if len(formats) == 0 {
		return nil
	}
	sorted := append([]*youtube.Format(nil), formats...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Height != sorted[j].Height {
			return sorted[i].Height > sorted[j].Height
		}
		return sorted[i].Bitrate > sorted[j].Bitrate
	})
	for _, f := range sorted {
		if maxHeight <= 0 || f.Height <= maxHeight {
			return f
		}
	}
	return sorted[len(sorted)-1]
}

func bestAudio(formats []*youtube.Format) *youtube.Format {
	var best *youtube.Format
	for _, f := range formats {
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best
}
