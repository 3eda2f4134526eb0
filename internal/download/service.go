package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	zaplog "github.com/gcottom/go-zaplog"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytget/yt-playlist-downloader/internal/cleanup"
	"github.com/ytget/yt-playlist-downloader/internal/config"
	"github.com/ytget/yt-playlist-downloader/internal/model"
	"github.com/ytget/yt-playlist-downloader/internal/platform"
)

// RunIDPrefix prefixes run identifiers in logs
const RunIDPrefix = "run-"

// Service runs one download end to end
type Service struct {
	settings *config.Settings
	backend  Backend
	prober   ToolProber
	cleaner  Cleaner
	out      io.Writer // user-facing status lines
	verbose  bool
}

// NewService creates a download service. Cleanup follows the settings
// unless replaced with SetCleaner.
func NewService(settings *config.Settings, backend Backend, prober ToolProber) *Service {
	s := &Service{
		settings: settings,
		backend:  backend,
		prober:   prober,
		out:      os.Stdout,
	}
	if !settings.KeepIntermediates {
		s.cleaner = cleanup.NewSweeper(settings.GetCleanupAttempts())
	}
	return s
}

// SetOutput sets where status lines are printed
func (s *Service) SetOutput(w io.Writer) {
	s.out = w
}

// SetCleaner replaces the cleanup step; nil disables it
func (s *Service) SetCleaner(c Cleaner) {
	s.cleaner = c
}

// SetVerbose echoes progress lines too, not only skipped items and errors
func (s *Service) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// Run downloads target into the output directory and removes intermediate
// files afterwards. It returns an error only when a required dependency is
// missing, the output directory cannot be created or the backend cannot
// start. Per-item failures end up in the returned run. An interrupted run
// is still cleaned up and returns the context error.
func (s *Service) Run(ctx context.Context, target model.Target) (*model.Run, error) {
	run := model.NewRun(generateRunID(), target, s.settings.GetOutputDirectory())
	run.Backend = s.backend.Name()
	runField := zap.String("run_id", run.ID)

	zaplog.InfoC(ctx, "run started", runField, zap.String("target", target.Reference), zap.String("kind", string(target.Kind)), zap.String("backend", run.Backend))

	// Dependencies are checked before anything is written
	for _, req := range s.backend.Requirements() {
		if req != RequireDownloader {
			continue
		}
		info, err := s.prober.CheckDownloader(ctx)
		if err != nil {
			zaplog.ErrorC(ctx, "downloader missing", runField, zap.Error(err))
			run.Fail(err)
			return run, err
		}
		zaplog.InfoC(ctx, "downloader found", runField, zap.String("path", info.Path), zap.String("version", info.Version))
	}

	canMerge := true
	if info, err := s.prober.CheckMerger(ctx); err != nil {
		canMerge = false
		zaplog.WarnC(ctx, "merger unavailable, using single-file formats", runField, zap.Error(err))
		fmt.Fprintf(s.out, "Warning: %v\n", err)
	} else {
		zaplog.InfoC(ctx, "merger found", runField, zap.String("path", info.Path))
	}

	if err := platform.CreateDirectoryIfNotExists(run.OutputDir); err != nil {
		err = fmt.Errorf("failed to create output directory %s: %w", run.OutputDir, err)
		run.Fail(err)
		return run, err
	}

	req := s.buildRequest(run, canMerge)
	run.Status = model.RunStatusDownloading
	fmt.Fprintf(s.out, "Downloading %s into %s\n", run.GetDisplayTarget(), run.OutputDir)

	result, err := s.backend.Download(ctx, req)
	s.recordResult(run, result)

	interrupted := ctx.Err() != nil
	switch {
	case interrupted:
		zaplog.WarnC(ctx, "run interrupted", runField)
	case errors.Is(err, ErrBackendStart):
		zaplog.ErrorC(ctx, "backend did not start", runField, zap.Error(err))
		run.Fail(err)
		return run, err
	case err != nil:
		zaplog.WarnC(ctx, "backend finished with failures", runField, zap.Int("exit_code", run.ExitCode), zap.Error(err))
		run.LastError = err.Error()
	}

	if s.cleaner != nil {
		run.Status = model.RunStatusCleaning
		// cleanup must finish even when the run was cancelled
		cleanupCtx := context.WithoutCancel(ctx)
		run.Cleanup = s.cleaner.Sweep(cleanupCtx, reportedFiles(result)...)
		zaplog.InfoC(cleanupCtx, "cleanup finished", runField,
			zap.Int("kept", len(run.Cleanup.Kept)),
			zap.Int("removed", run.Cleanup.RemovedCount()),
			zap.Int("failed", len(run.Cleanup.Failed)))
	}

	if interrupted {
		run.Finish(model.RunStatusInterrupted)
		return run, ctx.Err()
	}
	run.Finish(model.RunStatusCompleted)
	zaplog.InfoC(ctx, "run completed", runField, zap.Int("downloaded", run.Downloaded), zap.Int("skipped", run.Skipped), zap.Int("errors", run.Errors), zap.String("elapsed", run.GetElapsedString()))
	return run, nil
}

func (s *Service) buildRequest(run *model.Run, canMerge bool) Request {
	quality := s.settings.GetQualityPreset()
	return Request{
		Target:            run.Target,
		OutputDir:         run.OutputDir,
		OutputTemplate:    OutputTemplate(run.OutputDir, run.Target, s.settings.GetFilenameTemplate(), s.settings.GetPlaylistDirTemplate()),
		FilenameTemplate:  s.settings.GetFilenameTemplate(),
		PlaylistTemplate:  s.settings.GetPlaylistDirTemplate(),
		Format:            quality.FormatSelector(canMerge),
		Quality:           quality,
		CanMerge:          canMerge,
		RestrictFilenames: s.settings.RestrictFilenames,
	}
}

func (s *Service) recordResult(run *model.Run, result *Result) {
	if result == nil {
		return
	}
	run.ExitCode = result.ExitCode
	run.Downloaded = result.Downloaded
	run.Skipped = result.Skipped
	run.Errors = result.Errors
	for _, line := range result.Lines {
		status := platform.ClassifyLine(line)
		if status == model.ItemStatusSkipped || status == model.ItemStatusError || (s.verbose && status.IsReported()) {
			fmt.Fprintln(s.out, line)
		}
	}
}

// reportedFiles returns the files the backend named, the only ones cleanup
// may look next to
func reportedFiles(result *Result) []string {
	if result == nil {
		return nil
	}
	return result.Files
}

// generateRunID generates a unique run ID using UUID v7 so IDs sort by time
func generateRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(RunIDPrefix+"%d", time.Now().UnixNano())
	}
	return RunIDPrefix + id.String()
}
