package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	zaplog "github.com/gcottom/go-zaplog"
	"github.com/gcottom/retry"
	"go.uber.org/zap"

	"github.com/ytget/yt-playlist-downloader/internal/model"
)

// DefaultAttempts is how many times a removal is tried
const DefaultAttempts = 3

// Sweeper removes intermediate artifacts left next to downloaded items
type Sweeper struct {
	attempts int
	remove   func(string) error
}

// NewSweeper creates a sweeper that tries each removal up to attempts times
func NewSweeper(attempts int) *Sweeper {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	return &Sweeper{attempts: attempts, remove: os.Remove}
}

// Sweep cleans up after the files a run reported. Only the directories
// holding those files are read, without descending, and only files that
// share a stem with a reported file are touched. Final videos are reported
// as kept. Failures are logged and recorded, never returned.
func (s *Sweeper) Sweep(ctx context.Context, files ...string) model.CleanupReport {
	report := model.CleanupReport{Failed: map[string]string{}}

	for _, dir := range groupStems(files) {
		entries, err := os.ReadDir(dir.path)
		if err != nil {
			if !os.IsNotExist(err) {
				zaplog.WarnC(ctx, "cannot read directory during cleanup", zap.String("dir", dir.path), zap.Error(err))
			}
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !dir.owns(entry.Name()) {
				continue
			}
			path := filepath.Join(dir.path, entry.Name())
			artifact := NewArtifact(path)
			switch {
			case artifact.IsFinal():
				report.Kept = append(report.Kept, path)
			case artifact.Kind == model.ArtifactIntermediate:
				if err := s.removeWithRetry(path); err != nil {
					zaplog.ErrorC(ctx, "failed to remove intermediate file", zap.String("path", path), zap.Error(err))
					report.Failed[path] = err.Error()
					continue
				}
				zaplog.InfoC(ctx, "removed intermediate file", zap.String("path", path))
				report.Removed = append(report.Removed, path)
			}
		}
	}

	sort.Strings(report.Kept)
	sort.Strings(report.Removed)
	return report
}

type stemDir struct {
	path  string
	stems []string
}

func (d stemDir) owns(name string) bool {
	for _, stem := range d.stems {
		if BelongsTo(name, stem) {
			return true
		}
	}
	return false
}

// groupStems collects the item stems of files per parent directory
func groupStems(files []string) []stemDir {
	var dirs []stemDir
	index := make(map[string]int)
	seen := make(map[string]bool)

	for _, file := range files {
		if file == "" {
			continue
		}
		dir := filepath.Clean(filepath.Dir(file))
		stem := ItemStem(file)
		if stem == "" || seen[dir+"\x00"+stem] {
			continue
		}
		seen[dir+"\x00"+stem] = true

		i, ok := index[dir]
		if !ok {
			i = len(dirs)
			index[dir] = i
			dirs = append(dirs, stemDir{path: dir})
		}
		dirs[i].stems = append(dirs[i].stems, stem)
	}
	return dirs
}

func (s *Sweeper) removeWithRetry(path string) error {
	_, err := retry.Retry(retry.NewAlgSimpleDefault(), s.attempts, s.removeOnce, path)
	return err
}

// removeOnce treats a file that is already gone as removed
func (s *Sweeper) removeOnce(path string) error {
	if err := s.remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
