package download

import (
	"github.com/ytget/yt-playlist-downloader/internal/cleanup"
	"github.com/ytget/yt-playlist-downloader/internal/config"
	"github.com/ytget/yt-playlist-downloader/internal/model"
	"github.com/ytget/yt-playlist-downloader/internal/platform"
)

// Request is everything a backend needs for one invocation
type Request struct {
	Target            model.Target
	OutputDir         string
	OutputTemplate    string // full yt-dlp output template including OutputDir
	FilenameTemplate  string
	PlaylistTemplate  string
	Format            string
	Quality           config.QualityPreset
	CanMerge          bool
	RestrictFilenames bool
}

// Result is what a backend reported
type Result struct {
	ExitCode   int
	Lines      []string
	Files      []string // files named by the backend, in order
	Downloaded int      // distinct final videos among Files
	Skipped    int
	Errors     int
}

// newResult tallies backend output lines
func newResult(exitCode int, lines []string) *Result {
	tally := &platform.OutputTally{}
	res := &Result{ExitCode: exitCode}
	for _, line := range lines {
		if line == "" {
			continue
		}
		res.Lines = append(res.Lines, line)
		tally.Add(line)
	}
	res.Files = tally.Files
	res.Skipped = tally.Skipped
	res.Errors = tally.Errors
	res.countDownloaded()
	return res
}

// addLine records one line the way newResult does
func (r *Result) addLine(line string) model.ItemStatus {
	r.Lines = append(r.Lines, line)
	status := platform.ClassifyLine(line)
	switch status {
	case model.ItemStatusSkipped:
		r.Skipped++
	case model.ItemStatusError:
		r.Errors++
	}
	return status
}

func (r *Result) addFile(path string) {
	r.Files = append(r.Files, path)
	r.countDownloaded()
}

func (r *Result) countDownloaded() {
	seen := make(map[string]bool)
	for _, f := range r.Files {
		if cleanup.IsFinalVideo(f) {
			seen[f] = true
		}
	}
	r.Downloaded = len(seen)
}
