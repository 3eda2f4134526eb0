package platform

import (
	"strings"

	"github.com/ytget/yt-playlist-downloader/internal/model"
)

// Phrases yt-dlp prints for items it could not fetch
var SkipPhrases = []string{"video unavailable", "private video", "blocked", "terminated", "copyright"}

// Phrases of regular progress output
var ProgressKeywords = []string{"downloading", "finished", "extracting", "%", "playlist"}

// ErrorMarker starts yt-dlp error lines (lowercased)
const ErrorMarker = "error:"

// Prefixes of lines that name written files
const (
	DestinationPrefix     = "[download] Destination: "
	MergerPrefix          = "[Merger] Merging formats into "
	DownloadPrefix        = "[download] "
	AlreadyDownloadedTail = " has already been downloaded"
)

// OutputTally accumulates what a backend reported
type OutputTally struct {
	Skipped int
	Errors  int
	Files   []string // every file path named in the output, in order
}

// ClassifyLine tells skipped items, errors and progress apart.
// Skip phrases win over the error marker since yt-dlp prefixes
// unavailable videos with ERROR.
func ClassifyLine(line string) model.ItemStatus {
	lower := strings.ToLower(strings.TrimSpace(line))
	if lower == "" {
		return model.ItemStatusOther
	}
	for _, phrase := range SkipPhrases {
		if strings.Contains(lower, phrase) {
			return model.ItemStatusSkipped
		}
	}
	if strings.Contains(lower, ErrorMarker) {
		return model.ItemStatusError
	}
	for _, keyword := range ProgressKeywords {
		if strings.Contains(lower, keyword) {
			return model.ItemStatusProgress
		}
	}
	return model.ItemStatusOther
}

// ExtractFilePath returns the file named by a destination, merger or
// already-downloaded line, or "" for any other line
func ExtractFilePath(line string) string {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, DestinationPrefix):
		return strings.TrimSpace(strings.TrimPrefix(line, DestinationPrefix))
	case strings.HasPrefix(line, MergerPrefix):
		return strings.Trim(strings.TrimPrefix(line, MergerPrefix), `"`)
	case strings.HasPrefix(line, DownloadPrefix) && strings.HasSuffix(line, AlreadyDownloadedTail):
		return strings.TrimSuffix(strings.TrimPrefix(line, DownloadPrefix), AlreadyDownloadedTail)
	}
	return ""
}

// Add classifies one line and records any file it names
func (t *OutputTally) Add(line string) model.ItemStatus {
	status := ClassifyLine(line)
	switch status {
	case model.ItemStatusSkipped:
		t.Skipped++
	case model.ItemStatusError:
		t.Errors++
	}
	if path := ExtractFilePath(line); path != "" {
		t.Files = append(t.Files, path)
	}
	return status
}
