package cleanup

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ytget/yt-playlist-downloader/internal/model"
)

// FinalExtension is the only container kept after cleanup
const FinalExtension = ".mp4"

// Suffixes of files yt-dlp writes while a download or merge is in flight
var PartialSuffixes = []string{".part", ".ytdl", ".temp.mp4"}

// formatStreamPattern matches split streams such as "Title.f137.mp4"
var formatStreamPattern = regexp.MustCompile(`(?i)\.f\d+(-\d+)?\.[a-z0-9]+$`)

// streamTagPattern matches the tag left on a stem once its extension is gone
var streamTagPattern = regexp.MustCompile(`(?i)\.(f\d+(-\d+)?|temp)$`)

// Classify returns the artifact kind of a file name
func Classify(path string) model.ArtifactKind {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return model.ArtifactIgnored
	}

	lower := strings.ToLower(name)
	for _, suffix := range PartialSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return model.ArtifactIntermediate
		}
	}
	if formatStreamPattern.MatchString(lower) {
		return model.ArtifactIntermediate
	}
	if filepath.Ext(lower) == FinalExtension {
		return model.ArtifactFinal
	}
	return model.ArtifactIntermediate
}

// IsFinalVideo reports whether path names a finished MP4
func IsFinalVideo(path string) bool {
	return Classify(path) == model.ArtifactFinal
}

// NewArtifact classifies path into an artifact
func NewArtifact(path string) model.Artifact {
	return model.Artifact{Path: path, Kind: Classify(path)}
}

// ItemStem returns the name shared by every file of one downloaded item,
// e.g. "Title" for "Title.f137.mp4.part", "Title.temp.mp4" and "Title.mp4".
func ItemStem(path string) string {
	name := filepath.Base(path)
	for _, suffix := range []string{".part", ".ytdl"} {
		if strings.HasSuffix(strings.ToLower(name), suffix) {
			name = name[:len(name)-len(suffix)]
		}
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return streamTagPattern.ReplaceAllString(name, "")
}

// BelongsTo reports whether the file at path is a product of the item named stem
func BelongsTo(path, stem string) bool {
	if stem == "" {
		return false
	}
	name := filepath.Base(path)
	return name == stem || strings.HasPrefix(name, stem+".")
}
