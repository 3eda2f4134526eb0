package download

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/ytget/yt-playlist-downloader/internal/model"
)

// Replacement for characters that cannot appear in file names
const unsafeReplacement = "_"

var templateField = regexp.MustCompile(`%\(([a-z_]+)\)s`)

// OutputTemplate returns the yt-dlp output template for a target:
// <dir>/<playlist dir>/<file> for playlists and <dir>/<file> otherwise
func OutputTemplate(dir string, target model.Target, filenameTemplate, playlistTemplate string) string {
	if target.IsPlaylist() {
		return filepath.Join(dir, playlistTemplate, filenameTemplate)
	}
	return filepath.Join(dir, filenameTemplate)
}

// RenderTemplate substitutes %(field)s placeholders. Values are sanitized
// for use as a single path element; unknown fields render as "NA" the way
// yt-dlp does.
func RenderTemplate(template string, fields map[string]string, restrict bool) string {
	return templateField.ReplaceAllStringFunc(template, func(m string) string {
		key := templateField.FindStringSubmatch(m)[1]
		value, ok := fields[key]
		if !ok || value == "" {
			return "NA"
		}
		return SanitizeFilename(value, restrict)
	})
}

// SanitizeFilename makes name safe as a single path element. With restrict
// only ASCII letters, digits, '-', '_' and '.' are kept.
func SanitizeFilename(name string, restrict bool) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r), r < 0x20:
			b.WriteString(unsafeReplacement)
		case restrict && (r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-_.", r))):
			b.WriteString(unsafeReplacement)
		default:
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), ". ")
	if out == "" {
		return unsafeReplacement
	}
	return out
}
