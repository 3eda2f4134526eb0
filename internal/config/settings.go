package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/ytget/yt-playlist-downloader/internal/platform"
)

// Quality presets for downloads
type QualityPreset string

const (
	QualityBest   QualityPreset = "best"
	QualityMedium QualityPreset = "medium"
)

// Backend names
const (
	BackendYtDlp  = "yt-dlp"
	BackendNative = "native"
)

// Default values
const (
	DefaultQualityPreset       = QualityBest
	DefaultBackend             = BackendYtDlp
	DefaultFilenameTemplate    = "%(title)s.%(ext)s"
	DefaultPlaylistDirTemplate = "%(playlist_title)s"
	DefaultCleanupAttempts     = 3
	DefaultHTTPTimeout         = 30 * time.Second
	DefaultFallbackOutputDir   = "/tmp/videos"

	ConfigDirName  = "yt-playlist-downloader"
	ConfigFileName = "config.yaml"
)

// Limits for clamped values
const (
	MinCleanupAttempts = 1
	MaxCleanupAttempts = 5
)

// Format selectors handed to yt-dlp. Merged selectors need ffmpeg.
const (
	formatBestMerged   = "bv*[ext=mp4]+ba[ext=m4a]/bv*+ba/b[ext=mp4]/b"
	formatBestSingle   = "b[ext=mp4]/b"
	formatMediumMerged = "bv*[height<=720][ext=mp4]+ba[ext=m4a]/bv*[height<=720]+ba/b[height<=720][ext=mp4]/b[height<=720]"
	formatMediumSingle = "b[height<=720][ext=mp4]/b[height<=720]"

	// MergeOutputFormat is the container every merged download ends up in
	MergeOutputFormat = "mp4"
)

var (
	ErrUnknownBackend = errors.New("unknown backend")
	ErrUnknownQuality = errors.New("unknown quality preset")
)

// Settings holds the application configuration. Zero values fall back to
// defaults through the getters.
type Settings struct {
	OutputDir           string        `yaml:"output_dir"`
	Quality             QualityPreset `yaml:"quality"`
	Backend             string        `yaml:"backend"`
	YtDlpPath           string        `yaml:"ytdlp_path"`
	FFmpegPath          string        `yaml:"ffmpeg_path"`
	FilenameTemplate    string        `yaml:"filename_template"`
	PlaylistDirTemplate string        `yaml:"playlist_dir_template"`
	RestrictFilenames   bool          `yaml:"restrict_filenames"`
	KeepIntermediates   bool          `yaml:"keep_intermediates"`
	OpenOnComplete      bool          `yaml:"open_on_complete"`
	CleanupAttempts     int           `yaml:"cleanup_attempts"`
	HTTPTimeoutSeconds  int           `yaml:"http_timeout_seconds"`
}

// NewSettings returns settings with every value at its default
func NewSettings() *Settings {
	return &Settings{}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/yt-playlist-downloader/config.yaml
// (or the platform equivalent)
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, ConfigDirName, ConfigFileName)
}

// LoadConfigFromFile reads YAML settings. An empty path means the default
// location, which is optional: when it does not exist defaults are used.
// An explicit path must exist.
func LoadConfigFromFile(path string) (*Settings, error) {
	optional := false
	if path == "" {
		path = DefaultConfigPath()
		optional = true
	}
	if path == "" {
		return NewSettings(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return NewSettings(), nil
		}
		return nil, fmt.Errorf("failed to open config %s: %w", path, err)
	}
	defer file.Close()

	settings := NewSettings()
	dec := yaml.NewDecoder(file)
	if err := dec.Decode(settings); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return settings, nil
}

// Validate checks enumerated values
func (s *Settings) Validate() error {
	switch s.GetBackend() {
	case BackendYtDlp, BackendNative:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
	}
	switch s.GetQualityPreset() {
	case QualityBest, QualityMedium:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownQuality, s.Quality)
	}
	return nil
}

// GetOutputDirectory returns the configured output directory, or
// <desktop>/videos when none is set
func (s *Settings) GetOutputDirectory() string {
	if s.OutputDir != "" {
		return s.OutputDir
	}
	dir, err := platform.GetDefaultOutputDir()
	if err != nil {
		return DefaultFallbackOutputDir
	}
	return dir
}

// SetOutputDirectory sets the output directory
func (s *Settings) SetOutputDirectory(dir string) {
	s.OutputDir = dir
}

// GetQualityPreset returns the configured quality preset
func (s *Settings) GetQualityPreset() QualityPreset {
	if s.Quality == "" {
		return DefaultQualityPreset
	}
	return s.Quality
}

// SetQualityPreset sets the quality preset
func (s *Settings) SetQualityPreset(preset QualityPreset) {
	s.Quality = preset
}

// GetBackend returns the configured backend name
func (s *Settings) GetBackend() string {
	if s.Backend == "" {
		return DefaultBackend
	}
	return s.Backend
}

// SetBackend sets the backend name
func (s *Settings) SetBackend(name string) {
	s.Backend = name
}

// GetYtDlpExecutable returns the yt-dlp executable name or path
func (s *Settings) GetYtDlpExecutable() string {
	if s.YtDlpPath == "" {
		return platform.YtDlpCommand
	}
	return s.YtDlpPath
}

// GetFFmpegExecutable returns the ffmpeg executable name or path
func (s *Settings) GetFFmpegExecutable() string {
	if s.FFmpegPath == "" {
		return platform.FFmpegCommand
	}
	return s.FFmpegPath
}

// GetFilenameTemplate returns the filename template
func (s *Settings) GetFilenameTemplate() string {
	if s.FilenameTemplate == "" {
		return DefaultFilenameTemplate
	}
	return s.FilenameTemplate
}

// GetPlaylistDirTemplate returns the template of the per-playlist subfolder
func (s *Settings) GetPlaylistDirTemplate() string {
	if s.PlaylistDirTemplate == "" {
		return DefaultPlaylistDirTemplate
	}
	return s.PlaylistDirTemplate
}

// GetCleanupAttempts returns how many times a removal is tried, clamped
// to [MinCleanupAttempts, MaxCleanupAttempts]. Unset means the default.
func (s *Settings) GetCleanupAttempts() int {
	switch {
	case s.CleanupAttempts == 0:
		return DefaultCleanupAttempts
	case s.CleanupAttempts < MinCleanupAttempts:
		return MinCleanupAttempts
	case s.CleanupAttempts > MaxCleanupAttempts:
		return MaxCleanupAttempts
	}
	return s.CleanupAttempts
}

// GetHTTPTimeout returns the timeout used by the native backend and listing
func (s *Settings) GetHTTPTimeout() time.Duration {
	if s.HTTPTimeoutSeconds <= 0 {
		return DefaultHTTPTimeout
	}
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

// FormatSelector returns the yt-dlp format selector for the preset. Without
// a merger only single-file formats can be requested.
func (p QualityPreset) FormatSelector(canMerge bool) string {
	switch p {
	case QualityMedium:
		if canMerge {
			return formatMediumMerged
		}
		return formatMediumSingle
	default:
		if canMerge {
			return formatBestMerged
		}
		return formatBestSingle
	}
}

// MaxHeight returns the height cap of the preset, 0 for none
func (p QualityPreset) MaxHeight() int {
	if p == QualityMedium {
		return 720
	}
	return 0
}
