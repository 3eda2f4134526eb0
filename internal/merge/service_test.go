package merge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ytget/yt-playlist-downloader/internal/platform"
)

func TestNewService(t *testing.T) {
	if got := NewService("").executable; got != platform.FFmpegCommand {
		t.Errorf("executable = %q, want %q", got, platform.FFmpegCommand)
	}
	if got := NewService("/opt/ffmpeg").executable; got != "/opt/ffmpeg" {
		t.Errorf("executable = %q, want /opt/ffmpeg", got)
	}
}

func TestBuildFFmpegArgs(t *testing.T) {
	service := NewService("")
	args := service.BuildFFmpegArgs("/v.f137.mp4", "/v.f140.m4a", "/v.mp4")

	expectedArgs := []string{
		"-y",
		"-i", "/v.f137.mp4",
		"-i", "/v.f140.m4a",
		"-c", CopyCodec,
		"-shortest",
		"-movflags", FastStartFlag,
		"-progress", "pipe:2",
		"-nostats",
		"/v.mp4",
	}

	if len(args) != len(expectedArgs) {
		t.Fatalf("Expected %d args, got %d", len(expectedArgs), len(args))
	}

	for i, expected := range expectedArgs {
		if args[i] != expected {
			t.Errorf("Arg %d: expected %s, got %s", i, expected, args[i])
		}
	}
}

func TestFFprobePath(t *testing.T) {
	tests := []struct {
		ffmpeg   string
		expected string
	}{
		{"", FFprobeCommand},
		{"ffmpeg", FFprobeCommand},
		{"/opt/ffmpeg-7/bin/ffmpeg", "/opt/ffmpeg-7/bin/ffprobe"},
		{"/usr/local/bin/ffmpeg.exe", "/usr/local/bin/ffprobe.exe"},
		{"/tools/avmux", "/tools/ffprobe"},
	}

	for _, test := range tests {
		result := NewService(filepath.FromSlash(test.ffmpeg)).ffprobePath()
		if result != filepath.FromSlash(test.expected) {
			t.Errorf("ffprobePath() for %q = %s, expected %s", test.ffmpeg, result, test.expected)
		}
	}
}

func TestParseProgressLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		duration float64
		want     float64
		ok       bool
	}{
		{"half", "out_time_us=5000000", 10, 0.5, true},
		{"clamped", "out_time_us=20000000", 10, 1.0, true},
		{"negative", "out_time_us=-1", 10, 0, true},
		{"unknown duration", "out_time_us=5000000", 0, 0, false},
		{"other key", "frame=120", 10, 0, false},
		{"garbage", "out_time_us=N/A", 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseProgressLine(tt.line, tt.duration)
			if ok != tt.ok || got != tt.want {
				t.Errorf("parseProgressLine(%q) = %v, %v; want %v, %v", tt.line, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMonitorProgress(t *testing.T) {
	var got []float64
	input := "frame=1\nout_time_us=2500000\nprogress=continue\nout_time_us=10000000\nprogress=end\n"
	monitorProgress(strings.NewReader(input), 10, func(p float64) { got = append(got, p) })

	if len(got) != 2 || got[0] != 0.25 || got[1] != 1.0 {
		t.Errorf("progress updates = %v, want [0.25 1]", got)
	}
}

func TestMerge_NonExistentInput(t *testing.T) {
	service := NewService("")
	err := service.Merge(context.Background(), "/path/to/none.f137.mp4", "/path/to/none.f140.m4a", "/path/to/none.mp4", nil)
	if err == nil {
		t.Fatal("Expected error for non-existent input, got nil")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected 'does not exist' error, got: %v", err)
	}
}

func TestMerge_FailureRemovesPartialOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake not supported on windows")
	}
	dir := t.TempDir()
	fake := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\nfor last; do :; done\necho partial > \"$last\"\nexit 1\n"
	if err := os.WriteFile(fake, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	video := filepath.Join(dir, "a.f137.mp4")
	audio := filepath.Join(dir, "a.f140.m4a")
	for _, p := range []string{video, audio} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	out := filepath.Join(dir, "a.mp4")

	err := NewService(fake).Merge(context.Background(), video, audio, out, nil)
	if err == nil {
		t.Fatal("expected merge error")
	}
	if _, statErr := os.Stat(out); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("partial output still present: %v", statErr)
	}
}

func TestMerge_ReportsProgressWithSiblingFFprobe(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake not supported on windows")
	}
	dir := t.TempDir()
	tools := filepath.Join(dir, "tools")
	if err := os.Mkdir(tools, 0o755); err != nil {
		t.Fatal(err)
	}
	fakes := map[string]string{
		"ffprobe": "#!/bin/sh\necho 10.0\n",
		"ffmpeg":  "#!/bin/sh\nfor last; do :; done\nprintf 'out_time_us=5000000\\nprogress=continue\\nout_time_us=10000000\\nprogress=end\\n' >&2\necho merged > \"$last\"\n",
	}
	for name, script := range fakes {
		if err := os.WriteFile(filepath.Join(tools, name), []byte(script), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	video := filepath.Join(dir, "a.f137.mp4")
	audio := filepath.Join(dir, "a.f140.m4a")
	for _, p := range []string{video, audio} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	out := filepath.Join(dir, "a.mp4")

	var got []float64
	err := NewService(filepath.Join(tools, "ffmpeg")).Merge(context.Background(), video, audio, out, func(p float64) {
		got = append(got, p)
	})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if len(got) != 2 || got[0] != 0.5 || got[1] != 1.0 {
		t.Errorf("progress updates = %v, want [0.5 1]", got)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("merged output missing: %v", err)
	}
}
