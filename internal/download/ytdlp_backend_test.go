package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ytget/yt-playlist-downloader/internal/config"
	"github.com/ytget/yt-playlist-downloader/internal/model"
)

func TestYtDlpBackend(t *testing.T) {
	b := NewYtDlpBackend("")
	if b.Name() != config.BackendYtDlp {
		t.Errorf("Name() = %q", b.Name())
	}
	reqs := b.Requirements()
	if len(reqs) != 1 || reqs[0] != RequireDownloader {
		t.Errorf("Requirements() = %v", reqs)
	}
}

func TestYtDlpBackend_StartFailure(t *testing.T) {
	b := NewYtDlpBackend(filepath.Join(t.TempDir(), "missing-yt-dlp"))
	req := Request{
		Target:         model.NewTarget(testVideoURL),
		OutputTemplate: filepath.Join(t.TempDir(), config.DefaultFilenameTemplate),
		Format:         config.QualityBest.FormatSelector(false),
	}

	res, err := b.Download(context.Background(), req)
	if !errors.Is(err, ErrBackendStart) {
		t.Fatalf("Download() error = %v, want ErrBackendStart", err)
	}
	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
}

func TestYtDlpBackend_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake not supported on windows")
	}
	dir := t.TempDir()
	fake := filepath.Join(dir, "yt-dlp")
	script := `#!/bin/sh
echo "[download] Destination: ` + dir + `/Clip.mp4"
echo "ERROR: [youtube] xyz: Private video" >&2
exit 1
`
	if err := os.WriteFile(fake, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	b := NewYtDlpBackend(fake)
	req := Request{
		Target:         model.NewTarget(testPlaylistURL),
		OutputTemplate: OutputTemplate(dir, model.NewTarget(testPlaylistURL), config.DefaultFilenameTemplate, config.DefaultPlaylistDirTemplate),
		Format:         config.QualityBest.FormatSelector(true),
		CanMerge:       true,
	}

	res, err := b.Download(context.Background(), req)
	if err == nil {
		t.Fatal("expected an error for exit code 1")
	}
	if errors.Is(err, ErrBackendStart) {
		t.Fatalf("non-zero exit reported as start failure: %v", err)
	}
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.ExitCode != 1 || res.Skipped != 1 || res.Downloaded != 1 {
		t.Errorf("result = %+v", res)
	}
}
