package download

import (
	"testing"

	"github.com/ytget/yt-playlist-downloader/internal/model"
)

func TestNewResult(t *testing.T) {
	lines := []string{
		"[youtube:tab] Extracting URL: https://www.youtube.com/playlist?list=PL1",
		"[download] Downloading playlist: Road Trip",
		"[download] Destination: /v/Road Trip/Intro.f137.mp4",
		"[download] Destination: /v/Road Trip/Intro.f140.m4a",
		`[Merger] Merging formats into "/v/Road Trip/Intro.mp4"`,
		"ERROR: [youtube] abc: Private video. Sign in if you've been granted access",
		"ERROR: [youtube] def: Unable to extract uploader id",
		"[download] /v/Road Trip/Outro.mp4 has already been downloaded",
		"",
	}

	res := newResult(1, lines)

	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}
	if res.Skipped != 1 || res.Errors != 1 {
		t.Errorf("Skipped = %d, Errors = %d; want 1, 1", res.Skipped, res.Errors)
	}
	if res.Downloaded != 2 {
		t.Errorf("Downloaded = %d, want 2 (Files = %v)", res.Downloaded, res.Files)
	}
	if len(res.Lines) != len(lines)-1 {
		t.Errorf("Lines = %d, want %d", len(res.Lines), len(lines)-1)
	}
}

func TestResultAddLine(t *testing.T) {
	res := &Result{}
	if got := res.addLine("ERROR: [abc] Song: video unavailable"); got != model.ItemStatusSkipped {
		t.Errorf("addLine() = %s, want skipped", got)
	}
	res.addFile("/v/a.mp4")
	res.addFile("/v/a.mp4")
	res.addFile("/v/a.f1.mp4")
	if res.Downloaded != 1 || res.Skipped != 1 {
		t.Errorf("Downloaded = %d, Skipped = %d", res.Downloaded, res.Skipped)
	}
}

func TestSplitLines(t *testing.T) {
	got := splitLines("a\r\nb\rc\n", "", "  d  ")
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("splitLines() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
