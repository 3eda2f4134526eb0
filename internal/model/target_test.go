package model

import "testing"

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		expected  TargetKind
	}{
		{"watch URL", "https://www.youtube.com/watch?v=ELgJ7SUqhP0", TargetSingle},
		{"watch URL with list", "https://www.youtube.com/watch?v=ELgJ7SUqhP0&list=PL123", TargetPlaylist},
		{"playlist URL", "https://www.youtube.com/playlist?list=PL123", TargetPlaylist},
		{"short link", "https://youtu.be/ELgJ7SUqhP0", TargetSingle},
		{"short link with timestamp", "https://youtu.be/ELgJ7SUqhP0?t=42", TargetSingle},
		{"short link with list", "https://youtu.be/ELgJ7SUqhP0?list=PL123", TargetPlaylist},
		{"shorts", "https://www.youtube.com/shorts/ELgJ7SUqhP0", TargetSingle},
		{"live", "https://www.youtube.com/live/ELgJ7SUqhP0", TargetSingle},
		{"embed", "https://www.youtube.com/embed/ELgJ7SUqhP0", TargetSingle},
		{"channel uploads", "https://www.youtube.com/@someone/videos", TargetPlaylist},
		{"empty", "", TargetPlaylist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectKind(tt.reference); got != tt.expected {
				t.Errorf("DetectKind(%q) = %q, expected %q", tt.reference, got, tt.expected)
			}
		})
	}
}

func TestNewTarget_TrimsReference(t *testing.T) {
	target := NewTarget("  https://www.youtube.com/watch?v=abc  ")

	if target.Reference != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("unexpected reference %q", target.Reference)
	}
	if target.IsPlaylist() {
		t.Error("watch URL should not be a playlist")
	}
	if target.String() != target.Reference {
		t.Errorf("String() = %q, expected %q", target.String(), target.Reference)
	}
}
