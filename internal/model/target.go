package model

import "strings"

// TargetKind tells whether a reference points at one video or a playlist
type TargetKind string

const (
	TargetSingle   TargetKind = "single video"
	TargetPlaylist TargetKind = "playlist"
)

// URL markers used for kind detection
const (
	VideoParam    = "watch?v="
	PlaylistParam = "list="
)

// SingleVideoMarkers identify links that name exactly one video
var SingleVideoMarkers = []string{VideoParam, "youtu.be/", "/shorts/", "/live/", "/embed/"}

// Target is the user supplied playlist or video reference.
// The reference is handed to the backend untouched; Kind only selects
// the output layout.
type Target struct {
	Reference string
	Kind      TargetKind
}

// NewTarget creates a target and detects its kind
func NewTarget(reference string) Target {
	reference = strings.TrimSpace(reference)
	return Target{
		Reference: reference,
		Kind:      DetectKind(reference),
	}
}

// DetectKind reports single video for watch, short, shorts, live and embed
// links without a list parameter, playlist for everything else
func DetectKind(reference string) TargetKind {
	if strings.Contains(reference, PlaylistParam) {
		return TargetPlaylist
	}
	for _, marker := range SingleVideoMarkers {
		if strings.Contains(reference, marker) {
			return TargetSingle
		}
	}
	return TargetPlaylist
}

// IsPlaylist returns true for playlist targets
func (t Target) IsPlaylist() bool {
	return t.Kind == TargetPlaylist
}

// String returns the raw reference
func (t Target) String() string {
	return t.Reference
}
