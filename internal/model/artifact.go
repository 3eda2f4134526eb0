package model

// ArtifactKind classifies a file found in the output directory
type ArtifactKind string

const (
	// ArtifactFinal is a finished MP4 that is kept
	ArtifactFinal ArtifactKind = "final"

	// ArtifactIntermediate is anything produced on the way: split streams,
	// partial downloads, sidecars. It is removed by cleanup.
	ArtifactIntermediate ArtifactKind = "intermediate"

	// ArtifactIgnored is a file cleanup never touches (hidden files)
	ArtifactIgnored ArtifactKind = "ignored"
)

// Artifact is a file written by a backend into the output directory
type Artifact struct {
	Path string
	Kind ArtifactKind
}

// IsFinal returns true for kept video files
func (a Artifact) IsFinal() bool {
	return a.Kind == ArtifactFinal
}
