package merge

import "context"

// Merger defines the interface for the merging capability.
type Merger interface {
	Merge(ctx context.Context, videoPath, audioPath, outputPath string, onProgress func(float64)) error
}
