// Package cleanup decides which files in the output directory are finished
// videos and removes everything else a download left behind.
package cleanup
