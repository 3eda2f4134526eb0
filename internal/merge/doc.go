// Package merge joins separately downloaded video and audio streams into a
// single MP4 with ffmpeg.
package merge
