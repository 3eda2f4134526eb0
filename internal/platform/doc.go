// Package platform contains OS and external tooling glue: output directory
// resolution, dependency probes for yt-dlp and ffmpeg, classification of
// yt-dlp console output, playlist listing, and opening the output folder.
package platform
