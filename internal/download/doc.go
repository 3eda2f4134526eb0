// Package download implements the download pipeline: dependency checks,
// a single backend invocation (yt-dlp via github.com/lrstanley/go-ytdlp, or
// the pure-Go native backend), progress rendering and the post-run cleanup.
package download
