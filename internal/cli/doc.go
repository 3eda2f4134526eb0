// Package cli wires settings, backends and the download service into the
// yt-playlist-downloader command tree.
package cli
