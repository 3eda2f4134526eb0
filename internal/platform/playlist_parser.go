package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"
	"github.com/ytget/ytdlp/v2/client"

	"github.com/ytget/yt-playlist-downloader/internal/model"
)

// Timeout constants
const (
	DefaultPlaylistParseTimeout = 60 * time.Second
	DefaultClientRetries        = 3
	ClientUserAgent             = "yt-playlist-downloader"
)

// URL parameters
const (
	PlaylistURLParam       = "list="
	PlaylistParamSeparator = "&"
)

// Default values
const (
	DefaultPlaylistTitle = "Untitled Playlist"
	PlaylistSuffix       = " Playlist"
	MinPrefixLength      = 10
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// PlaylistParserService lists playlist entries without downloading them
type PlaylistParserService struct {
	timeout time.Duration
}

// NewPlaylistParserService creates a new playlist parser service
func NewPlaylistParserService() *PlaylistParserService {
	return &PlaylistParserService{
		timeout: DefaultPlaylistParseTimeout,
	}
}

// SetTimeout sets the timeout for playlist parsing
func (p *PlaylistParserService) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// ParsePlaylist fetches the entries of a YouTube playlist
func (p *PlaylistParserService) ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	if !p.isValidPlaylistURL(url) {
		return nil, fmt.Errorf("invalid playlist URL: %s", url)
	}

	playlist := model.NewPlaylist(url)

	playlistID, err := p.extractPlaylistID(url)
	if err != nil {
		playlist.SetError(err)
		return playlist, err
	}
	playlist.ID = playlistID

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	c := client.NewWith(client.Config{Timeout: p.timeout, Retries: DefaultClientRetries, UserAgent: ClientUserAgent})
	d := ytdlp.New().WithHTTPClient(c.HTTPClient)
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		err = fmt.Errorf("failed to get playlist items: %w", err)
		playlist.SetError(err)
		return playlist, err
	}

	for i, it := range items {
		index := it.Index
		if index <= 0 {
			index = i + 1
		}
		playlist.AddVideo(&model.PlaylistVideo{
			ID:    it.VideoID,
			Index: index,
			Title: it.Title,
			URL:   fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
		})
	}

	playlist.Title = p.extractPlaylistTitle(playlist.Videos)
	playlist.UpdateStatus(model.PlaylistStatusReady)

	return playlist, nil
}

// isValidPlaylistURL checks if the URL carries a playlist parameter
func (p *PlaylistParserService) isValidPlaylistURL(url string) bool {
	return strings.Contains(url, PlaylistURLParam)
}

// extractPlaylistID extracts the playlist ID from a YouTube playlist URL.
// Supported forms:
// - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&index=1
// - https://www.youtube.com/playlist?list=PLAYLIST_ID
func (p *PlaylistParserService) extractPlaylistID(url string) (string, error) {
	if !strings.Contains(url, PlaylistURLParam) {
		return "", fmt.Errorf("URL does not contain playlist parameter")
	}

	parts := strings.Split(url, PlaylistURLParam)
	playlistID := parts[1]

	if strings.Contains(playlistID, PlaylistParamSeparator) {
		playlistID = strings.Split(playlistID, PlaylistParamSeparator)[0]
	}

	if playlistID == "" {
		return "", fmt.Errorf("could not extract playlist ID: empty playlist ID")
	}

	return playlistID, nil
}

// extractPlaylistTitle guesses a title from the entries: the common prefix of
// the first two titles when it is long enough, else the first title
func (p *PlaylistParserService) extractPlaylistTitle(videos []*model.PlaylistVideo) string {
	if len(videos) == 0 {
		return DefaultPlaylistTitle
	}
	if len(videos) > 1 {
		commonPrefix := findCommonPrefix(videos[0].Title, videos[1].Title)
		if len(commonPrefix) > MinPrefixLength {
			return strings.TrimSpace(commonPrefix) + PlaylistSuffix
		}
	}
	return videos[0].Title + PlaylistSuffix
}

// findCommonPrefix finds the common prefix between two strings
func findCommonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:minLen]
}
