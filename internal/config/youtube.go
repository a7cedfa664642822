package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type YoutubeConfig struct {
	APIKey  string
	BaseURL string
}

func NewYoutubeConfig() *YoutubeConfig {
	apiKey := os.Getenv("YOUTUBE_API_KEY")
	if apiKey == "" {
		log.Fatal("YOUTUBE_API_KEY not set")
	}
	baseURL := os.Getenv("YOUTUBE_API_URL")
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/youtube/v3"
	}
	return &YoutubeConfig{APIKey: apiKey, BaseURL: baseURL}
}

var (
	videoIDRegex    = regexp.MustCompile(`(?:youtube\.com/(?:[^/\n\s]+/\S+/|(?:v|e(?:mbed)?)/|\S*?[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	playlistIDRegex = regexp.MustCompile(`[?&]list=([a-zA-Z0-9_-]+)`)
	isoDurationRe   = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)
)

// ExtractVideoID pulls the 11-character video id out of a watch, embed or
// short-form URL. Returns "" when the URL carries no video id.
func ExtractVideoID(rawURL string) string {
	match := videoIDRegex.FindStringSubmatch(rawURL)
	if match == nil {
		return ""
	}
	return match[1]
}

// ExtractPlaylistID pulls the list= parameter out of a playlist URL.
func ExtractPlaylistID(rawURL string) string {
	match := playlistIDRegex.FindStringSubmatch(rawURL)
	if match == nil {
		return ""
	}
	return match[1]
}

// ParseISODuration converts the API's ISO-8601 duration (PT1H2M3S) into
// seconds. Unparseable input counts as zero.
func ParseISODuration(iso string) int {
	match := isoDurationRe.FindStringSubmatch(iso)
	if match == nil {
		return 0
	}
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	seconds, _ := strconv.Atoi(match[3])
	return hours*3600 + minutes*60 + seconds
}

type VideoDetails struct {
	VideoID     string
	Title       string
	Description string
	Thumbnail   string
	Duration    int // seconds
}

type PlaylistDetails struct {
	PlaylistID  string
	Title       string
	Description string
	Videos      []VideoDetails
}

type YoutubeService struct {
	config *YoutubeConfig
	client *http.Client
	logger *zap.Logger
}

func NewYoutubeService(config *YoutubeConfig, logger *zap.Logger) *YoutubeService {
	return &YoutubeService{
		config: config,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

type youtubeListResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Thumbnails  struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
			VideoID  string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

func (s *YoutubeService) get(ctx context.Context, resource string, params url.Values) (*youtubeListResponse, error) {
	params.Set("key", s.config.APIKey)
	endpoint := fmt.Sprintf("%s/%s?%s", s.config.BaseURL, resource, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorResponse map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&errorResponse)
		return nil, fmt.Errorf("youtube request failed, status code: %d, error: %v", resp.StatusCode, errorResponse)
	}

	var parsed youtubeListResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode youtube response: %w", err)
	}
	return &parsed, nil
}

// VideoDetails fetches title, description, thumbnail and duration for one
// video.
func (s *YoutubeService) VideoDetails(ctx context.Context, videoID string) (*VideoDetails, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("id", videoID)
	resp, err := s.get(ctx, "videos", params)
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video %s not found", videoID)
	}
	item := resp.Items[0]
	return &VideoDetails{
		VideoID:     videoID,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
		Thumbnail:   item.Snippet.Thumbnails.High.URL,
		Duration:    ParseISODuration(item.ContentDetails.Duration),
	}, nil
}

// PlaylistDetails fetches the playlist metadata and every video in it,
// following nextPageToken until the listing is exhausted. Durations come
// from per-video lookups since playlistItems omits them.
func (s *YoutubeService) PlaylistDetails(ctx context.Context, playlistID string) (*PlaylistDetails, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", playlistID)
	resp, err := s.get(ctx, "playlists", params)
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("playlist %s not found", playlistID)
	}

	details := &PlaylistDetails{
		PlaylistID:  playlistID,
		Title:       resp.Items[0].Snippet.Title,
		Description: resp.Items[0].Snippet.Description,
	}

	pageToken := ""
	for {
		itemParams := url.Values{}
		itemParams.Set("part", "snippet,contentDetails")
		itemParams.Set("playlistId", playlistID)
		itemParams.Set("maxResults", "50")
		if pageToken != "" {
			itemParams.Set("pageToken", pageToken)
		}
		page, err := s.get(ctx, "playlistItems", itemParams)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			details.Videos = append(details.Videos, VideoDetails{
				VideoID:     item.ContentDetails.VideoID,
				Title:       item.Snippet.Title,
				Description: item.Snippet.Description,
				Thumbnail:   item.Snippet.Thumbnails.High.URL,
			})
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	for i := range details.Videos {
		video, err := s.VideoDetails(ctx, details.Videos[i].VideoID)
		if err != nil {
			s.logger.Warn("Failed to fetch video duration", zap.String("video_id", details.Videos[i].VideoID), zap.Error(err))
			continue
		}
		details.Videos[i].Duration = video.Duration
	}
	return details, nil
}
