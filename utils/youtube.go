package utils

import (
	"credlyse/config"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

const YoutubeApiBase = "https://www.googleapis.com/youtube/v3"

// VideoMetadata is the subset of YouTube video data the importer needs.
type VideoMetadata struct {
	VideoID         string
	Title           string
	DurationSeconds int
}

// PlaylistMetadata is the result of a full playlist import fetch.
type PlaylistMetadata struct {
	Title       string
	Description string
	Videos      []VideoMetadata
}

var (
	playlistIDPattern = regexp.MustCompile(`[?&]list=([a-zA-Z0-9_-]+)`)
	videoIDPatterns   = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/v/([a-zA-Z0-9_-]{11})`),
	}
	durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)
)

// ParseYoutubeURL extracts the YouTube ID from a playlist or video URL and
// reports whether it is a playlist or a single video.
func ParseYoutubeURL(url string) (string, string, error) {
	if m := playlistIDPattern.FindStringSubmatch(url); m != nil {
		return m[1], "PLAYLIST", nil
	}
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1], "SINGLE_VIDEO", nil
		}
	}
	return "", "", fmt.Errorf("could not parse YouTube URL: %s", url)
}

// ParseISODuration converts an ISO 8601 duration like PT1H30M45S to seconds.
func ParseISODuration(duration string) int {
	m := durationPattern.FindStringSubmatch(duration)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	return hours*3600 + minutes*60 + seconds
}

type youtubeListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			ResourceID  struct {
				Kind    string `json:"kind"`
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

func youtubeGet(path string, params map[string]string) (*youtubeListResponse, error) {
	if config.AppConfig.YoutubeApiKey == "" {
		return nil, fmt.Errorf("YouTube API key not configured")
	}

	params["key"] = config.AppConfig.YoutubeApiKey

	client := resty.New()
	resp, err := client.R().
		SetQueryParams(params).
		Get(YoutubeApiBase + path)
	if err != nil {
		return nil, fmt.Errorf("YouTube API request failed: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("YouTube API error: %s", resp.String())
	}

	var result youtubeListResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse YouTube response: %v", err)
	}
	return &result, nil
}

// FetchVideoMetadata fetches title and duration for a single video.
func FetchVideoMetadata(videoID string) (*VideoMetadata, error) {
	result, err := youtubeGet("/videos", map[string]string{
		"part": "snippet,contentDetails",
		"id":   videoID,
	})
	if err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("video not found: %s", videoID)
	}

	item := result.Items[0]
	return &VideoMetadata{
		VideoID:         videoID,
		Title:           item.Snippet.Title,
		DurationSeconds: ParseISODuration(item.ContentDetails.Duration),
	}, nil
}

// FetchPlaylistMetadata fetches a playlist's snippet and every video in it,
// paging through playlistItems 50 at a time.
func FetchPlaylistMetadata(playlistID string) (*PlaylistMetadata, error) {
	playlistResult, err := youtubeGet("/playlists", map[string]string{
		"part": "snippet",
		"id":   playlistID,
	})
	if err != nil {
		return nil, err
	}
	if len(playlistResult.Items) == 0 {
		return nil, fmt.Errorf("playlist not found: %s", playlistID)
	}

	metadata := &PlaylistMetadata{
		Title:       playlistResult.Items[0].Snippet.Title,
		Description: playlistResult.Items[0].Snippet.Description,
	}

	pageToken := ""
	for {
		params := map[string]string{
			"part":       "snippet",
			"playlistId": playlistID,
			"maxResults": "50",
		}
		if pageToken != "" {
			params["pageToken"] = pageToken
		}

		itemsResult, err := youtubeGet("/playlistItems", params)
		if err != nil {
			return nil, err
		}

		var videoIDs []string
		for _, item := range itemsResult.Items {
			if item.Snippet.ResourceID.Kind == "youtube#video" {
				videoIDs = append(videoIDs, item.Snippet.ResourceID.VideoID)
			}
		}

		if len(videoIDs) > 0 {
			videosResult, err := youtubeGet("/videos", map[string]string{
				"part": "snippet,contentDetails",
				"id":   strings.Join(videoIDs, ","),
			})
			if err != nil {
				return nil, err
			}
			for _, vid := range videosResult.Items {
				metadata.Videos = append(metadata.Videos, VideoMetadata{
					VideoID:         vid.ID,
					Title:           vid.Snippet.Title,
					DurationSeconds: ParseISODuration(vid.ContentDetails.Duration),
				})
			}
		}

		pageToken = itemsResult.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return metadata, nil
}

// FetchYoutubeMetadata fetches metadata for either content type. A single
// video is wrapped as a one-video course.
func FetchYoutubeMetadata(youtubeID, contentType string) (*PlaylistMetadata, error) {
	if contentType == "SINGLE_VIDEO" {
		video, err := FetchVideoMetadata(youtubeID)
		if err != nil {
			return nil, err
		}
		return &PlaylistMetadata{
			Title:       video.Title,
			Description: "Single video course: " + video.Title,
			Videos:      []VideoMetadata{*video},
		}, nil
	}
	return FetchPlaylistMetadata(youtubeID)
}
