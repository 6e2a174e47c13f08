// Package tiktok is a minimal client for TikTok's oEmbed endpoint, used only
// to look up thumbnail images for entries that have none of their own.
package tiktok

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultEndpoint = "https://www.tiktok.com/oembed"

// Client fetches oEmbed metadata for TikTok videos.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a new oEmbed client. Pass nil to use a default HTTP
// client with a 10 second timeout.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   defaultEndpoint,
	}
}

// WithEndpoint overrides the oEmbed endpoint. Used by tests.
func (c *Client) WithEndpoint(endpoint string) *Client {
	c.endpoint = endpoint
	return c
}

type oembedResponse struct {
	ThumbnailURL string `json:"thumbnail_url"`
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
}

// FetchThumbnail resolves the thumbnail image URL for one video.
func (c *Client) FetchThumbnail(ctx context.Context, username, videoID string) (string, error) {
	videoURL := fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", username, videoID)

	reqURL := fmt.Sprintf("%s?url=%s", c.endpoint, url.QueryEscape(videoURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("build oembed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch oembed data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oembed request failed with status %d", resp.StatusCode)
	}

	var data oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decode oembed response: %w", err)
	}

	if data.ThumbnailURL == "" {
		return "", fmt.Errorf("oembed response has no thumbnail for video %s", videoID)
	}

	return data.ThumbnailURL, nil
}
