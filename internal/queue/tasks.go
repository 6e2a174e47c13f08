package queue

import (
	"encoding/json"
	"fmt"
)

// Task types
const (
	TypeThumbnailTikTok = "thumbnail:tiktok"
)

// ThumbnailTikTokPayload is the payload for TikTok thumbnail fetch tasks
type ThumbnailTikTokPayload struct {
	EntryID  string `json:"entry_id"`
	Username string `json:"username"`
	EmbedID  string `json:"embed_id"`
}

// NewThumbnailTikTokTask creates a new TikTok thumbnail fetch task payload
func NewThumbnailTikTokTask(entryID, username, embedID string) (*ThumbnailTikTokPayload, error) {
	if entryID == "" {
		return nil, fmt.Errorf("entry ID is required")
	}
	if embedID == "" {
		return nil, fmt.Errorf("embed ID is required")
	}

	return &ThumbnailTikTokPayload{
		EntryID:  entryID,
		Username: username,
		EmbedID:  embedID,
	}, nil
}

// Marshal serializes the payload to JSON
func (p *ThumbnailTikTokPayload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalThumbnailTikTokPayload deserializes JSON to payload
func UnmarshalThumbnailTikTokPayload(data []byte) (*ThumbnailTikTokPayload, error) {
	var payload ThumbnailTikTokPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return &payload, nil
}
