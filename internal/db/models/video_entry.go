package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTikTokUsername is used for TikTok entries that do not carry their own handle.
const DefaultTikTokUsername = "TheSilentPianist"

// Section is a fixed content category used for grouping and filtering.
type Section string

const (
	SectionMusic      Section = "music"
	SectionPiano      Section = "piano"
	SectionBasketball Section = "basketball"
)

// Sections lists every known section in display order.
func Sections() []Section {
	return []Section{SectionMusic, SectionPiano, SectionBasketball}
}

// Valid reports whether s is one of the known sections.
func (s Section) Valid() bool {
	switch s {
	case SectionMusic, SectionPiano, SectionBasketball:
		return true
	}
	return false
}

// Platform identifies the source video service. It determines how pasted URLs
// are reduced to embed IDs and how the showcase renders an entry.
type Platform string

const (
	PlatformYouTube Platform = "youtube"
	PlatformTikTok  Platform = "tiktok"
	PlatformTwitter Platform = "twitter"
)

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformYouTube, PlatformTikTok, PlatformTwitter:
		return true
	}
	return false
}

// HasThumbnailField reports whether thumbnail_url is editable for p.
// TikTok thumbnails come from oEmbed instead.
func (p Platform) HasThumbnailField() bool {
	return p == PlatformYouTube || p == PlatformTwitter
}

// VideoEntry is the single persisted record type: one embeddable video and its
// display metadata. The youtube_id and category columns exist only for records
// created before embed_id and section were introduced.
type VideoEntry struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	EmbedID         string    `json:"embed_id" db:"embed_id"`
	TikTokUsername  string    `json:"tiktok_username,omitempty" db:"tiktok_username"`
	ThumbnailURL    *string   `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	Section         Section   `json:"section,omitempty" db:"section"`
	Platform        Platform  `json:"platform" db:"platform"`
	DisplayOrder    int       `json:"display_order" db:"display_order"`
	IsVisible       bool      `json:"is_visible" db:"is_visible"`
	LegacyYouTubeID *string   `json:"youtube_id,omitempty" db:"youtube_id"`
	LegacyCategory  *string   `json:"category,omitempty" db:"category"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// NewVideoEntry creates a new VideoEntry. The ID and DisplayOrder are assigned
// by the repository at insert time.
func NewVideoEntry(title, embedID, tiktokUsername string, thumbnailURL *string, section Section, platform Platform, isVisible bool) *VideoEntry {
	if tiktokUsername == "" {
		tiktokUsername = DefaultTikTokUsername
	}

	now := time.Now()
	return &VideoEntry{
		Title:          title,
		EmbedID:        embedID,
		TikTokUsername: tiktokUsername,
		ThumbnailURL:   thumbnailURL,
		Section:        section,
		Platform:       platform,
		IsVisible:      isVisible,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Replace overwrites the editable fields and stamps the update time.
func (e *VideoEntry) Replace(title, embedID, tiktokUsername string, thumbnailURL *string, section Section, platform Platform, isVisible bool) {
	e.Title = title
	e.EmbedID = embedID
	e.TikTokUsername = tiktokUsername
	e.ThumbnailURL = thumbnailURL
	e.Section = section
	e.Platform = platform
	e.IsVisible = isVisible
	e.UpdatedAt = time.Now()
}

// DisplayEmbedID returns the id used to build embed and link URLs, falling
// back to the legacy youtube_id column when embed_id is empty.
func (e *VideoEntry) DisplayEmbedID() string {
	if e.EmbedID != "" {
		return e.EmbedID
	}
	if e.LegacyYouTubeID != nil {
		return *e.LegacyYouTubeID
	}
	return ""
}

// DisplaySection returns the grouping key, falling back to the legacy
// category column when section is empty.
func (e *VideoEntry) DisplaySection() string {
	if e.Section != "" {
		return string(e.Section)
	}
	if e.LegacyCategory != nil {
		return *e.LegacyCategory
	}
	return ""
}

// Username returns the TikTok handle for link building, defaulting when unset.
func (e *VideoEntry) Username() string {
	if e.TikTokUsername != "" {
		return e.TikTokUsername
	}
	return DefaultTikTokUsername
}
