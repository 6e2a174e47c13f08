// Package showcase computes the public rendering plan for visible video
// entries and keeps it cached behind the read-only API.
package showcase

import (
	"fmt"

	"github.com/silentpianist/portfolio-videos-go/internal/db/models"

	"github.com/google/uuid"
)

// Render modes
const (
	ModePlayer = "player" // click-to-activate embedded player
	ModeLink   = "link"   // external link card
)

// EntryPlan tells the client everything it needs to render one entry.
// Player entries carry the embed and thumbnail URLs; link entries carry the
// watch URL. A nil ThumbnailURL on a link entry means the client falls back
// to its gradient placeholder.
type EntryPlan struct {
	ID                uuid.UUID `json:"id"`
	Title             string    `json:"title"`
	Section           string    `json:"section"`
	Platform          string    `json:"platform"`
	Mode              string    `json:"mode"`
	EmbedURL          string    `json:"embed_url,omitempty"`
	WatchURL          string    `json:"watch_url,omitempty"`
	ThumbnailURL      *string   `json:"thumbnail_url"`
	FallbackThumbnail string    `json:"fallback_thumbnail,omitempty"`
}

// Plan is the full showcase payload.
type Plan struct {
	Sections         []string    `json:"sections"`
	ShowFilter       bool        `json:"show_filter"`
	NeedsEmbedScript bool        `json:"needs_embed_script"`
	Entries          []EntryPlan `json:"entries"`
}

// BuildPlan computes the render plan for the supplied entries. Entries keep
// the order they were supplied in; ordering by section and display order is
// the fetch layer's job. Sections are collected in first-seen order, with
// legacy category values counting the same as sections.
func BuildPlan(entries []*models.VideoEntry) *Plan {
	plan := &Plan{
		Sections: []string{},
		Entries:  make([]EntryPlan, 0, len(entries)),
	}

	seen := make(map[string]bool)

	for _, entry := range entries {
		section := entry.DisplaySection()
		if section != "" && !seen[section] {
			seen[section] = true
			plan.Sections = append(plan.Sections, section)
		}

		if entry.Platform == models.PlatformTikTok {
			plan.NeedsEmbedScript = true
		}

		plan.Entries = append(plan.Entries, buildEntryPlan(entry))
	}

	plan.ShowFilter = len(plan.Sections) > 1

	return plan
}

func buildEntryPlan(entry *models.VideoEntry) EntryPlan {
	ep := EntryPlan{
		ID:           entry.ID,
		Title:        entry.Title,
		Section:      entry.DisplaySection(),
		Platform:     string(entry.Platform),
		ThumbnailURL: entry.ThumbnailURL,
	}

	id := entry.DisplayEmbedID()

	switch entry.Platform {
	case models.PlatformTikTok:
		ep.Mode = ModeLink
		ep.WatchURL = fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", entry.Username(), id)
	default:
		// youtube and twitter render as click-to-activate players
		ep.Mode = ModePlayer
		ep.EmbedURL = fmt.Sprintf("https://www.youtube.com/embed/%s?autoplay=1", id)
		ep.FallbackThumbnail = fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", id)
		if ep.ThumbnailURL == nil {
			primary := fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", id)
			ep.ThumbnailURL = &primary
		}
	}

	return ep
}
