// Package extract normalizes pasted video URLs into bare platform IDs.
package extract

import (
	"regexp"
	"strings"

	"github.com/silentpianist/portfolio-videos-go/internal/db/models"
)

var (
	youtubeIDPattern  = regexp.MustCompile(`(?:v=|youtu\.be/|/embed/)([a-zA-Z0-9_-]+)`)
	tiktokIDPattern   = regexp.MustCompile(`video/(\d+)`)
	tiktokUserPattern = regexp.MustCompile(`@([a-zA-Z0-9_.-]+)`)
	twitterIDPattern  = regexp.MustCompile(`status/(\d+)`)
)

// Result is the outcome of normalizing embed-field input.
type Result struct {
	// EmbedID is the extracted platform ID, or the trimmed raw input when no
	// pattern matched (bare IDs pass through unchanged).
	EmbedID string

	// Username is the @handle captured from a TikTok URL. Empty for other
	// platforms and for TikTok input without an @ segment.
	Username string

	// Matched reports whether a platform pattern recognized the input.
	Matched bool
}

// Normalize reduces raw input from the embed-id field to a bare identifier
// for the given platform.
//
// YouTube accepts watch URLs (v=ID), short links (youtu.be/ID) and embed
// paths (/embed/ID). TikTok accepts share URLs (…/video/NNNN) and captures
// the @username as a side effect. Twitter accepts status URLs (…/status/NNNN).
// Anything unrecognized is returned trimmed, so direct ID entry works.
func Normalize(platform models.Platform, raw string) Result {
	value := strings.TrimSpace(raw)
	res := Result{EmbedID: value}

	switch platform {
	case models.PlatformTikTok:
		if m := tiktokUserPattern.FindStringSubmatch(value); m != nil {
			res.Username = m[1]
		}
		if m := tiktokIDPattern.FindStringSubmatch(value); m != nil {
			res.EmbedID = m[1]
			res.Matched = true
		}
	case models.PlatformTwitter:
		if m := twitterIDPattern.FindStringSubmatch(value); m != nil {
			res.EmbedID = m[1]
			res.Matched = true
		}
	case models.PlatformYouTube:
		if m := youtubeIDPattern.FindStringSubmatch(value); m != nil {
			res.EmbedID = m[1]
			res.Matched = true
		}
	}

	return res
}
