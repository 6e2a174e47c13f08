package extract

import (
	"testing"

	"github.com/silentpianist/portfolio-videos-go/internal/db/models"
)

func TestNormalizeYouTube(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		matched bool
	}{
		{
			name:    "watch URL",
			input:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want:    "dQw4w9WgXcQ",
			matched: true,
		},
		{
			name:    "short link",
			input:   "https://youtu.be/dQw4w9WgXcQ",
			want:    "dQw4w9WgXcQ",
			matched: true,
		},
		{
			name:    "embed path",
			input:   "https://www.youtube.com/embed/dQw4w9WgXcQ",
			want:    "dQw4w9WgXcQ",
			matched: true,
		},
		{
			name:    "watch URL with extra params",
			input:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			want:    "dQw4w9WgXcQ",
			matched: true,
		},
		{
			name:    "bare ID passes through",
			input:   "dQw4w9WgXcQ",
			want:    "dQw4w9WgXcQ",
			matched: false,
		},
		{
			name:    "whitespace trimmed",
			input:   "  dQw4w9WgXcQ  ",
			want:    "dQw4w9WgXcQ",
			matched: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(models.PlatformYouTube, tt.input)
			if got.EmbedID != tt.want {
				t.Errorf("EmbedID = %q, want %q", got.EmbedID, tt.want)
			}
			if got.Matched != tt.matched {
				t.Errorf("Matched = %v, want %v", got.Matched, tt.matched)
			}
			if got.Username != "" {
				t.Errorf("Username = %q, want empty", got.Username)
			}
		})
	}
}

func TestNormalizeTikTok(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		want         string
		wantUsername string
	}{
		{
			name:         "share URL with username",
			input:        "https://www.tiktok.com/@TheSilentPianist/video/7123456789012345678",
			want:         "7123456789012345678",
			wantUsername: "TheSilentPianist",
		},
		{
			name:         "username with dots and dashes",
			input:        "https://www.tiktok.com/@the.silent-pianist_1/video/7000000000000000001",
			want:         "7000000000000000001",
			wantUsername: "the.silent-pianist_1",
		},
		{
			name:  "bare numeric ID",
			input: "7123456789012345678",
			want:  "7123456789012345678",
		},
		{
			name:         "username without video path keeps raw input",
			input:        "@someone",
			want:         "@someone",
			wantUsername: "someone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(models.PlatformTikTok, tt.input)
			if got.EmbedID != tt.want {
				t.Errorf("EmbedID = %q, want %q", got.EmbedID, tt.want)
			}
			if got.Username != tt.wantUsername {
				t.Errorf("Username = %q, want %q", got.Username, tt.wantUsername)
			}
		})
	}
}

func TestNormalizeTwitter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "x.com status URL",
			input: "https://x.com/user/status/1234567890123456789",
			want:  "1234567890123456789",
		},
		{
			name:  "twitter.com status URL with query",
			input: "https://twitter.com/user/status/1234567890123456789?s=20",
			want:  "1234567890123456789",
		},
		{
			name:  "bare ID passes through",
			input: "1234567890123456789",
			want:  "1234567890123456789",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(models.PlatformTwitter, tt.input)
			if got.EmbedID != tt.want {
				t.Errorf("EmbedID = %q, want %q", got.EmbedID, tt.want)
			}
		})
	}
}
