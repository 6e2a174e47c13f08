package tiktok

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchThumbnail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.URL.Query().Get("url")
		want := "https://www.tiktok.com/@TheSilentPianist/video/7123456789012345678"
		if got != want {
			t.Errorf("oembed url param = %q, want %q", got, want)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"thumbnail_url":"https://p16.tiktokcdn.com/img/thumb.jpeg","title":"Clip","author_name":"TheSilentPianist"}`))
	}))
	defer server.Close()

	client := NewClient(server.Client()).WithEndpoint(server.URL)

	url, err := client.FetchThumbnail(context.Background(), "TheSilentPianist", "7123456789012345678")
	if err != nil {
		t.Fatalf("FetchThumbnail() error = %v", err)
	}
	if url != "https://p16.tiktokcdn.com/img/thumb.jpeg" {
		t.Errorf("FetchThumbnail() = %q", url)
	}
}

func TestFetchThumbnailErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "not found", http.StatusNotFound)
			},
		},
		{
			name: "empty thumbnail",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"title":"Clip"}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.Client()).WithEndpoint(server.URL)
			if _, err := client.FetchThumbnail(context.Background(), "user", "123"); err == nil {
				t.Error("FetchThumbnail() error = nil, want error")
			}
		})
	}
}
