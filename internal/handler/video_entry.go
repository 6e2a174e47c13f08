package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/silentpianist/portfolio-videos-go/internal/db"
	"github.com/silentpianist/portfolio-videos-go/internal/db/models"
	"github.com/silentpianist/portfolio-videos-go/internal/db/repository"
	"github.com/silentpianist/portfolio-videos-go/internal/extract"

	"github.com/google/uuid"
)

// RefreshPublisher notifies dependent consumers that the entry set changed,
// so cached showcase views can resynchronize.
type RefreshPublisher interface {
	PublishContentChanged(ctx context.Context, action string, entryID uuid.UUID) error
}

// ThumbnailEnqueuer schedules an oEmbed thumbnail fetch for a TikTok entry
// that has no thumbnail of its own.
type ThumbnailEnqueuer interface {
	EnqueueThumbnailFetch(ctx context.Context, entryID uuid.UUID, username, embedID string) error
}

// VideoEntryHandler handles CRUD operations for video entries.
type VideoEntryHandler struct {
	repo       repository.VideoEntryRepository
	publisher  RefreshPublisher
	thumbnails ThumbnailEnqueuer
	logger     *slog.Logger
}

// NewVideoEntryHandler creates a new VideoEntryHandler. The publisher and
// thumbnail enqueuer are optional; without them writes still succeed but no
// side effects fire.
func NewVideoEntryHandler(repo repository.VideoEntryRepository, publisher RefreshPublisher, thumbnails ThumbnailEnqueuer, logger *slog.Logger) *VideoEntryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &VideoEntryHandler{
		repo:       repo,
		publisher:  publisher,
		thumbnails: thumbnails,
		logger:     logger,
	}
}

// VideoEntryRequest represents the request to create or fully replace an entry.
type VideoEntryRequest struct {
	Title          string `json:"title"`
	EmbedID        string `json:"embed_id"`
	TikTokUsername string `json:"tiktok_username"`
	ThumbnailURL   string `json:"thumbnail_url"`
	Section        string `json:"section"`
	Platform       string `json:"platform"`
	IsVisible      *bool  `json:"is_visible"`
}

// normalized applies the creation-dialog defaults, validates the request, and
// reduces pasted URLs in embed_id to bare platform IDs.
func (req *VideoEntryRequest) normalized() (*models.VideoEntry, *ErrorResponse) {
	if req.Section == "" {
		req.Section = string(models.SectionMusic)
	}
	if req.Platform == "" {
		req.Platform = string(models.PlatformYouTube)
	}

	section := models.Section(req.Section)
	if !section.Valid() {
		return nil, &ErrorResponse{Error: "validation failed", Message: "section must be one of: music, piano, basketball"}
	}

	platform := models.Platform(req.Platform)
	if !platform.Valid() {
		return nil, &ErrorResponse{Error: "validation failed", Message: "platform must be one of: youtube, tiktok, twitter"}
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, &ErrorResponse{Error: "validation failed", Message: "title is required"}
	}

	res := extract.Normalize(platform, req.EmbedID)
	if res.EmbedID == "" {
		return nil, &ErrorResponse{Error: "validation failed", Message: "embed_id is required"}
	}

	username := strings.TrimPrefix(strings.TrimSpace(req.TikTokUsername), "@")
	if res.Username != "" {
		// A pasted TikTok URL carries the handle; it wins over the field.
		username = res.Username
	}
	if platform == models.PlatformTikTok && username == "" {
		return nil, &ErrorResponse{Error: "validation failed", Message: "tiktok_username is required for tiktok entries"}
	}

	var thumbnailURL *string
	if req.ThumbnailURL != "" {
		thumbnailURL = &req.ThumbnailURL
	}

	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}

	return models.NewVideoEntry(req.Title, res.EmbedID, username, thumbnailURL, section, platform, visible), nil
}

// ServeHTTP routes video entry requests.
func (h *VideoEntryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/entries")

	if path == "" || path == "/" {
		switch r.Method {
		case http.MethodPost:
			h.handleCreate(w, r)
		case http.MethodGet:
			h.handleList(w, r)
		default:
			sendError(w, http.StatusMethodNotAllowed, "method not allowed", "", nil)
		}
		return
	}

	if strings.HasPrefix(path, "/") {
		id, err := uuid.Parse(strings.TrimPrefix(path, "/"))
		if err != nil {
			sendError(w, http.StatusBadRequest, "invalid entry ID", "entry ID must be a valid UUID", nil)
			return
		}

		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r, id)
		case http.MethodPut:
			h.handleUpdate(w, r, id)
		case http.MethodDelete:
			h.handleDelete(w, r, id)
		default:
			sendError(w, http.StatusMethodNotAllowed, "method not allowed", "", nil)
		}
		return
	}

	sendError(w, http.StatusNotFound, "not found", "", nil)
}

func (h *VideoEntryHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req VideoEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body", err.Error(), nil)
		return
	}

	entry, verr := req.normalized()
	if verr != nil {
		sendError(w, http.StatusBadRequest, verr.Error, verr.Message, nil)
		return
	}

	if err := h.repo.Create(r.Context(), entry); err != nil {
		if db.IsCheckViolation(err) {
			sendError(w, http.StatusBadRequest, "validation failed", "entry was rejected by a storage constraint", nil)
			return
		}
		h.logger.Error("failed to create video entry", "error", err)
		sendError(w, http.StatusInternalServerError, "internal server error", "failed to create video entry", nil)
		return
	}

	h.fireSideEffects(r.Context(), "created", entry)

	sendJSON(w, http.StatusCreated, entry)
}

func (h *VideoEntryHandler) handleGet(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	entry, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if db.IsNotFound(err) {
			sendError(w, http.StatusNotFound, "not found", fmt.Sprintf("video entry with id '%s' not found", id), nil)
			return
		}
		h.logger.Error("failed to get video entry", "error", err, "entry_id", id)
		sendError(w, http.StatusInternalServerError, "internal server error", "failed to retrieve video entry", nil)
		return
	}

	sendJSON(w, http.StatusOK, entry)
}

func (h *VideoEntryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r)
	offset := parseOffset(r)

	visible, err := parseBool(r, "visible")
	if err != nil {
		sendError(w, http.StatusBadRequest, "validation failed", err.Error(), nil)
		return
	}

	filters := &repository.VideoEntryFilters{
		Section:  models.Section(r.URL.Query().Get("section")),
		Platform: models.Platform(r.URL.Query().Get("platform")),
		Visible:  visible,
		Limit:    limit,
		Offset:   offset,
	}

	entries, total, err := h.repo.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list video entries", "error", err)
		sendError(w, http.StatusInternalServerError, "internal server error", "failed to list video entries", nil)
		return
	}

	response := map[string]interface{}{
		"items":  entries,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	}

	sendJSON(w, http.StatusOK, response)
}

func (h *VideoEntryHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req VideoEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body", err.Error(), nil)
		return
	}

	entry, verr := req.normalized()
	if verr != nil {
		sendError(w, http.StatusBadRequest, verr.Error, verr.Message, nil)
		return
	}
	entry.ID = id

	if err := h.repo.Update(r.Context(), entry); err != nil {
		if db.IsNotFound(err) {
			sendError(w, http.StatusNotFound, "not found", fmt.Sprintf("video entry with id '%s' not found", id), nil)
			return
		}
		if db.IsCheckViolation(err) {
			sendError(w, http.StatusBadRequest, "validation failed", "entry was rejected by a storage constraint", nil)
			return
		}
		h.logger.Error("failed to update video entry", "error", err, "entry_id", id)
		sendError(w, http.StatusInternalServerError, "internal server error", "failed to update video entry", nil)
		return
	}

	h.fireSideEffects(r.Context(), "updated", entry)

	sendJSON(w, http.StatusOK, entry)
}

func (h *VideoEntryHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if db.IsNotFound(err) {
			sendError(w, http.StatusNotFound, "not found", fmt.Sprintf("video entry with id '%s' not found", id), nil)
			return
		}
		h.logger.Error("failed to delete video entry", "error", err, "entry_id", id)
		sendError(w, http.StatusInternalServerError, "internal server error", "failed to delete video entry", nil)
		return
	}

	h.publishRefresh(r.Context(), "deleted", id)

	w.WriteHeader(http.StatusNoContent)
}

// fireSideEffects publishes a cache-refresh event and, for TikTok entries
// without a thumbnail, schedules an oEmbed thumbnail fetch. Failures here
// never fail the write that triggered them.
func (h *VideoEntryHandler) fireSideEffects(ctx context.Context, action string, entry *models.VideoEntry) {
	h.publishRefresh(ctx, action, entry.ID)

	if h.thumbnails == nil {
		return
	}
	if entry.Platform != models.PlatformTikTok || entry.ThumbnailURL != nil {
		return
	}

	if err := h.thumbnails.EnqueueThumbnailFetch(ctx, entry.ID, entry.Username(), entry.EmbedID); err != nil {
		h.logger.Warn("failed to enqueue thumbnail fetch",
			"error", err,
			"entry_id", entry.ID,
		)
	}
}

func (h *VideoEntryHandler) publishRefresh(ctx context.Context, action string, id uuid.UUID) {
	if h.publisher == nil {
		return
	}

	if err := h.publisher.PublishContentChanged(ctx, action, id); err != nil {
		h.logger.Warn("failed to publish content change event",
			"error", err,
			"action", action,
			"entry_id", id,
		)
	}
}
