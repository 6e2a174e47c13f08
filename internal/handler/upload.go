package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Uploader stores an uploaded image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (string, error)
}

// UploadHandler accepts multipart thumbnail uploads from the admin editor.
// Failures surface to the client as blocking errors; nothing is stored and
// form state stays untouched.
type UploadHandler struct {
	uploader Uploader
	maxSize  int64
	logger   *slog.Logger
}

// NewUploadHandler creates a new UploadHandler. maxSize caps the accepted
// file size in bytes.
func NewUploadHandler(uploader Uploader, maxSize int64, logger *slog.Logger) *UploadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxSize <= 0 {
		maxSize = 5 << 20
	}
	return &UploadHandler{
		uploader: uploader,
		maxSize:  maxSize,
		logger:   logger,
	}
}

// ServeHTTP handles POST /api/v1/uploads.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, http.StatusMethodNotAllowed, "method not allowed", "", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)
	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		sendError(w, http.StatusRequestEntityTooLarge, "upload failed",
			"file exceeds the maximum allowed size", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		sendError(w, http.StatusBadRequest, "invalid request", "a 'file' form field is required", nil)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		sendError(w, http.StatusBadRequest, "invalid request", "only image uploads are accepted", nil)
		return
	}

	url, err := h.uploader.Upload(r.Context(), header.Filename, contentType, file, header.Size)
	if err != nil {
		h.logger.Error("thumbnail upload failed", "filename", header.Filename, "error", err)
		sendError(w, http.StatusBadGateway, "upload failed",
			"the storage backend rejected the upload", nil)
		return
	}

	h.logger.Info("thumbnail uploaded", "filename", header.Filename, "url", url)
	sendJSON(w, http.StatusCreated, map[string]string{"url": url})
}
