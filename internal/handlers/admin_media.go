package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"treepress/internal/middleware"
	"treepress/internal/models"
	"treepress/internal/render"
)

const (
	// maxUploadSize is the maximum allowed file upload size (25 MB).
	maxUploadSize = 25 << 20
)

// allowedMediaTypes defines MIME types accepted for upload.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"application/pdf": true,
}

// MediaList renders the media library admin page.
func (a *Admin) MediaList(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		a.renderer.Page(w, r, "media_list", &render.PageData{
			Title:   "Media",
			Section: "media",
			Data:    map[string]any{"items": nil, "noStorage": true},
		})
		return
	}

	const perPage = 50
	page := 0
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p - 1
	}
	items, err := a.mediaStore.List(perPage, page*perPage)
	if err != nil {
		slog.Error("list media failed", "error", err)
	}

	urls := make(map[string]string, len(items))
	for _, m := range items {
		urls[m.S3Key] = a.storageClient.FileURL(m.S3Key)
	}

	a.renderer.Page(w, r, "media_list", &render.PageData{
		Title:   "Media",
		Section: "media",
		Data: map[string]any{
			"items":    items,
			"urls":     urls,
			"page":     page + 1,
			"hasMore":  len(items) == perPage,
			"prevPage": page,
			"nextPage": page + 2,
		},
	})
}

// MediaUpload handles multipart file upload to S3.
func (a *Admin) MediaUpload(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		http.Error(w, "Object storage is not configured.", http.StatusServiceUnavailable)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())

	// Limit request body to maxUploadSize + some overhead for form fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "File too large. Maximum size is 25 MB.", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file provided.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedMediaTypes[contentType] {
		http.Error(w, "Unsupported file type.", http.StatusUnsupportedMediaType)
		return
	}

	// Namespace uploads by date and randomize the key to avoid clashes.
	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("uploads/%s/%s%s",
		time.Now().Format("2006/01"), uuid.New().String(), ext)

	if err := a.storageClient.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		slog.Error("media upload failed", "error", err, "key", key)
		http.Error(w, "Upload failed.", http.StatusInternalServerError)
		return
	}

	media := &models.Media{
		Filename:     filepath.Base(key),
		OriginalName: filepath.Base(header.Filename),
		ContentType:  contentType,
		SizeBytes:    header.Size,
		S3Key:        key,
		UploaderID:   sess.UserID,
	}
	if altText := strings.TrimSpace(r.FormValue("alt_text")); altText != "" {
		media.AltText = &altText
	}

	if _, err := a.mediaStore.Create(media); err != nil {
		slog.Error("media record create failed", "error", err, "key", key)
		// The object is orphaned in S3; best effort removal.
		a.storageClient.Delete(r.Context(), key)
		http.Error(w, "Upload failed.", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/media", http.StatusSeeOther)
}

// MediaUpdateAlt sets or clears the alt text on a media item.
func (a *Admin) MediaUpdateAlt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid media id", http.StatusBadRequest)
		return
	}

	m, err := a.mediaStore.FindByID(id)
	if err != nil {
		slog.Error("find media failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if m == nil {
		http.NotFound(w, r)
		return
	}

	var altText *string
	if v := strings.TrimSpace(r.FormValue("alt_text")); v != "" {
		altText = &v
	}
	if err := a.mediaStore.UpdateAltText(id, altText); err != nil {
		slog.Error("media alt text update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/media", http.StatusSeeOther)
}

// MediaDelete removes the S3 object and its metadata record.
func (a *Admin) MediaDelete(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		http.Error(w, "Object storage is not configured.", http.StatusServiceUnavailable)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid media id", http.StatusBadRequest)
		return
	}

	m, err := a.mediaStore.FindByID(id)
	if err != nil {
		slog.Error("find media failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if m == nil {
		http.NotFound(w, r)
		return
	}

	if err := a.storageClient.Delete(r.Context(), m.S3Key); err != nil {
		slog.Error("s3 delete failed", "error", err, "key", m.S3Key)
		// Keep the record so the file stays visible for a retry.
		http.Error(w, "Delete failed.", http.StatusInternalServerError)
		return
	}

	if err := a.mediaStore.Delete(m.ID); err != nil {
		slog.Error("media record delete failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/media", http.StatusSeeOther)
}
