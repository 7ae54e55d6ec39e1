package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hemanshukumar-dev/cloudvault/internal/model"
	"github.com/Hemanshukumar-dev/cloudvault/internal/queue"
	"github.com/Hemanshukumar-dev/cloudvault/internal/repository"
	"github.com/Hemanshukumar-dev/cloudvault/internal/service/access"
	"github.com/Hemanshukumar-dev/cloudvault/internal/service/sharequeue"
	"github.com/Hemanshukumar-dev/cloudvault/internal/storage"
)

// maxUploadBytes caps upload size at 5 MiB.
const maxUploadBytes = 5 << 20

// FileHandler implements upload, listing, viewing and deletion of files.
// Authorization on per-file routes goes through the resolver; the
// handler never re-implements the owner/admin/grant cascade.
type FileHandler struct {
	Files    *repository.FileRepo
	Resolver *access.Resolver
	Store    storage.Provider
}

func NewFileHandler(files *repository.FileRepo, resolver *access.Resolver, store storage.Provider) *FileHandler {
	return &FileHandler{Files: files, Resolver: resolver, Store: store}
}

type fileResp struct {
	ID        uint64    `json:"id"`
	OwnerID   uint64    `json:"owner_id"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

func toFileResp(f model.File) fileResp {
	return fileResp{
		ID:        f.ID,
		OwnerID:   f.OwnerID,
		Filename:  f.Filename,
		URL:       f.URL,
		MimeType:  f.MimeType,
		Size:      f.Size,
		CreatedAt: f.CreatedAt,
	}
}

// allowedMime accepts PDFs and images only.
func allowedMime(mimeType string) bool {
	return mimeType == "application/pdf" || strings.HasPrefix(mimeType, "image/")
}

// Upload handles POST /v1/files: multipart field "file" goes to the
// object store, then a metadata row is written. A metadata insert
// failure cleans up the just-stored object so nothing is orphaned.
func (h *FileHandler) Upload(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file field required"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file exceeds 5 MiB limit"})
	}
	mimeType := fh.Header.Get("Content-Type")
	if !allowedMime(mimeType) {
		return c.JSON(http.StatusUnsupportedMediaType, echo.Map{"error": "only PDF and image uploads are accepted"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}
	defer src.Close()

	blob, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}
	if len(blob) > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file exceeds 5 MiB limit"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	class := storage.ClassForMime(mimeType)
	obj, err := h.Store.Store(ctx, blob, fh.Filename, class)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store file failed"})
	}

	f := model.File{
		OwnerID:  uid,
		Filename: fh.Filename,
		URL:      obj.URL,
		Locator:  obj.Locator,
		MimeType: mimeType,
		Size:     int64(len(blob)),
	}
	id, err := h.Files.Create(ctx, f)
	if err != nil {
		_ = h.Store.Delete(ctx, obj.Locator, class)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save file failed"})
	}
	f.ID = id
	f.CreatedAt = time.Now().UTC()

	return c.JSON(http.StatusCreated, echo.Map{"file": toFileResp(f)})
}

// ListMine handles GET /v1/files: the caller's own files, newest first.
func (h *FileHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	files, err := h.Files.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list files failed"})
	}
	out := make([]fileResp, 0, len(files))
	for _, f := range files {
		out = append(out, toFileResp(f))
	}
	return c.JSON(http.StatusOK, echo.Map{"files": out})
}

// View handles GET /v1/files/:id: metadata for a single file, gated by
// a resolver read check.
func (h *FileHandler) View(c echo.Context) error {
	f, ok := h.loadAuthorized(c, access.OpRead)
	if !ok {
		return nil // error response already written
	}
	return c.JSON(http.StatusOK, echo.Map{"file": toFileResp(f)})
}

// Content handles GET /v1/files/:id/content: redirects the authorized
// caller to the object store URL. The blob itself never flows through
// the API server.
func (h *FileHandler) Content(c echo.Context) error {
	f, ok := h.loadAuthorized(c, access.OpRead)
	if !ok {
		return nil
	}
	return c.Redirect(http.StatusFound, f.URL)
}

// Delete handles DELETE /v1/files/:id: resolver write check, cascade
// delete of the metadata row and its grants, then best-effort object
// removal and a file_deleted event.
func (h *FileHandler) Delete(c echo.Context) error {
	f, ok := h.loadAuthorized(c, access.OpWrite)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Files.DeleteCascade(ctx, f.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "file not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	// Object-store removal is best-effort: the metadata and grants are
	// already gone, an orphaned blob is preferable to a failed delete.
	if err := h.Store.Delete(ctx, f.Locator, storage.ClassForMime(f.MimeType)); err != nil {
		c.Logger().Warnf("file %d: object delete failed: %v", f.ID, err)
	}

	_ = sharequeue.PublishShareActivity(ctx, queue.ShareActivityEvent{
		Kind:       queue.KindFileDeleted,
		FileID:     f.ID,
		Filename:   f.Filename,
		OwnerID:    f.OwnerID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.NoContent(http.StatusNoContent)
}

// ShareInfo handles GET /v1/files/share/:id: a public, unauthenticated
// summary (filename, type, size) for share links. No URL and no owner
// identity leak out. Sits behind the Redis response cache.
func (h *FileHandler) ShareInfo(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f, err := h.Files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "file not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load file failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"filename":  f.Filename,
		"mime_type": f.MimeType,
		"size":      f.Size,
	})
}

// loadAuthorized fetches the file and runs the resolver. On any
// failure it writes the error response itself and reports false; the
// caller returns nil without touching the response again.
func (h *FileHandler) loadAuthorized(c echo.Context, op access.OperationClass) (model.File, bool) {
	uid, err := getUserID(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		return model.File{}, false
	}
	id, err := pathID(c)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		return model.File{}, false
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f, err := h.Files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "file not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "load file failed"})
		}
		return model.File{}, false
	}

	ok, err := h.Resolver.Allowed(ctx, uid, getRole(c), f, op)
	if err != nil {
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "authorization check failed"})
		return model.File{}, false
	}
	if !ok {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		return model.File{}, false
	}
	return f, true
}
