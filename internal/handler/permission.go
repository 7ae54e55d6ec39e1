package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hemanshukumar-dev/cloudvault/internal/model"
	"github.com/Hemanshukumar-dev/cloudvault/internal/queue"
	"github.com/Hemanshukumar-dev/cloudvault/internal/repository"
	"github.com/Hemanshukumar-dev/cloudvault/internal/service/share"
	"github.com/Hemanshukumar-dev/cloudvault/internal/service/sharequeue"
)

// PermissionHandler exposes the grant workflow over HTTP. All business
// rules live in the share service; this layer binds requests, maps
// sentinel errors to status codes and publishes activity events.
type PermissionHandler struct {
	Share *share.Service
	Files *repository.FileRepo
}

func NewPermissionHandler(s *share.Service, files *repository.FileRepo) *PermissionHandler {
	return &PermissionHandler{Share: s, Files: files}
}

type requestAccessReq struct {
	FileID uint64 `json:"file_id"`
	Access string `json:"access"` // "view" | "edit"
}

type approveReq struct {
	Access string `json:"access"` // owner's final say; may downgrade
}

type permResp struct {
	ID          uint64    `json:"id"`
	FileID      uint64    `json:"file_id"`
	OwnerID     uint64    `json:"owner_id"`
	RequesterID uint64    `json:"requester_id"`
	Access      string    `json:"access"`
	Status      string    `json:"status"`
	Hidden      bool      `json:"hidden"`
	CreatedAt   time.Time `json:"created_at"`
}

func toPermResp(p model.Permission) permResp {
	return permResp{
		ID:          p.ID,
		FileID:      p.FileID,
		OwnerID:     p.OwnerID,
		RequesterID: p.RequesterID,
		Access:      p.Access,
		Status:      p.Status,
		Hidden:      p.Hidden,
		CreatedAt:   p.CreatedAt,
	}
}

// Request handles POST /v1/permissions/request.
func (h *PermissionHandler) Request(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req requestAccessReq
	if err := c.Bind(&req); err != nil || req.FileID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Share.RequestAccess(ctx, uid, req.FileID, req.Access)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "file not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "cannot request access to your own file"})
		case errors.Is(err, repository.ErrDuplicateRequest):
			return c.JSON(http.StatusConflict, echo.Map{"error": "request already exists for this file"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "request failed"})
		}
	}

	h.publish(ctx, queue.KindRequested, p)
	return c.JSON(http.StatusCreated, echo.Map{"permission": toPermResp(p)})
}

// Approve handles PUT /v1/permissions/approve/:id.
func (h *PermissionHandler) Approve(c echo.Context) error {
	return h.decide(c, queue.KindApproved)
}

// Reject handles PUT /v1/permissions/reject/:id.
func (h *PermissionHandler) Reject(c echo.Context) error {
	return h.decide(c, queue.KindRejected)
}

func (h *PermissionHandler) decide(c echo.Context, kind string) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var p model.Permission
	if kind == queue.KindApproved {
		var req approveReq
		_ = c.Bind(&req) // empty body normalizes to "view" in the service
		p, err = h.Share.ApproveAccess(ctx, uid, id, req.Access)
	} else {
		p, err = h.Share.RejectAccess(ctx, uid, id)
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "permission not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}

	h.publish(ctx, kind, p)
	return c.JSON(http.StatusOK, echo.Map{"permission": toPermResp(p)})
}

// Revoke handles DELETE /v1/permissions/revoke/:id.
func (h *PermissionHandler) Revoke(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Share.RevokeAccess(ctx, uid, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "permission not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
		}
	}

	h.publish(ctx, queue.KindRevoked, p)
	return c.NoContent(http.StatusNoContent)
}

// Hide handles PUT /v1/permissions/hide/:id.
func (h *PermissionHandler) Hide(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Share.HideFromDashboard(ctx, uid, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "permission not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "only approved permissions can be hidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hide failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"permission": toPermResp(p)})
}

// My handles GET /v1/permissions/my: everything the caller requested.
func (h *PermissionHandler) My(c echo.Context) error {
	return h.listFor(c, func(ctx context.Context, uid uint64) ([]model.Permission, error) {
		return h.Share.MyRequests(ctx, uid)
	})
}

// OwnerPending handles GET /v1/permissions/owner: incoming requests.
func (h *PermissionHandler) OwnerPending(c echo.Context) error {
	return h.listFor(c, func(ctx context.Context, uid uint64) ([]model.Permission, error) {
		return h.Share.PendingForOwner(ctx, uid)
	})
}

// OwnerActive handles GET /v1/permissions/owner/active: approved shares.
func (h *PermissionHandler) OwnerActive(c echo.Context) error {
	return h.listFor(c, func(ctx context.Context, uid uint64) ([]model.Permission, error) {
		return h.Share.ActiveForOwner(ctx, uid)
	})
}

func (h *PermissionHandler) listFor(c echo.Context, load func(context.Context, uint64) ([]model.Permission, error)) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	perms, err := load(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	out := make([]permResp, 0, len(perms))
	for _, p := range perms {
		out = append(out, toPermResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"permissions": out})
}

// SharedWithMe handles GET /v1/permissions/shared?search=&page=&limit=.
func (h *PermissionHandler) SharedWithMe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	q := repository.SharedFileQuery{Search: c.QueryParam("search")}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		q.Page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		q.Limit = v
	}
	q = q.Clamp()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, total, err := h.Share.SharedWithMe(ctx, uid, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}

	pages := total / int64(q.Limit)
	if total%int64(q.Limit) != 0 {
		pages++
	}
	return c.JSON(http.StatusOK, echo.Map{
		"files":       rows,
		"total":       total,
		"page":        q.Page,
		"limit":       q.Limit,
		"total_pages": pages,
	})
}

// publish sends a share-activity event; failures are logged inside the
// publisher and ignored here.
func (h *PermissionHandler) publish(ctx context.Context, kind string, p model.Permission) {
	filename := ""
	if f, err := h.Files.GetByID(ctx, p.FileID); err == nil {
		filename = f.Filename
	}
	_ = sharequeue.PublishShareActivity(ctx, queue.ShareActivityEvent{
		Kind:        kind,
		FileID:      p.FileID,
		Filename:    filename,
		OwnerID:     p.OwnerID,
		RequesterID: p.RequesterID,
		Access:      p.Access,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	})
}
