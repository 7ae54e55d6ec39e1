package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hemanshukumar-dev/cloudvault/internal/config"
	"github.com/Hemanshukumar-dev/cloudvault/internal/model"
	"github.com/Hemanshukumar-dev/cloudvault/internal/queue"
	"github.com/Hemanshukumar-dev/cloudvault/internal/repository"
	"github.com/Hemanshukumar-dev/cloudvault/internal/service/sharequeue"
	"github.com/Hemanshukumar-dev/cloudvault/internal/storage"
	"github.com/Hemanshukumar-dev/cloudvault/internal/utils"
)

// AdminHandler implements the admin dashboard: user and file oversight
// plus management of the admin set itself. All routes sit behind the
// admin role middleware; protected identities are enforced one layer
// down, in the user repository.
type AdminHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Files *repository.FileRepo
	Perms *repository.PermissionRepo
	Store storage.Provider
}

func NewAdminHandler(cfg config.Config, u *repository.UserRepo, f *repository.FileRepo, p *repository.PermissionRepo, s storage.Provider) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Users: u, Files: f, Perms: p, Store: s}
}

type adminUserResp struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	Files     []fileResp `json:"files"`
}

type adminFileResp struct {
	fileResp
	Grants []permResp `json:"grants"`
}

// ListUsers handles GET /v1/admin/users: every user with their files.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
	}

	out := make([]adminUserResp, 0, len(users))
	for _, u := range users {
		files, err := h.Files.ListByOwner(ctx, u.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list files failed"})
		}
		fr := make([]fileResp, 0, len(files))
		for _, f := range files {
			fr = append(fr, toFileResp(f))
		}
		out = append(out, adminUserResp{
			ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role,
			CreatedAt: u.CreatedAt, Files: fr,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// ListFiles handles GET /v1/admin/files: every file with its approved
// grants attached.
func (h *AdminHandler) ListFiles(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	files, err := h.Files.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list files failed"})
	}

	out := make([]adminFileResp, 0, len(files))
	for _, f := range files {
		grants, err := h.Perms.ListApprovedByFile(ctx, f.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list grants failed"})
		}
		gr := make([]permResp, 0, len(grants))
		for _, g := range grants {
			gr = append(gr, toPermResp(g))
		}
		out = append(out, adminFileResp{fileResp: toFileResp(f), Grants: gr})
	}
	return c.JSON(http.StatusOK, echo.Map{"files": out})
}

// DeleteFile handles DELETE /v1/admin/files/:id: same cascade as the
// owner path, without an ownership check.
func (h *AdminHandler) DeleteFile(c echo.Context) error {
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

	if err := h.Files.DeleteCascade(ctx, f.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "file not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

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

type createAdminReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ListAdmins handles GET /v1/admin/admins, oldest first.
func (h *AdminHandler) ListAdmins(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	admins, err := h.Users.ListAdmins(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list admins failed"})
	}
	out := make([]userPart, 0, len(admins))
	for _, u := range admins {
		out = append(out, userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	return c.JSON(http.StatusOK, echo.Map{"admins": out})
}

// CreateAdmin handles POST /v1/admin/admins: creates a user directly
// with the admin role.
func (h *AdminHandler) CreateAdmin(c echo.Context) error {
	var req createAdminReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = utils.NormalizeEmail(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, model.RoleAdmin, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create admin failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"admin": userPart{ID: uid, Name: req.Name, Email: req.Email, Role: model.RoleAdmin},
	})
}

// DeleteAdmin handles DELETE /v1/admin/admins/:id. Protected identities
// come back as 403.
func (h *AdminHandler) DeleteAdmin(c echo.Context) error {
	return h.adminMutation(c, h.Users.Delete)
}

// DemoteAdmin handles PUT /v1/admin/admins/demote/:id: the target keeps
// their account but loses the admin role.
func (h *AdminHandler) DemoteAdmin(c echo.Context) error {
	return h.adminMutation(c, h.Users.Demote)
}

func (h *AdminHandler) adminMutation(c echo.Context, op func(context.Context, uint64) error) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := op(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		case errors.Is(err, repository.ErrProtectedUser):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "protected admin cannot be modified"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
