package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Hemanshukumar-dev/cloudvault/internal/model"
)

// PermissionRepo persists access-grant records. The table carries a
// compound unique index on (file_id, requester_id), so the
// one-grant-per-requester-per-file invariant holds even when two
// concurrent requests pass the application-level existence check.
type PermissionRepo struct{ DB *sql.DB }

func NewPermissionRepo(db *sql.DB) *PermissionRepo { return &PermissionRepo{DB: db} }

const permColumns = "id,file_id,owner_id,requester_id,access,status,hidden,created_at"

// Create inserts a pending grant and returns its ID. A duplicate
// (file, requester) pair surfaces as ErrDuplicateRequest via the unique
// index regardless of the existing record's status.
func (r *PermissionRepo) Create(ctx context.Context, p model.Permission) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO permissions (file_id, owner_id, requester_id, access, status) VALUES (?,?,?,?,?)",
		p.FileID, p.OwnerID, p.RequesterID, p.Access, p.Status)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrDuplicateRequest
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a grant by id.
func (r *PermissionRepo) GetByID(ctx context.Context, id uint64) (model.Permission, error) {
	var p model.Permission
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+permColumns+" FROM permissions WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.FileID, &p.OwnerID, &p.RequesterID, &p.Access, &p.Status, &p.Hidden, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Permission{}, ErrNotFound
	}
	return p, err
}

// GetByFileAndRequester returns the single grant for a (file, requester)
// pair, or ErrNotFound.
func (r *PermissionRepo) GetByFileAndRequester(ctx context.Context, fileID, requesterID uint64) (model.Permission, error) {
	var p model.Permission
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+permColumns+" FROM permissions WHERE file_id=? AND requester_id=? LIMIT 1",
		fileID, requesterID).Scan(&p.ID, &p.FileID, &p.OwnerID, &p.RequesterID, &p.Access, &p.Status, &p.Hidden, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Permission{}, ErrNotFound
	}
	return p, err
}

// GetApproved returns the approved grant for a (file, requester) pair,
// or ErrNotFound. The authorization resolver consults this on every
// non-owner non-admin file operation.
func (r *PermissionRepo) GetApproved(ctx context.Context, fileID, requesterID uint64) (model.Permission, error) {
	var p model.Permission
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+permColumns+" FROM permissions WHERE file_id=? AND requester_id=? AND status=? LIMIT 1",
		fileID, requesterID, model.StatusApproved).Scan(&p.ID, &p.FileID, &p.OwnerID, &p.RequesterID, &p.Access, &p.Status, &p.Hidden, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Permission{}, ErrNotFound
	}
	return p, err
}

// UpdateStatus sets status and access on an existing grant.
func (r *PermissionRepo) UpdateStatus(ctx context.Context, id uint64, status, access string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE permissions SET status=?, access=? WHERE id=?", status, access, id)
	return err
}

// SetHidden flips the requester-side display suppression flag. Status
// and access are untouched.
func (r *PermissionRepo) SetHidden(ctx context.Context, id uint64, hidden bool) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE permissions SET hidden=? WHERE id=?", hidden, id)
	return err
}

// Delete removes a grant entirely (revoke).
func (r *PermissionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM permissions WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByRequester returns every grant a user has requested, any status,
// newest first.
func (r *PermissionRepo) ListByRequester(ctx context.Context, requesterID uint64) ([]model.Permission, error) {
	return r.list(ctx,
		"SELECT "+permColumns+" FROM permissions WHERE requester_id=? ORDER BY created_at DESC", requesterID)
}

// ListPendingByOwner returns incoming requests awaiting the owner's
// decision.
func (r *PermissionRepo) ListPendingByOwner(ctx context.Context, ownerID uint64) ([]model.Permission, error) {
	return r.list(ctx,
		"SELECT "+permColumns+" FROM permissions WHERE owner_id=? AND status=? ORDER BY created_at DESC",
		ownerID, model.StatusPending)
}

// ListApprovedByOwner returns the owner's active shares.
func (r *PermissionRepo) ListApprovedByOwner(ctx context.Context, ownerID uint64) ([]model.Permission, error) {
	return r.list(ctx,
		"SELECT "+permColumns+" FROM permissions WHERE owner_id=? AND status=? ORDER BY created_at DESC",
		ownerID, model.StatusApproved)
}

// ListApprovedByFile returns approved grants for a file; admin file
// listings attach these to each file row.
func (r *PermissionRepo) ListApprovedByFile(ctx context.Context, fileID uint64) ([]model.Permission, error) {
	return r.list(ctx,
		"SELECT "+permColumns+" FROM permissions WHERE file_id=? AND status=? ORDER BY created_at DESC",
		fileID, model.StatusApproved)
}

func (r *PermissionRepo) list(ctx context.Context, query string, args ...any) ([]model.Permission, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Permission{}
	for rows.Next() {
		var p model.Permission
		if err := rows.Scan(&p.ID, &p.FileID, &p.OwnerID, &p.RequesterID, &p.Access, &p.Status, &p.Hidden, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
