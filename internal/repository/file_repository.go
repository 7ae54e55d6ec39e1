package repository

import (
	"context"
	"database/sql"

	"github.com/Hemanshukumar-dev/cloudvault/internal/model"
)

// FileRepo persists file metadata. Content bytes live in the object
// store; only the URL and deletion locator are kept here.
type FileRepo struct{ DB *sql.DB }

func NewFileRepo(db *sql.DB) *FileRepo { return &FileRepo{DB: db} }

const fileColumns = "id,owner_id,filename,url,locator,mime_type,size,created_at"

// Create inserts a metadata row after a successful object-store write
// and returns its ID.
func (r *FileRepo) Create(ctx context.Context, f model.File) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO files (owner_id, filename, url, locator, mime_type, size) VALUES (?,?,?,?,?,?)",
		f.OwnerID, f.Filename, f.URL, f.Locator, f.MimeType, f.Size)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a file by id.
func (r *FileRepo) GetByID(ctx context.Context, id uint64) (model.File, error) {
	var f model.File
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+fileColumns+" FROM files WHERE id=? LIMIT 1",
		id).Scan(&f.ID, &f.OwnerID, &f.Filename, &f.URL, &f.Locator, &f.MimeType, &f.Size, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return model.File{}, ErrNotFound
	}
	return f, err
}

// ListByOwner returns a user's own files, newest first.
func (r *FileRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.File, error) {
	return r.list(ctx, "SELECT "+fileColumns+" FROM files WHERE owner_id=? ORDER BY created_at DESC", ownerID)
}

// ListAll returns every file, newest first. Admin dashboards use this.
func (r *FileRepo) ListAll(ctx context.Context) ([]model.File, error) {
	return r.list(ctx, "SELECT "+fileColumns+" FROM files ORDER BY created_at DESC")
}

func (r *FileRepo) list(ctx context.Context, query string, args ...any) ([]model.File, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.File{}
	for rows.Next() {
		var f model.File
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Filename, &f.URL, &f.Locator, &f.MimeType, &f.Size, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// DeleteCascade removes a file and every permission referencing it in a
// single transaction, so a grant can never outlive its file. The
// object-store cleanup is the caller's concern (and is best-effort);
// this method only guarantees the metadata side.
func (r *FileRepo) DeleteCascade(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM permissions WHERE file_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM files WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
