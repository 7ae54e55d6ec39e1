package repository

import (
	"context"
	"strings"
)

// Pagination bounds for the requester-visible shared-files listing.
const (
	sharedDefaultLimit = 4
	sharedMaxLimit     = 20
)

// SharedFileQuery defines filters & pagination for the files shared
// with a requester.
type SharedFileQuery struct {
	Search string
	Page   int
	Limit  int
}

// Clamp normalizes pagination: page is at least 1, limit defaults to 4
// and is clamped to [1,20].
func (q SharedFileQuery) Clamp() SharedFileQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = sharedDefaultLimit
	}
	if q.Limit < 1 {
		q.Limit = 1
	}
	if q.Limit > sharedMaxLimit {
		q.Limit = sharedMaxLimit
	}
	return q
}

// SharedFileRow is one entry in the requester's shared-with-me view: the
// grant joined with the file it refers to.
type SharedFileRow struct {
	PermissionID uint64 `json:"permission_id"`
	FileID       uint64 `json:"file_id"`
	OwnerID      uint64 `json:"owner_id"`
	Access       string `json:"access"`
	Filename     string `json:"filename"`
	URL          string `json:"url"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	SharedAt     string `json:"shared_at"`
}

// SearchVisibleApproved returns the requester's approved, non-hidden
// grants joined with file metadata, filtered by a case-insensitive
// filename substring, paginated. The total count (before paging) is
// returned alongside so clients can render page controls.
func (r *PermissionRepo) SearchVisibleApproved(ctx context.Context, requesterID uint64, q SharedFileQuery) ([]SharedFileRow, int64, error) {
	q = q.Clamp()

	where := []string{"p.requester_id = ?", "p.status = 'approved'", "p.hidden = 0"}
	args := []any{requesterID}

	if q.Search != "" {
		where = append(where, "LOWER(f.filename) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Search)+"%")
	}

	cond := strings.Join(where, " AND ")

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM permissions p
		JOIN files f ON f.id = p.file_id
		WHERE ` + cond
	if err := r.DB.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	offset := (q.Page - 1) * q.Limit

	dataSQL := `SELECT
			p.id,
			p.file_id,
			p.owner_id,
			p.access,
			f.filename,
			f.url,
			f.mime_type,
			f.size,
			DATE_FORMAT(p.created_at, '%Y-%m-%d %T') AS shared_at
		FROM permissions p
		JOIN files f ON f.id = p.file_id
		WHERE ` + cond + `
		ORDER BY p.created_at DESC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]SharedFileRow, 0, limit)
	for rows.Next() {
		var d SharedFileRow
		if err := rows.Scan(
			&d.PermissionID,
			&d.FileID,
			&d.OwnerID,
			&d.Access,
			&d.Filename,
			&d.URL,
			&d.MimeType,
			&d.Size,
			&d.SharedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
