package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Hemanshukumar-dev/cloudvault/internal/model"
	"github.com/Hemanshukumar-dev/cloudvault/internal/utils"
)

// UserRepo persists user records. The protected set holds normalized
// emails that Delete and Demote must refuse to touch; it is injected
// from configuration at startup so no handler has to repeat the check.
type UserRepo struct {
	DB        *sql.DB
	protected map[string]bool
}

func NewUserRepo(db *sql.DB, protected map[string]bool) *UserRepo {
	return &UserRepo{DB: db, protected: protected}
}

const userColumns = "id,name,email,password_hash,role,created_at"

// Create inserts a user and returns its ID. The email must already be
// normalized by the caller; the unique index on users.email is the
// authoritative duplicate check, so a concurrent signup with the same
// address surfaces as ErrEmailExists rather than a duplicate row.
func (r *UserRepo) Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
		name, email, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// ListAll returns every user, newest first.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	return r.list(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
}

// ListAdmins returns all admin users ordered by creation time, oldest
// first, matching the admin dashboard's presentation order.
func (r *UserRepo) ListAdmins(ctx context.Context) ([]model.User, error) {
	return r.list(ctx, "SELECT "+userColumns+" FROM users WHERE role=? ORDER BY created_at ASC", model.RoleAdmin)
}

func (r *UserRepo) list(ctx context.Context, query string, args ...any) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// IsProtected reports whether the given normalized email belongs to the
// configured protected-identity allow-list.
func (r *UserRepo) IsProtected(email string) bool { return r.protected[email] }

// Delete removes a user. Protected identities are refused with
// ErrProtectedUser; absent users report ErrNotFound.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r.protected[u.Email] {
		return ErrProtectedUser
	}
	_, err = r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	return err
}

// Demote sets an admin's role back to user. The same protected-identity
// guard applies as for Delete.
func (r *UserRepo) Demote(ctx context.Context, id uint64) error {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r.protected[u.Email] {
		return ErrProtectedUser
	}
	_, err = r.DB.ExecContext(ctx, "UPDATE users SET role=? WHERE id=?", model.RoleUser, id)
	return err
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, "UPDATE users SET password_hash=? WHERE id=?", hash, id)
	return err
}
