package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenRepoMock(t *testing.T) (*TokenRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTokenRepo(db), mock
}

const validateRefreshSQL = "SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1"

func sessionRow(userID uint64, expiresAt time.Time, revokedAt any) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
		AddRow(userID, expiresAt, revokedAt)
}

func TestValidateRefresh_LiveSession(t *testing.T) {
	repo, mock := newTokenRepoMock(t)

	mock.ExpectQuery(validateRefreshSQL).
		WithArgs("hash-live").
		WillReturnRows(sessionRow(42, time.Now().UTC().Add(time.Hour), nil))

	userID, err := repo.ValidateRefresh(context.Background(), "hash-live")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
}

// Unknown, revoked and expired hashes must be indistinguishable to the
// caller: all three come back as ErrNotFound.
func TestValidateRefresh_DeadSessionsCollapseToNotFound(t *testing.T) {
	now := time.Now().UTC()

	cases := []struct {
		name string
		rows *sqlmock.Rows
	}{
		{"unknown hash", sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"})},
		{"revoked", sessionRow(42, now.Add(time.Hour), now.Add(-time.Minute))},
		{"expired", sessionRow(42, now.Add(-time.Minute), nil)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newTokenRepoMock(t)
			mock.ExpectQuery(validateRefreshSQL).
				WithArgs("hash-dead").
				WillReturnRows(tc.rows)

			_, err := repo.ValidateRefresh(context.Background(), "hash-dead")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRevokeByHash_SkipsAlreadyRevokedRows(t *testing.T) {
	repo, mock := newTokenRepoMock(t)

	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL").
		WithArgs("hash-gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RevokeByHash(context.Background(), "hash-gone")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
