package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileRepoMock(t *testing.T) (*FileRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFileRepo(db), mock
}

// The grant cleanup and the file row removal must happen inside one
// transaction so no permission record can outlive its file.
func TestDeleteCascade_RemovesGrantsAndFileInOneTransaction(t *testing.T) {
	repo, mock := newFileRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM permissions WHERE file_id=?").
		WithArgs(uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM files WHERE id=?").
		WithArgs(uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteCascade(context.Background(), 10)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCascade_MissingFileRollsBack(t *testing.T) {
	repo, mock := newFileRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM permissions WHERE file_id=?").
		WithArgs(uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM files WHERE id=?").
		WithArgs(uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteCascade(context.Background(), 11)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failure while clearing grants must abort the whole cascade: the
// file row stays untouched and the transaction rolls back.
func TestDeleteCascade_GrantDeleteFailureRollsBack(t *testing.T) {
	repo, mock := newFileRepoMock(t)

	boom := errors.New("lock wait timeout")
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM permissions WHERE file_id=?").
		WithArgs(uint64(12)).
		WillReturnError(boom)
	mock.ExpectRollback()

	err := repo.DeleteCascade(context.Background(), 12)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
