package share

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hemanshukumar-dev/cloudvault/internal/model"
	"github.com/Hemanshukumar-dev/cloudvault/internal/repository"
)

// fakeFiles is an in-memory FileStore.
type fakeFiles struct {
	files map[uint64]model.File
}

func (f *fakeFiles) GetByID(_ context.Context, id uint64) (model.File, error) {
	file, ok := f.files[id]
	if !ok {
		return model.File{}, repository.ErrNotFound
	}
	return file, nil
}

// fakePerms is an in-memory PermissionStore enforcing the same
// one-grant-per-(file, requester) rule as the unique index.
type fakePerms struct {
	nextID uint64
	perms  map[uint64]model.Permission
}

func newFakePerms() *fakePerms {
	return &fakePerms{nextID: 1, perms: map[uint64]model.Permission{}}
}

func (f *fakePerms) Create(_ context.Context, p model.Permission) (uint64, error) {
	for _, existing := range f.perms {
		if existing.FileID == p.FileID && existing.RequesterID == p.RequesterID {
			return 0, repository.ErrDuplicateRequest
		}
	}
	p.ID = f.nextID
	f.nextID++
	f.perms[p.ID] = p
	return p.ID, nil
}

func (f *fakePerms) GetByID(_ context.Context, id uint64) (model.Permission, error) {
	p, ok := f.perms[id]
	if !ok {
		return model.Permission{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePerms) GetByFileAndRequester(_ context.Context, fileID, requesterID uint64) (model.Permission, error) {
	for _, p := range f.perms {
		if p.FileID == fileID && p.RequesterID == requesterID {
			return p, nil
		}
	}
	return model.Permission{}, repository.ErrNotFound
}

func (f *fakePerms) UpdateStatus(_ context.Context, id uint64, status, access string) error {
	p, ok := f.perms[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	p.Access = access
	f.perms[id] = p
	return nil
}

func (f *fakePerms) SetHidden(_ context.Context, id uint64, hidden bool) error {
	p, ok := f.perms[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Hidden = hidden
	f.perms[id] = p
	return nil
}

func (f *fakePerms) Delete(_ context.Context, id uint64) error {
	if _, ok := f.perms[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.perms, id)
	return nil
}

func (f *fakePerms) ListByRequester(_ context.Context, requesterID uint64) ([]model.Permission, error) {
	out := []model.Permission{}
	for _, p := range f.perms {
		if p.RequesterID == requesterID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePerms) ListPendingByOwner(_ context.Context, ownerID uint64) ([]model.Permission, error) {
	out := []model.Permission{}
	for _, p := range f.perms {
		if p.OwnerID == ownerID && p.Status == model.StatusPending {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePerms) ListApprovedByOwner(_ context.Context, ownerID uint64) ([]model.Permission, error) {
	out := []model.Permission{}
	for _, p := range f.perms {
		if p.OwnerID == ownerID && p.Status == model.StatusApproved {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePerms) SearchVisibleApproved(_ context.Context, requesterID uint64, q repository.SharedFileQuery) ([]repository.SharedFileRow, int64, error) {
	out := []repository.SharedFileRow{}
	for _, p := range f.perms {
		if p.RequesterID == requesterID && p.Status == model.StatusApproved && !p.Hidden {
			out = append(out, repository.SharedFileRow{
				PermissionID: p.ID,
				FileID:       p.FileID,
				OwnerID:      p.OwnerID,
				Access:       p.Access,
			})
		}
	}
	return out, int64(len(out)), nil
}

const (
	ownerID     = uint64(1)
	requesterID = uint64(2)
	strangerID  = uint64(3)
	fileID      = uint64(10)
)

func newTestService() (*Service, *fakePerms) {
	files := &fakeFiles{files: map[uint64]model.File{
		fileID: {ID: fileID, OwnerID: ownerID, Filename: "report.pdf"},
	}}
	perms := newFakePerms()
	return NewService(files, perms), perms
}

func TestRequestAccess_CreatesPending(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.RequestAccess(context.Background(), requesterID, fileID, "edit")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, p.Status)
	assert.Equal(t, model.AccessEdit, p.Access)
	assert.Equal(t, ownerID, p.OwnerID)
	assert.Equal(t, requesterID, p.RequesterID)
	assert.NotZero(t, p.ID)
}

func TestRequestAccess_NormalizesUnknownAccessToView(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.RequestAccess(context.Background(), requesterID, fileID, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.AccessView, p.Access)
}

func TestRequestAccess_MissingFile(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.RequestAccess(context.Background(), requesterID, 999, "view")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRequestAccess_SelfRequestRejected(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.RequestAccess(context.Background(), ownerID, fileID, "view")
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestRequestAccess_DuplicateRejectedWhateverStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.RequestAccess(ctx, requesterID, fileID, "view")
	require.NoError(t, err)

	_, err = svc.RequestAccess(ctx, requesterID, fileID, "view")
	assert.ErrorIs(t, err, repository.ErrDuplicateRequest)

	// Still a duplicate after the owner rejects: rejected is terminal.
	_, err = svc.RejectAccess(ctx, ownerID, p.ID)
	require.NoError(t, err)
	_, err = svc.RequestAccess(ctx, requesterID, fileID, "edit")
	assert.ErrorIs(t, err, repository.ErrDuplicateRequest)
}

func TestApproveAccess_OwnerOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.RequestAccess(ctx, requesterID, fileID, "edit")
	require.NoError(t, err)

	_, err = svc.ApproveAccess(ctx, strangerID, p.ID, "edit")
	assert.ErrorIs(t, err, repository.ErrForbidden)

	// The requester cannot approve their own request either.
	_, err = svc.ApproveAccess(ctx, requesterID, p.ID, "edit")
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

// An omitted approval level must not inherit the requested one: even
// when the requester asked for edit, approving with an empty value
// resolves to view through normalization.
func TestApproveAccess_EmptyLevelNormalizesToView(t *testing.T) {
	svc, perms := newTestService()
	ctx := context.Background()

	p, err := svc.RequestAccess(ctx, requesterID, fileID, "edit")
	require.NoError(t, err)

	got, err := svc.ApproveAccess(ctx, ownerID, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.AccessView, got.Access)

	stored, err := perms.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AccessView, stored.Access)
}

func TestApproveAccess_OwnerMayDowngradeLevel(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.RequestAccess(ctx, requesterID, fileID, "edit")
	require.NoError(t, err)

	got, err := svc.ApproveAccess(ctx, ownerID, p.ID, "view")
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
	assert.Equal(t, model.AccessView, got.Access)
}

// Approving a rejected grant resurrects it. Intentional: approve checks
// ownership, not the current status.
func TestApproveAccess_ResurrectsRejectedGrant(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.RequestAccess(ctx, requesterID, fileID, "view")
	require.NoError(t, err)
	_, err = svc.RejectAccess(ctx, ownerID, p.ID)
	require.NoError(t, err)

	got, err := svc.ApproveAccess(ctx, ownerID, p.ID, "view")
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
}

func TestRejectAccess_OwnerOnlyAndKeepsAccessLevel(t *testing.T) {
	svc, perms := newTestService()
	ctx := context.Background()

	p, err := svc.RequestAccess(ctx, requesterID, fileID, "edit")
	require.NoError(t, err)

	_, err = svc.RejectAccess(ctx, strangerID, p.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	got, err := svc.RejectAccess(ctx, ownerID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, got.Status)
	assert.Equal(t, model.AccessEdit, got.Access)

	stored, err := perms.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, stored.Status)
}

func TestRevokeAccess_DeletesGrant(t *testing.T) {
	svc, perms := newTestService()
	ctx := context.Background()

	p, err := svc.RequestAccess(ctx, requesterID, fileID, "view")
	require.NoError(t, err)
	_, err = svc.ApproveAccess(ctx, ownerID, p.ID, "view")
	require.NoError(t, err)

	_, err = svc.RevokeAccess(ctx, strangerID, p.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	_, err = svc.RevokeAccess(ctx, ownerID, p.ID)
	require.NoError(t, err)

	_, err = perms.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// A fresh request is possible once the record is gone.
	_, err = svc.RequestAccess(ctx, requesterID, fileID, "view")
	assert.NoError(t, err)
}

func TestHideFromDashboard_RequesterOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.RequestAccess(ctx, requesterID, fileID, "view")
	require.NoError(t, err)
	_, err = svc.ApproveAccess(ctx, ownerID, p.ID, "view")
	require.NoError(t, err)

	_, err = svc.HideFromDashboard(ctx, ownerID, p.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	got, err := svc.HideFromDashboard(ctx, requesterID, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Hidden)
	assert.Equal(t, model.StatusApproved, got.Status)
}

func TestHideFromDashboard_OnlyApprovedGrants(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.RequestAccess(ctx, requesterID, fileID, "view")
	require.NoError(t, err)

	_, err = svc.HideFromDashboard(ctx, requesterID, p.ID)
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = svc.RejectAccess(ctx, ownerID, p.ID)
	require.NoError(t, err)
	_, err = svc.HideFromDashboard(ctx, requesterID, p.ID)
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestSharedWithMe_ExcludesHiddenGrants(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.RequestAccess(ctx, requesterID, fileID, "view")
	require.NoError(t, err)
	_, err = svc.ApproveAccess(ctx, ownerID, p.ID, "view")
	require.NoError(t, err)

	rows, total, err := svc.SharedWithMe(ctx, requesterID, repository.SharedFileQuery{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.EqualValues(t, 1, total)

	_, err = svc.HideFromDashboard(ctx, requesterID, p.ID)
	require.NoError(t, err)

	rows, total, err = svc.SharedWithMe(ctx, requesterID, repository.SharedFileQuery{})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.EqualValues(t, 0, total)
}

func TestListings_SplitByRole(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.RequestAccess(ctx, requesterID, fileID, "edit")
	require.NoError(t, err)

	pending, err := svc.PendingForOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	active, err := svc.ActiveForOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, active)

	mine, err := svc.MyRequests(ctx, requesterID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.ApproveAccess(ctx, ownerID, p.ID, "edit")
	require.NoError(t, err)

	pending, err = svc.PendingForOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	active, err = svc.ActiveForOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
