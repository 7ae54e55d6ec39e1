package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hemanshukumar-dev/cloudvault/internal/model"
	"github.com/Hemanshukumar-dev/cloudvault/internal/repository"
)

func TestDecide(t *testing.T) {
	file := model.File{ID: 10, OwnerID: 1}
	viewGrant := &model.Permission{FileID: 10, RequesterID: 2, Access: model.AccessView, Status: model.StatusApproved}
	editGrant := &model.Permission{FileID: 10, RequesterID: 2, Access: model.AccessEdit, Status: model.StatusApproved}
	pendingEdit := &model.Permission{FileID: 10, RequesterID: 2, Access: model.AccessEdit, Status: model.StatusPending}

	cases := []struct {
		name  string
		actor uint64
		role  string
		grant *model.Permission
		op    OperationClass
		want  bool
	}{
		{"owner reads", 1, model.RoleUser, nil, OpRead, true},
		{"owner writes", 1, model.RoleUser, nil, OpWrite, true},
		{"admin reads without grant", 3, model.RoleAdmin, nil, OpRead, true},
		{"admin writes without grant", 3, model.RoleAdmin, nil, OpWrite, true},
		{"view grant allows read", 2, model.RoleUser, viewGrant, OpRead, true},
		{"view grant denies write", 2, model.RoleUser, viewGrant, OpWrite, false},
		{"edit grant allows read", 2, model.RoleUser, editGrant, OpRead, true},
		{"edit grant allows write", 2, model.RoleUser, editGrant, OpWrite, true},
		{"pending grant denies read", 2, model.RoleUser, pendingEdit, OpRead, false},
		{"pending grant denies write", 2, model.RoleUser, pendingEdit, OpWrite, false},
		{"no grant denies read", 2, model.RoleUser, nil, OpRead, false},
		{"no grant denies write", 2, model.RoleUser, nil, OpWrite, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.actor, tc.role, file, tc.grant, tc.op))
		})
	}
}

type fakeGrants struct {
	grants map[[2]uint64]model.Permission
	err    error
}

func (f *fakeGrants) GetApproved(_ context.Context, fileID, requesterID uint64) (model.Permission, error) {
	if f.err != nil {
		return model.Permission{}, f.err
	}
	p, ok := f.grants[[2]uint64{fileID, requesterID}]
	if !ok {
		return model.Permission{}, repository.ErrNotFound
	}
	return p, nil
}

func TestAllowed_MissingGrantIsPlainDeny(t *testing.T) {
	r := NewResolver(&fakeGrants{grants: map[[2]uint64]model.Permission{}})
	file := model.File{ID: 10, OwnerID: 1}

	ok, err := r.Allowed(context.Background(), 2, model.RoleUser, file, OpRead)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAllowed_GrantLookupSkippedForOwnerAndAdmin(t *testing.T) {
	// A failing store proves owner/admin paths never touch it.
	r := NewResolver(&fakeGrants{err: errors.New("store down")})
	file := model.File{ID: 10, OwnerID: 1}

	ok, err := r.Allowed(context.Background(), 1, model.RoleUser, file, OpWrite)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Allowed(context.Background(), 3, model.RoleAdmin, file, OpWrite)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAllowed_UsesApprovedGrant(t *testing.T) {
	r := NewResolver(&fakeGrants{grants: map[[2]uint64]model.Permission{
		{10, 2}: {FileID: 10, RequesterID: 2, Access: model.AccessView, Status: model.StatusApproved},
	}})
	file := model.File{ID: 10, OwnerID: 1}

	ok, err := r.Allowed(context.Background(), 2, model.RoleUser, file, OpRead)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Allowed(context.Background(), 2, model.RoleUser, file, OpWrite)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAllowed_StoreFailureSurfaces(t *testing.T) {
	r := NewResolver(&fakeGrants{err: errors.New("store down")})
	file := model.File{ID: 10, OwnerID: 1}

	_, err := r.Allowed(context.Background(), 2, model.RoleUser, file, OpRead)
	assert.Error(t, err)
}
