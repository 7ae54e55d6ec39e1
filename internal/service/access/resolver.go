// Package access decides whether an actor may perform an operation on a
// file. Every file-touching handler (metadata view, content streaming,
// deletion) routes its check through this package instead of repeating
// the owner/admin/grant cascade inline.
package access

import (
	"context"
	"errors"

	"github.com/Hemanshukumar-dev/cloudvault/internal/model"
	"github.com/Hemanshukumar-dev/cloudvault/internal/repository"
)

// OperationClass partitions file operations by the access level they
// need: reads are satisfied by any approved grant, writes require edit.
type OperationClass string

const (
	OpRead  OperationClass = "read"
	OpWrite OperationClass = "write"
)

// GrantStore is the slice of the permission store the resolver needs.
type GrantStore interface {
	GetApproved(ctx context.Context, fileID, requesterID uint64) (model.Permission, error)
}

// Decide is the pure decision function. Precedence, first match wins:
//
//  1. actor owns the file            -> allow, any operation
//  2. actor is an admin              -> allow, any operation
//  3. approved grant exists          -> writes need edit access,
//     reads accept view or edit
//  4. otherwise                      -> deny
//
// grant is nil when no approved grant exists for (file, actor). Owner
// and admin never consult the grant at all.
func Decide(actorID uint64, role string, file model.File, grant *model.Permission, op OperationClass) bool {
	if actorID == file.OwnerID {
		return true
	}
	if role == model.RoleAdmin {
		return true
	}
	if grant == nil || grant.Status != model.StatusApproved {
		return false
	}
	if op == OpWrite {
		return grant.Access == model.AccessEdit
	}
	return true
}

// Resolver loads the approved grant (if any) and applies Decide.
type Resolver struct {
	grants GrantStore
}

func NewResolver(grants GrantStore) *Resolver {
	return &Resolver{grants: grants}
}

// Allowed reports whether the actor may perform the operation on the
// given file. The file is passed in already loaded so callers fetching
// it for the response anyway do not trigger a second lookup. Only
// storage failures produce an error; a plain deny is (false, nil).
func (r *Resolver) Allowed(ctx context.Context, actorID uint64, role string, file model.File, op OperationClass) (bool, error) {
	// Owner and admin bypass the grant lookup entirely.
	if actorID == file.OwnerID || role == model.RoleAdmin {
		return true, nil
	}
	grant, err := r.grants.GetApproved(ctx, file.ID, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return Decide(actorID, role, file, &grant, op), nil
}
