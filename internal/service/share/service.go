// Package share implements the access-grant workflow: a requester asks
// for view or edit access to someone else's file, the owner approves,
// rejects or later revokes the grant, and the requester may hide an
// approved grant from their own dashboard without giving it up.
//
// State machine (absent = no record):
//
//	absent   -> pending          RequestAccess
//	pending  -> approved         ApproveAccess (owner only)
//	pending  -> rejected         RejectAccess  (owner only)
//	approved -> absent           RevokeAccess  (owner only) / file deletion cascade
//	approved -> approved(hidden) HideFromDashboard (requester only)
//
// rejected has no outgoing transition: the uniqueness check blocks a
// second request for the same (file, requester) pair in any status.
package share

import (
	"context"
	"errors"

	"github.com/Hemanshukumar-dev/cloudvault/internal/model"
	"github.com/Hemanshukumar-dev/cloudvault/internal/repository"
)

// FileStore is the slice of the file registry the workflow needs.
type FileStore interface {
	GetByID(ctx context.Context, id uint64) (model.File, error)
}

// PermissionStore abstracts grant persistence. *repository.PermissionRepo
// is the production implementation; tests use in-memory fakes.
type PermissionStore interface {
	Create(ctx context.Context, p model.Permission) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.Permission, error)
	GetByFileAndRequester(ctx context.Context, fileID, requesterID uint64) (model.Permission, error)
	UpdateStatus(ctx context.Context, id uint64, status, access string) error
	SetHidden(ctx context.Context, id uint64, hidden bool) error
	Delete(ctx context.Context, id uint64) error
	ListByRequester(ctx context.Context, requesterID uint64) ([]model.Permission, error)
	ListPendingByOwner(ctx context.Context, ownerID uint64) ([]model.Permission, error)
	ListApprovedByOwner(ctx context.Context, ownerID uint64) ([]model.Permission, error)
	SearchVisibleApproved(ctx context.Context, requesterID uint64, q repository.SharedFileQuery) ([]repository.SharedFileRow, int64, error)
}

// Service drives the grant workflow over the two stores.
type Service struct {
	files FileStore
	perms PermissionStore
}

func NewService(files FileStore, perms PermissionStore) *Service {
	return &Service{files: files, perms: perms}
}

// RequestAccess creates a pending grant for (file, requester).
//
// Fails with ErrNotFound when the file is absent, ErrConflict when the
// requester owns the file, and ErrDuplicateRequest when any grant
// already exists for the pair, whatever its status. The desired level
// is normalized: anything but the exact string "edit" becomes "view".
// The owner is copied from the file at this point and never re-derived.
func (s *Service) RequestAccess(ctx context.Context, requesterID, fileID uint64, desiredAccess string) (model.Permission, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return model.Permission{}, err
	}
	if file.OwnerID == requesterID {
		return model.Permission{}, repository.ErrConflict
	}

	// Pre-check for a friendlier error; the compound unique index on
	// (file_id, requester_id) closes the race between two concurrent
	// requests that both pass this lookup.
	if _, err := s.perms.GetByFileAndRequester(ctx, fileID, requesterID); err == nil {
		return model.Permission{}, repository.ErrDuplicateRequest
	} else if !errors.Is(err, repository.ErrNotFound) {
		return model.Permission{}, err
	}

	p := model.Permission{
		FileID:      fileID,
		OwnerID:     file.OwnerID,
		RequesterID: requesterID,
		Access:      model.NormalizeAccess(desiredAccess),
		Status:      model.StatusPending,
	}
	id, err := s.perms.Create(ctx, p)
	if err != nil {
		return model.Permission{}, err
	}
	p.ID = id
	return p, nil
}

// ApproveAccess transitions a grant to approved with the owner's chosen
// level, which overrides what the requester asked for. The chosen value
// goes through the same normalization as requests: only the exact
// string "edit" grants edit, everything else (including an empty value)
// resolves to view, so an omitted level can never widen access. Only
// the grant's owner may approve; anyone else gets ErrForbidden.
//
// There is deliberately no guard on the current status: re-approving an
// approved grant is idempotent, and approving a rejected one resurrects
// it. The latter matches the historical behavior and is pinned by tests.
func (s *Service) ApproveAccess(ctx context.Context, actorID, permID uint64, chosenAccess string) (model.Permission, error) {
	p, err := s.perms.GetByID(ctx, permID)
	if err != nil {
		return model.Permission{}, err
	}
	if p.OwnerID != actorID {
		return model.Permission{}, repository.ErrForbidden
	}
	p.Status = model.StatusApproved
	p.Access = model.NormalizeAccess(chosenAccess)
	if err := s.perms.UpdateStatus(ctx, p.ID, p.Status, p.Access); err != nil {
		return model.Permission{}, err
	}
	return p, nil
}

// RejectAccess marks a grant rejected. Owner-only. The access level is
// left as requested; it is meaningless on a rejected record.
func (s *Service) RejectAccess(ctx context.Context, actorID, permID uint64) (model.Permission, error) {
	p, err := s.perms.GetByID(ctx, permID)
	if err != nil {
		return model.Permission{}, err
	}
	if p.OwnerID != actorID {
		return model.Permission{}, repository.ErrForbidden
	}
	p.Status = model.StatusRejected
	if err := s.perms.UpdateStatus(ctx, p.ID, p.Status, p.Access); err != nil {
		return model.Permission{}, err
	}
	return p, nil
}

// RevokeAccess deletes a grant entirely. Owner-only. Takes effect on the
// requester's next authorization check; there is no undo.
func (s *Service) RevokeAccess(ctx context.Context, actorID, permID uint64) (model.Permission, error) {
	p, err := s.perms.GetByID(ctx, permID)
	if err != nil {
		return model.Permission{}, err
	}
	if p.OwnerID != actorID {
		return model.Permission{}, repository.ErrForbidden
	}
	if err := s.perms.Delete(ctx, p.ID); err != nil {
		return model.Permission{}, err
	}
	return p, nil
}

// HideFromDashboard sets the requester-side hidden flag on an approved
// grant. Only the requester may hide their own grant (ErrForbidden
// otherwise), and only approved grants can be hidden (ErrConflict for
// pending or rejected ones). Access rights are unaffected.
func (s *Service) HideFromDashboard(ctx context.Context, requesterID, permID uint64) (model.Permission, error) {
	p, err := s.perms.GetByID(ctx, permID)
	if err != nil {
		return model.Permission{}, err
	}
	if p.RequesterID != requesterID {
		return model.Permission{}, repository.ErrForbidden
	}
	if p.Status != model.StatusApproved {
		return model.Permission{}, repository.ErrConflict
	}
	if err := s.perms.SetHidden(ctx, p.ID, true); err != nil {
		return model.Permission{}, err
	}
	p.Hidden = true
	return p, nil
}

// MyRequests lists every grant the user has requested, any status.
func (s *Service) MyRequests(ctx context.Context, requesterID uint64) ([]model.Permission, error) {
	return s.perms.ListByRequester(ctx, requesterID)
}

// PendingForOwner lists incoming requests awaiting the owner's decision.
func (s *Service) PendingForOwner(ctx context.Context, ownerID uint64) ([]model.Permission, error) {
	return s.perms.ListPendingByOwner(ctx, ownerID)
}

// ActiveForOwner lists the owner's approved shares.
func (s *Service) ActiveForOwner(ctx context.Context, ownerID uint64) ([]model.Permission, error) {
	return s.perms.ListApprovedByOwner(ctx, ownerID)
}

// SharedWithMe lists the requester's approved, non-hidden grants joined
// with file metadata, with filename search and clamped pagination.
func (s *Service) SharedWithMe(ctx context.Context, requesterID uint64, q repository.SharedFileQuery) ([]repository.SharedFileRow, int64, error) {
	return s.perms.SearchVisibleApproved(ctx, requesterID, q.Clamp())
}
