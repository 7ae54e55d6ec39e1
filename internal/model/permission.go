package model

import "time"

// Access levels a grant can carry. View permits read-only operations
// (metadata view, content streaming); edit additionally permits write
// operations (delete).
const (
	AccessView = "view"
	AccessEdit = "edit"
)

// Grant lifecycle states. A record starts pending, is moved to approved
// or rejected by the file owner, and disappears entirely on revoke or
// when its file is deleted. Rejected has no outgoing transition.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Permission is an access-grant record between a file, its owner and a
// requester, stored in the `permissions` table. OwnerID is copied from
// the file at request time. At most one record exists per
// (file, requester) pair; the table carries a compound unique index so
// the invariant holds even under concurrent requests.
//
// Fields:
//
//	ID          – primary key identifier.
//	FileID      – file the grant refers to.
//	OwnerID     – owner of the file at request time.
//	RequesterID – user asking for access.
//	Access      – "view" or "edit".
//	Status      – "pending", "approved" or "rejected".
//	Hidden      – requester-side display suppression; never affects access.
//	CreatedAt   – timestamp of the request.
type Permission struct {
	ID          uint64    // permissions.id
	FileID      uint64    // permissions.file_id
	OwnerID     uint64    // permissions.owner_id
	RequesterID uint64    // permissions.requester_id
	Access      string    // permissions.access
	Status      string    // permissions.status
	Hidden      bool      // permissions.hidden
	CreatedAt   time.Time // permissions.created_at
}

// NormalizeAccess maps an arbitrary requested level onto a valid one.
// Only the exact string "edit" yields edit; everything else falls back
// to view, so an unknown value can never widen access.
func NormalizeAccess(access string) string {
	if access == AccessEdit {
		return AccessEdit
	}
	return AccessView
}
