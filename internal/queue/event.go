// Package queue defines message payloads exchanged over the message broker.
package queue

// ShareActivityEvent is published whenever the sharing state of a file
// changes: a grant is requested, approved, rejected, revoked, or the
// file itself is deleted. It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type ShareActivityEvent struct {
	Kind        string `json:"kind"` // requested|approved|rejected|revoked|file_deleted
	FileID      uint64 `json:"file_id"`
	Filename    string `json:"filename"`
	OwnerID     uint64 `json:"owner_id"`
	RequesterID uint64 `json:"requester_id,omitempty"`
	Access      string `json:"access,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}

// Event kinds.
const (
	KindRequested   = "requested"
	KindApproved    = "approved"
	KindRejected    = "rejected"
	KindRevoked     = "revoked"
	KindFileDeleted = "file_deleted"
)
