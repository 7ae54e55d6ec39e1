// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrConflict signals that an operation
// cannot proceed in the current state (e.g. requesting access to
// one's own file).
package repository

import "errors"

// ErrNotFound is returned when a referenced user, file or permission
// record does not exist. Handlers should translate this into an HTTP
// 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot be performed
// because of conflicting state, such as a self-request or hiding a
// grant that is not approved. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when a signup or admin-creation collides
// with the unique index on users.email.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateRequest is returned when a second access request is made
// for the same (file, requester) pair, regardless of the first record's
// status. Backed by the compound unique index on permissions.
var ErrDuplicateRequest = errors.New("access request already exists")

// ErrProtectedUser is returned when a delete or demote targets one of
// the protected admin identities configured at startup.
var ErrProtectedUser = errors.New("user is protected")
