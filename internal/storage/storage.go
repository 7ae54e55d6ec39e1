// Package storage abstracts the object store holding uploaded file
// blobs. Handlers talk to the Provider interface; the S3 implementation
// lives alongside it. File metadata stays in MySQL, only the bytes live
// in the object store.
package storage

import "context"

// ObjectClass namespaces stored objects by content kind. Image uploads
// land under image/, everything else under raw/. The class must be
// remembered with the locator to delete the object later.
type ObjectClass string

const (
	ClassRaw   ObjectClass = "raw"
	ClassImage ObjectClass = "image"
)

// ClassForMime maps an upload's MIME type to its object class.
func ClassForMime(mimeType string) ObjectClass {
	if len(mimeType) >= 6 && mimeType[:6] == "image/" {
		return ClassImage
	}
	return ClassRaw
}

// StoredObject describes a blob after a successful upload.
type StoredObject struct {
	// URL is the public address clients download from.
	URL string
	// Locator identifies the object inside the store for deletion.
	Locator string
}

// Provider stores and deletes file blobs.
type Provider interface {
	// Store uploads the blob and returns its public URL and locator.
	// filename is advisory only (original name, used for the key suffix).
	Store(ctx context.Context, blob []byte, filename string, class ObjectClass) (StoredObject, error)
	// Delete removes the object. Idempotent: deleting an absent object
	// is not an error.
	Delete(ctx context.Context, locator string, class ObjectClass) error
}
