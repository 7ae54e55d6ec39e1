package model

import "time"

// File represents a stored file's metadata as persisted in the `files`
// table. The binary content itself lives in the object store; URL points
// at the durable public location and Locator is the object key used when
// the file has to be removed from the store again. OwnerID is immutable
// after creation: every file has exactly one owner.
//
// Fields:
//
//	ID        – primary key identifier.
//	OwnerID   – user who uploaded the file.
//	Filename  – original filename as uploaded.
//	URL       – durable object-store URL for fetching the content.
//	Locator   – object-store key used for deletion.
//	MimeType  – content type reported at upload.
//	Size      – byte size of the content.
//	CreatedAt – timestamp of upload.
type File struct {
	ID        uint64    // files.id
	OwnerID   uint64    // files.owner_id
	Filename  string    // files.filename
	URL       string    // files.url
	Locator   string    // files.locator
	MimeType  string    // files.mime_type
	Size      int64     // files.size
	CreatedAt time.Time // files.created_at
}
