// Package models defines server-side data models persisted in the database.
package models

// FileRecord links a user to an uploaded filename. The bytes live in the
// blob store; there is no uniqueness on (UserID, Filename), so re-uploads
// add another record.
type FileRecord struct {
	ID       int64
	UserID   int64
	Filename string
}

// Upload is one file received at the upload boundary.
type Upload struct {
	// Name is the client-declared filename.
	Name string
	// ContentType is advisory; it only influences preview classification.
	ContentType string
	Data        []byte
}
