package models

// File is a generic attachment record referenced by bugs and step runs.
// StoredName is the uuid-based name under the attachment directory;
// Filename is the name the user supplied.
type File struct {
	Audited
	EnvironmentID int64
	OwnerType     string
	Filename      string
	StoredName    string
	Path          string
	MimeType      string
	SizeBytes     int64
}
