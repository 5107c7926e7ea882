package documents

import "time"

// Document is the metadata row behind one stored binary. FilePath carries the
// public URL handed to clients; StorageKey is the object-store key used for
// replacement and cleanup.
type Document struct {
	ID           string
	UserID       string
	TemplateID   string
	TemplateName string
	FilePath     string
	StorageKey   string
	Hash         string
	Type         string
	Name         string
	IsImage      bool
	Logo         string
	Signature    string
	PageCount    *int
	Attributes   Attributes
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
