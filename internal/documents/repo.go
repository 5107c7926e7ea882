package documents

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "document not found" }

// Repo defines persistence operations for documents. Every read and write is
// scoped to the owning user.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, userID, documentID string) (Document, error)
	// List returns the user's documents newest first, optionally filtered by type.
	List(ctx context.Context, userID, category string) ([]Document, error)
	Update(ctx context.Context, doc Document) error
	Delete(ctx context.Context, userID, documentID string) error
}
