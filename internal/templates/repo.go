package templates

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "template not found" }

// Repo defines persistence operations for templates.
type Repo interface {
	Create(ctx context.Context, tpl Template) error
	GetByID(ctx context.Context, templateID string) (Template, error)
	// List returns templates newest first, optionally filtered by category.
	List(ctx context.Context, category string) ([]Template, error)
}
