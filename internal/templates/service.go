package templates

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidInput signals a template that fails validation.
var ErrInvalidInput = errors.New("invalid input")

// CreateInput carries the fields accepted when saving a template.
type CreateInput struct {
	Name     string
	Category string
	Content  string
}

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Create validates and stores a new template.
func (s *Service) Create(ctx context.Context, in CreateInput) (Template, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" || in.Category == "" || strings.TrimSpace(in.Content) == "" {
		return Template{}, ErrInvalidInput
	}

	tpl := Template{
		ID:       uuid.NewString(),
		Name:     in.Name,
		Category: in.Category,
		Content:  in.Content,
	}
	if err := s.Repo.Create(ctx, tpl); err != nil {
		return Template{}, err
	}
	return s.Repo.GetByID(ctx, tpl.ID)
}

// Get fetches a template by id.
func (s *Service) Get(ctx context.Context, templateID string) (Template, error) {
	if strings.TrimSpace(templateID) == "" {
		return Template{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, templateID)
}

// List returns templates newest first, optionally filtered by category.
func (s *Service) List(ctx context.Context, category string) ([]Template, error) {
	return s.Repo.List(ctx, strings.TrimSpace(category))
}
