package documents

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo keeps documents in memory. TemplateName, when set, resolves
// template ids to names the way the Postgres join does.
type MemoryRepo struct {
	mu           sync.RWMutex
	documents    map[string]Document
	TemplateName func(ctx context.Context, templateID string) (string, bool)
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{documents: make(map[string]Document)}
}

func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	doc.Attributes.Normalize()
	r.documents[doc.ID] = doc
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	doc, ok := r.documents[documentID]
	r.mu.RUnlock()
	if !ok || doc.UserID != userID {
		return Document{}, ErrNotFound
	}
	return r.withTemplateName(ctx, doc), nil
}

func (r *MemoryRepo) List(ctx context.Context, userID, category string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Document, 0)
	for _, doc := range r.documents {
		if doc.UserID != userID {
			continue
		}
		if category != "" && doc.Type != category {
			continue
		}
		out = append(out, doc)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	for i := range out {
		out[i] = r.withTemplateName(ctx, out[i])
	}
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.documents[doc.ID]
	if !ok || existing.UserID != doc.UserID {
		return ErrNotFound
	}
	doc.CreatedAt = existing.CreatedAt
	doc.UpdatedAt = time.Now().UTC()
	doc.Attributes.Normalize()
	r.documents[doc.ID] = doc
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.documents[documentID]
	if !ok || doc.UserID != userID {
		return ErrNotFound
	}
	delete(r.documents, documentID)
	return nil
}

func (r *MemoryRepo) withTemplateName(ctx context.Context, doc Document) Document {
	if r.TemplateName != nil && doc.TemplateID != "" {
		if name, ok := r.TemplateName(ctx, doc.TemplateID); ok {
			doc.TemplateName = name
		}
	}
	return doc
}

var _ Repo = (*MemoryRepo)(nil)
