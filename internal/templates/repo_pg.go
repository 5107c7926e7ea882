package templates

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new template row.
func (r *PGRepo) Create(ctx context.Context, tpl Template) error {
	const query = `
INSERT INTO templates (id, name, category, content, created_at)
VALUES ($1, $2, $3, $4, now())`
	_, err := r.DB.ExecContext(ctx, query, tpl.ID, tpl.Name, tpl.Category, tpl.Content)
	return err
}

// GetByID fetches a template by id.
func (r *PGRepo) GetByID(ctx context.Context, templateID string) (Template, error) {
	const query = `
SELECT id, name, category, content, created_at
FROM templates
WHERE id = $1
LIMIT 1`
	var tpl Template
	err := r.DB.QueryRowContext(ctx, query, templateID).Scan(
		&tpl.ID,
		&tpl.Name,
		&tpl.Category,
		&tpl.Content,
		&tpl.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Template{}, ErrNotFound
		}
		return Template{}, err
	}
	return tpl, nil
}

// List returns templates newest first, optionally filtered by category.
func (r *PGRepo) List(ctx context.Context, category string) ([]Template, error) {
	query := `
SELECT id, name, category, content, created_at
FROM templates`
	args := []any{}
	if category != "" {
		query += `
WHERE category = $1`
		args = append(args, category)
	}
	query += `
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Template, 0)
	for rows.Next() {
		var tpl Template
		if err := rows.Scan(&tpl.ID, &tpl.Name, &tpl.Category, &tpl.Content, &tpl.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
