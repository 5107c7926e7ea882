package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres. Attributes live in a jsonb column;
// template names are joined in on reads.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `d.id, d.user_id, d.template_id, d.file_path, d.storage_key, d.hash, d.type, d.name, d.is_image, d.logo, d.signature, d.page_count, d.attributes, d.created_at, d.updated_at, t.name AS template_name`

// Create inserts a new document row.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	attrs, err := marshalAttributes(doc.Attributes)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO documents (id, user_id, template_id, file_path, storage_key, hash, type, name, is_image, logo, signature, page_count, attributes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())`
	_, err = r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		doc.TemplateID,
		doc.FilePath,
		doc.StorageKey,
		doc.Hash,
		doc.Type,
		doc.Name,
		doc.IsImage,
		nullableString(doc.Logo),
		nullableString(doc.Signature),
		doc.PageCount,
		attrs,
	)
	return err
}

// GetByID fetches a document scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents d
LEFT JOIN templates t ON t.id = d.template_id
WHERE d.id = $1 AND d.user_id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, documentID, userID)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// List returns the user's documents newest first, optionally filtered by type.
func (r *PGRepo) List(ctx context.Context, userID, category string) ([]Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM documents d
LEFT JOIN templates t ON t.id = d.template_id
WHERE d.user_id = $1`
	args := []any{userID}
	if category != "" {
		query += ` AND d.type = $2`
		args = append(args, category)
	}
	query += `
ORDER BY d.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Update persists the merged row. Scoped to the owner so a stale id cannot
// touch another user's document.
func (r *PGRepo) Update(ctx context.Context, doc Document) error {
	attrs, err := marshalAttributes(doc.Attributes)
	if err != nil {
		return err
	}
	const query = `
UPDATE documents
SET template_id = $1, file_path = $2, storage_key = $3, hash = $4, type = $5, name = $6, logo = $7, signature = $8, page_count = $9, attributes = $10, updated_at = now()
WHERE id = $11 AND user_id = $12`
	res, err := r.DB.ExecContext(ctx, query,
		doc.TemplateID,
		doc.FilePath,
		doc.StorageKey,
		doc.Hash,
		doc.Type,
		doc.Name,
		nullableString(doc.Logo),
		nullableString(doc.Signature),
		doc.PageCount,
		attrs,
		doc.ID,
		doc.UserID,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document row scoped to its owner.
func (r *PGRepo) Delete(ctx context.Context, userID, documentID string) error {
	const query = `DELETE FROM documents WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, documentID, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var logo sql.NullString
	var signature sql.NullString
	var pageCount sql.NullInt64
	var attrs []byte
	var templateName sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.TemplateID,
		&doc.FilePath,
		&doc.StorageKey,
		&doc.Hash,
		&doc.Type,
		&doc.Name,
		&doc.IsImage,
		&logo,
		&signature,
		&pageCount,
		&attrs,
		&doc.CreatedAt,
		&updatedAt,
		&templateName,
	)
	if err != nil {
		return Document{}, err
	}
	if logo.Valid {
		doc.Logo = logo.String
	}
	if signature.Valid {
		doc.Signature = signature.String
	}
	if pageCount.Valid {
		n := int(pageCount.Int64)
		doc.PageCount = &n
	}
	if templateName.Valid {
		doc.TemplateName = templateName.String
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	} else {
		doc.UpdatedAt = time.Now().UTC()
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &doc.Attributes); err != nil {
			return Document{}, err
		}
	}
	doc.Attributes.Normalize()
	return doc, nil
}

func marshalAttributes(a Attributes) ([]byte, error) {
	a.Normalize()
	return json.Marshal(a)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
