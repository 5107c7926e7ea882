package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateMarshalsAttributes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	pages := 3
	doc := Document{
		ID:         "doc-1",
		UserID:     "user-1",
		TemplateID: "tpl-1",
		FilePath:   "https://cdn.example.com/doc-1.pdf",
		StorageKey: "documents/abc/invoice_1.pdf",
		Hash:       "deadbeef",
		Type:       "Invoice",
		Name:       "Faktura 01/2026",
		PageCount:  &pages,
		Attributes: Attributes{Products: []Product{{Name: "Widget", Qty: 2}}},
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.UserID,
			doc.TemplateID,
			doc.FilePath,
			doc.StorageKey,
			doc.Hash,
			doc.Type,
			doc.Name,
			false,
			nil, // logo
			nil, // signature
			sqlmock.AnyArg(), // page_count
			sqlmock.AnyArg(), // attributes jsonb
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDScopesToOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("doc-1", "other-user").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "other-user", "doc-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func documentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "template_id", "file_path", "storage_key", "hash", "type", "name",
		"is_image", "logo", "signature", "page_count", "attributes", "created_at", "updated_at", "template_name",
	})
}

func TestPGRepoListUnmarshalsAttributes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	rows := documentRows().AddRow(
		"doc-1", "user-1", "tpl-1", "https://cdn.example.com/doc-1.pdf", "documents/abc/invoice_1.pdf",
		"deadbeef", "Invoice", "Faktura 01/2026", false, nil, nil, nil,
		[]byte(`{"issuer_name":"ACME","products":[{"name":"Widget","qty":2}]}`), now, now, "Faktura VAT",
	)

	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("user-1", "Invoice").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), "user-1", "Invoice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 document, got %d", len(list))
	}
	doc := list[0]
	if doc.TemplateName != "Faktura VAT" {
		t.Fatalf("expected joined template name, got %q", doc.TemplateName)
	}
	if doc.Attributes.IssuerName == nil || *doc.Attributes.IssuerName != "ACME" {
		t.Fatalf("unexpected issuer: %v", doc.Attributes.IssuerName)
	}
	if len(doc.Attributes.Products) != 1 || doc.Attributes.Products[0].Qty != 2 {
		t.Fatalf("unexpected products: %#v", doc.Attributes.Products)
	}
	if doc.Attributes.Duties == nil {
		t.Fatalf("sequences must be normalized on read")
	}
}

func TestPGRepoUpdateReportsMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE documents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), Document{ID: "missing", UserID: "user-1"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDeleteScopesToOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("DELETE FROM documents").
		WithArgs("doc-1", "other-user").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "other-user", "doc-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
