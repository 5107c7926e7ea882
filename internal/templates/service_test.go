package templates

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateRequiresAllFields(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	cases := []CreateInput{
		{Name: "", Category: "invoice", Content: "<html/>"},
		{Name: "Faktura", Category: " ", Content: "<html/>"},
		{Name: "Faktura", Category: "invoice", Content: "  "},
	}
	for _, in := range cases {
		if _, err := svc.Create(ctx, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestCreateAndGet(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Faktura VAT", Category: "invoice", Content: "<html/>"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated template id")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Faktura VAT" || got.Content != "<html/>" {
		t.Fatalf("unexpected template: %+v", got)
	}
}

func TestGetMissingTemplate(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFiltersByCategoryNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	base := time.Now().UTC()
	seed := []Template{
		{ID: "t1", Name: "Old invoice", Category: "invoice", Content: "a", CreatedAt: base.Add(-2 * time.Hour)},
		{ID: "t2", Name: "New invoice", Category: "invoice", Content: "b", CreatedAt: base},
		{ID: "t3", Name: "Offer", Category: "offer", Content: "c", CreatedAt: base.Add(-time.Hour)},
	}
	for _, tpl := range seed {
		if err := repo.Create(ctx, tpl); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	invoices, err := svc.List(ctx, "invoice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(invoices) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(invoices))
	}
	if invoices[0].ID != "t2" || invoices[1].ID != "t1" {
		t.Fatalf("expected newest first, got %s then %s", invoices[0].ID, invoices[1].ID)
	}

	all, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(all))
	}
}
