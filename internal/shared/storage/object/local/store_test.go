package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store := New(t.TempDir(), "http://localhost:8080/files")
	ctx := context.Background()

	url, size, err := store.Save(ctx, "documents/u1/invoice_1.pdf", "application/pdf", strings.NewReader("pdf-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("pdf-bytes")) {
		t.Fatalf("expected size %d, got %d", len("pdf-bytes"), size)
	}
	if url != "http://localhost:8080/files/documents/u1/invoice_1.pdf" {
		t.Fatalf("unexpected url %q", url)
	}

	rc, err := store.Open(ctx, "documents/u1/invoice_1.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "pdf-bytes" {
		t.Fatalf("unexpected contents %q", data)
	}

	if err := store.Delete(ctx, "documents/u1/invoice_1.pdf"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, "documents/u1/invoice_1.pdf"); err == nil {
		t.Fatalf("expected open to fail after delete")
	}

	// Second delete is a no-op.
	if err := store.Delete(ctx, "documents/u1/invoice_1.pdf"); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store := New(t.TempDir(), "http://localhost:8080/files")
	ctx := context.Background()

	if _, _, err := store.Save(ctx, "../escape.txt", "text/plain", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error for traversal key")
	}
	if _, err := store.Open(ctx, "/etc/passwd"); err == nil {
		t.Fatalf("expected error for absolute key")
	}
}
