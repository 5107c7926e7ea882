package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"paperflow-backend/internal/documents/pdfinfo"
	"paperflow-backend/internal/shared/metrics"
	"paperflow-backend/internal/shared/storage/object"
	"paperflow-backend/internal/shared/telemetry"
	"paperflow-backend/internal/shared/util"
)

var (
	// ErrInvalidInput signals a request that fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMissingFile signals a create request without a binary.
	ErrMissingFile = errors.New("file required")
)

const contentTypePDF = "application/pdf"

// Upload is an in-memory uploaded binary.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// CreateInput carries the fields of a document create request.
type CreateInput struct {
	TemplateID string
	Title      string
	Type       string
	Logo       string
	Signature  string
	Attributes Attributes
}

// Patch is a partial document update. Nil fields keep the stored value.
type Patch struct {
	TemplateID *string
	Title      *string
	Type       *string
	Logo       *string
	Signature  *string
	Attributes AttributesPatch
}

type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

func NewService(repo Repo, store object.ObjectStore) *Service {
	return &Service{Repo: repo, Store: store}
}

// Create uploads the binary, computes its digest and inserts the metadata
// row. A metadata failure after a successful upload leaves the object behind;
// there is no compensating delete.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput, file *Upload) (Document, error) {
	if file == nil || len(file.Data) == 0 {
		return Document{}, ErrMissingFile
	}
	if strings.TrimSpace(in.TemplateID) == "" || strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Type) == "" {
		return Document{}, ErrInvalidInput
	}

	key := documentKey(userID, in.Type, file)
	url, _, err := s.Store.Save(ctx, key, file.ContentType, bytes.NewReader(file.Data))
	if err != nil {
		return Document{}, fmt.Errorf("save object key=%s: %w", key, err)
	}

	doc := Document{
		ID:         uuid.NewString(),
		UserID:     userID,
		TemplateID: strings.TrimSpace(in.TemplateID),
		FilePath:   url,
		StorageKey: key,
		Hash:       util.ContentDigest(file.Data),
		Type:       strings.TrimSpace(in.Type),
		Name:       strings.TrimSpace(in.Title),
		IsImage:    file.ContentType != contentTypePDF,
		Logo:       in.Logo,
		Signature:  in.Signature,
		PageCount:  pageCountOf(file),
		Attributes: in.Attributes,
	}
	doc.Attributes.Normalize()

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	metrics.IncDocumentUploaded()
	return s.Repo.GetByID(ctx, userID, doc.ID)
}

// List returns the user's documents, optionally filtered by type.
func (s *Service) List(ctx context.Context, userID, category string) ([]Document, error) {
	return s.Repo.List(ctx, userID, strings.TrimSpace(category))
}

// Update merges the patch into the stored document. A new binary replaces the
// old object under a fresh key. Concurrent updates race with last-write-wins.
func (s *Service) Update(ctx context.Context, userID, documentID string, patch Patch, file *Upload) (Document, error) {
	doc, err := s.Repo.GetByID(ctx, userID, documentID)
	if err != nil {
		return Document{}, err
	}

	if file != nil && len(file.Data) > 0 {
		s.deleteObject(ctx, doc.StorageKey)

		key := documentKey(userID, valueOr(patch.Type, doc.Type), file)
		url, _, err := s.Store.Save(ctx, key, file.ContentType, bytes.NewReader(file.Data))
		if err != nil {
			return Document{}, fmt.Errorf("save object key=%s: %w", key, err)
		}
		doc.FilePath = url
		doc.StorageKey = key
		doc.Hash = util.ContentDigest(file.Data)
		doc.IsImage = file.ContentType != contentTypePDF
		doc.PageCount = pageCountOf(file)
	}

	if patch.TemplateID != nil {
		doc.TemplateID = strings.TrimSpace(*patch.TemplateID)
	}
	if patch.Title != nil {
		doc.Name = strings.TrimSpace(*patch.Title)
	}
	if patch.Type != nil {
		doc.Type = strings.TrimSpace(*patch.Type)
	}
	if patch.Logo != nil {
		doc.Logo = *patch.Logo
	}
	if patch.Signature != nil {
		doc.Signature = *patch.Signature
	}
	patch.Attributes.apply(&doc.Attributes)

	if err := s.Repo.Update(ctx, doc); err != nil {
		return Document{}, err
	}
	return s.Repo.GetByID(ctx, userID, documentID)
}

// Delete removes the backing object best-effort, then the metadata row.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	doc, err := s.Repo.GetByID(ctx, userID, documentID)
	if err != nil {
		return err
	}
	s.deleteObject(ctx, doc.StorageKey)
	if err := s.Repo.Delete(ctx, userID, documentID); err != nil {
		return err
	}
	metrics.IncDocumentDeleted()
	return nil
}

// UploadAsset stores a standalone binary (logo, signature image) and returns
// its public URL without creating a document row.
func (s *Service) UploadAsset(ctx context.Context, userID, field string, file *Upload) (string, error) {
	if file == nil || len(file.Data) == 0 {
		return "", ErrMissingFile
	}
	if strings.TrimSpace(field) == "" {
		return "", ErrInvalidInput
	}

	key := fmt.Sprintf("assets/%s_%s_%d%s",
		slugify(field), util.HashUserKey(userID), time.Now().UnixNano(), extensionOf(file))
	url, _, err := s.Store.Save(ctx, key, file.ContentType, bytes.NewReader(file.Data))
	if err != nil {
		return "", fmt.Errorf("save object key=%s: %w", key, err)
	}
	return url, nil
}

func (s *Service) deleteObject(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.Store.Delete(ctx, key); err != nil {
		metrics.IncObjectDeleteFailure()
		telemetry.Error("object.delete_failed", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func pageCountOf(file *Upload) *int {
	if file.ContentType != contentTypePDF {
		return nil
	}
	count, err := pdfinfo.PageCount(file.Data)
	if err != nil {
		telemetry.Error("pdf.page_count_failed", map[string]any{"error": err.Error()})
		return nil
	}
	return &count
}

func documentKey(userID, docType string, file *Upload) string {
	return fmt.Sprintf("documents/%s/%s_%d%s",
		util.HashUserKey(userID), slugify(docType), time.Now().UnixNano(), extensionOf(file))
}

// extensionOf derives the object extension from the declared content type,
// falling back to the sanitized client file name.
func extensionOf(file *Upload) string {
	if ext := extensionFor(file.ContentType); ext != "" {
		return ext
	}
	name, err := util.SanitizeFileName(file.FileName)
	if err != nil {
		return ""
	}
	return strings.ToLower(filepath.Ext(name))
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "document"
	}
	return b.String()
}

func extensionFor(contentType string) string {
	switch contentType {
	case contentTypePDF:
		return ".pdf"
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	default:
		return ""
	}
}

func valueOr(ptr *string, fallback string) string {
	if ptr != nil && strings.TrimSpace(*ptr) != "" {
		return *ptr
	}
	return fallback
}
