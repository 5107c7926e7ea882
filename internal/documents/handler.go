package documents

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"paperflow-backend/internal/shared/server/middleware"
	"paperflow-backend/internal/shared/server/respond"
)

const maxUploadBytes = 10 << 20

var allowedMimeTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"application/pdf": true,
	"image/gif":       true,
	"image/webp":      true,
	"image/bmp":       true,
}

var errDisallowedType = errors.New("disallowed file type")

// Handler wires HTTP handlers to the documents service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.create)
	rg.GET("/documents", h.list)
	rg.PUT("/documents/:id", h.update)
	rg.DELETE("/documents/:id", h.remove)
	rg.POST("/documents/upload-image", h.uploadImage)
}

func (h *Handler) create(c *gin.Context) {
	if !h.parseMultipart(c) {
		return
	}

	file, err := fileFromForm(c, "file")
	if err != nil {
		respondFileError(c, err)
		return
	}
	if file == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	templateID := c.PostForm("templateId")
	title := c.PostForm("title")
	docType := c.PostForm("type")
	if templateID == "" || title == "" || docType == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "templateId, title and type are required", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	doc, err := h.Svc.Create(c.Request.Context(), userID, CreateInput{
		TemplateID: templateID,
		Title:      title,
		Type:       docType,
		Logo:       c.PostForm("logo"),
		Signature:  c.PostForm("signature"),
		Attributes: attributesFromForm(c),
	}, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFile), errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid document input", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save document", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"document": toResponse(doc)})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	docs, err := h.Svc.List(c.Request.Context(), userID, c.Query("category"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}
	respond.JSON(c, http.StatusOK, toResponses(docs))
}

func (h *Handler) update(c *gin.Context) {
	if !h.parseMultipart(c) {
		return
	}

	file, err := fileFromForm(c, "file")
	if err != nil {
		respondFileError(c, err)
		return
	}

	patch := Patch{
		TemplateID: formValue(c, "templateId"),
		Title:      formValue(c, "title"),
		Type:       formValue(c, "type"),
		Logo:       formValue(c, "logo"),
		Signature:  formValue(c, "signature"),
		Attributes: attributesPatchFromForm(c),
	}

	userID := middleware.UserIDFromContext(c)
	doc, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), patch, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found or not permitted", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update document", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"document": toResponse(doc)})
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found or not permitted", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete document", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"message": "document deleted"})
}

func (h *Handler) uploadImage(c *gin.Context) {
	if !h.parseMultipart(c) {
		return
	}

	file, err := fileFromForm(c, "image")
	if err != nil {
		respondFileError(c, err)
		return
	}
	if file == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "image file is required", nil)
		return
	}
	field := c.PostForm("field")
	if field == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "field is required", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	url, err := h.Svc.UploadAsset(c.Request.Context(), userID, field, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFile), errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid asset input", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload asset", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"url": url})
}

// parseMultipart enforces the size cap before any form field is touched, so
// an oversized upload never reaches the service or the metadata store.
func (h *Handler) parseMultipart(c *gin.Context) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "file exceeds the 10 MB limit", nil)
			return false
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart payload", nil)
		return false
	}
	return true
}

func fileFromForm(c *gin.Context, field string) (*Upload, error) {
	form := c.Request.MultipartForm
	if form == nil || len(form.File[field]) == 0 {
		return nil, nil
	}
	header := form.File[field][0]

	contentType := header.Header.Get("Content-Type")
	if !allowedMimeTypes[contentType] {
		return nil, errDisallowedType
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &Upload{
		FileName:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func respondFileError(c *gin.Context, err error) {
	if errors.Is(err, errDisallowedType) {
		respond.Error(c, http.StatusBadRequest, "invalid_file_type", "allowed types: PNG, JPEG, JPG, PDF, GIF, WebP, BMP", nil)
		return
	}
	respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read uploaded file", nil)
}

func formValue(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

func attributesFromForm(c *gin.Context) Attributes {
	attrs := Attributes{
		IssuerName:    formValue(c, "issuer_name"),
		IssuerAddress: formValue(c, "issuer_address"),
		IssuerTaxID:   formValue(c, "issuer_tax_id"),
		ClientName:    formValue(c, "client_name"),
		ClientAddress: formValue(c, "client_address"),
		ClientTaxID:   formValue(c, "client_tax_id"),
		IssueDate:     formValue(c, "issue_date"),
		DueDate:       formValue(c, "due_date"),
		PlaceOfIssue:  formValue(c, "place_of_issue"),
		PaymentMethod: formValue(c, "payment_method"),
		BankAccount:   formValue(c, "bank_account"),
		NetTotal:      formValue(c, "net_total"),
		TaxRate:       formValue(c, "tax_rate"),
		TaxAmount:     formValue(c, "tax_amount"),
		GrossTotal:    formValue(c, "gross_total"),
		Notes:         formValue(c, "notes"),
	}
	if raw, ok := c.GetPostForm("products"); ok {
		attrs.Products = ParseProducts(raw)
	}
	if raw, ok := c.GetPostForm("duties"); ok {
		attrs.Duties = ParseDuties(raw)
	}
	if raw, ok := c.GetPostForm("offers"); ok {
		attrs.Offers = ParseOffers(raw)
	}
	return attrs
}

func attributesPatchFromForm(c *gin.Context) AttributesPatch {
	patch := AttributesPatch{
		IssuerName:    formValue(c, "issuer_name"),
		IssuerAddress: formValue(c, "issuer_address"),
		IssuerTaxID:   formValue(c, "issuer_tax_id"),
		ClientName:    formValue(c, "client_name"),
		ClientAddress: formValue(c, "client_address"),
		ClientTaxID:   formValue(c, "client_tax_id"),
		IssueDate:     formValue(c, "issue_date"),
		DueDate:       formValue(c, "due_date"),
		PlaceOfIssue:  formValue(c, "place_of_issue"),
		PaymentMethod: formValue(c, "payment_method"),
		BankAccount:   formValue(c, "bank_account"),
		NetTotal:      formValue(c, "net_total"),
		TaxRate:       formValue(c, "tax_rate"),
		TaxAmount:     formValue(c, "tax_amount"),
		GrossTotal:    formValue(c, "gross_total"),
		Notes:         formValue(c, "notes"),
	}
	if raw, ok := c.GetPostForm("products"); ok {
		v := ParseProducts(raw)
		patch.Products = &v
	}
	if raw, ok := c.GetPostForm("duties"); ok {
		v := ParseDuties(raw)
		patch.Duties = &v
	}
	if raw, ok := c.GetPostForm("offers"); ok {
		v := ParseOffers(raw)
		patch.Offers = &v
	}
	return patch
}
