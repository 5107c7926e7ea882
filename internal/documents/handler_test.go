package documents_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"

	"paperflow-backend/internal/documents"
	"paperflow-backend/internal/shared/storage/object/local"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := local.New(t.TempDir(), "http://localhost:8080/files")
	svc := documents.NewService(documents.NewMemoryRepo(), store)
	handler := documents.NewHandler(svc)

	router := gin.New()
	api := router.Group("/api")
	api.Use(func(c *gin.Context) {
		user := c.GetHeader("X-Test-User")
		if user == "" {
			user = "user-1"
		}
		c.Set("userId", user)
		c.Next()
	})
	handler.RegisterRoutes(api)
	return router
}

type formFile struct {
	field       string
	name        string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, file *formFile) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if file != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, file.field, file.name))
		header.Set("Content-Type", file.contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(file.data); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func doUpload(t *testing.T, router *gin.Engine, method, path string, fields map[string]string, file *formFile, user string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, file)
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func pdfFile(data string) *formFile {
	return &formFile{field: "file", name: "doc.pdf", contentType: "application/pdf", data: []byte(data)}
}

func createFields() map[string]string {
	return map[string]string{
		"templateId": "tpl-1",
		"title":      "Faktura 01/2026",
		"type":       "Invoice",
	}
}

func decodeDocument(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload struct {
		Document map[string]any `json:"document"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload.Document
}

func TestCreateDocumentFlattensAttributes(t *testing.T) {
	router := newTestRouter(t)

	fields := createFields()
	fields["products"] = `[{"name":"Widget","qty":2}]`
	fields["issuer_name"] = "ACME Sp. z o.o."
	resp := doUpload(t, router, http.MethodPost, "/api/documents", fields, pdfFile("%PDF-1.4 v1"), "")

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	doc := decodeDocument(t, resp)
	if doc["url"] == "" || doc["url"] != doc["file_path"] {
		t.Fatalf("expected url alias of file_path, got %v / %v", doc["url"], doc["file_path"])
	}
	if doc["issuer_name"] != "ACME Sp. z o.o." {
		t.Fatalf("expected flattened issuer_name, got %v", doc["issuer_name"])
	}
	if doc["client_name"] != nil {
		t.Fatalf("unset scalar must be null, got %v", doc["client_name"])
	}
	products, ok := doc["products"].([]any)
	if !ok || len(products) != 1 {
		t.Fatalf("expected one product, got %v", doc["products"])
	}
	if duties, ok := doc["duties"].([]any); !ok || len(duties) != 0 {
		t.Fatalf("expected empty duties array, got %v", doc["duties"])
	}
}

func TestCreateDocumentValidation(t *testing.T) {
	router := newTestRouter(t)

	// No file.
	resp := doUpload(t, router, http.MethodPost, "/api/documents", createFields(), nil, "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing file, got %d", resp.Code)
	}

	// Missing required fields.
	resp = doUpload(t, router, http.MethodPost, "/api/documents",
		map[string]string{"title": "x"}, pdfFile("%PDF"), "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", resp.Code)
	}

	// Disallowed MIME type.
	bad := &formFile{field: "file", name: "doc.txt", contentType: "text/plain", data: []byte("hi")}
	resp = doUpload(t, router, http.MethodPost, "/api/documents", createFields(), bad, "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for disallowed type, got %d", resp.Code)
	}
}

func TestCreateDocumentRejectsOversizedUpload(t *testing.T) {
	router := newTestRouter(t)

	big := make([]byte, 11<<20)
	resp := doUpload(t, router, http.MethodPost, "/api/documents", createFields(), pdfFile(string(big)), "")
	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.Code)
	}

	// Nothing reached the metadata store.
	listResp := httptest.NewRecorder()
	router.ServeHTTP(listResp, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	if listResp.Code != http.StatusOK || listResp.Body.String() != "[]" {
		t.Fatalf("expected empty list, got %d %s", listResp.Code, listResp.Body.String())
	}
}

func TestUpdateDocumentMergesFields(t *testing.T) {
	router := newTestRouter(t)

	fields := createFields()
	fields["products"] = `[{"name":"Widget","qty":2}]`
	created := decodeDocument(t, doUpload(t, router, http.MethodPost, "/api/documents", fields, pdfFile("v1"), ""))
	id := created["id"].(string)

	resp := doUpload(t, router, http.MethodPut, "/api/documents/"+id,
		map[string]string{"title": "Faktura 02/2026"}, nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	updated := decodeDocument(t, resp)
	if updated["name"] != "Faktura 02/2026" {
		t.Fatalf("expected patched title, got %v", updated["name"])
	}
	if updated["type"] != "Invoice" || updated["hash"] != created["hash"] {
		t.Fatalf("unpatched fields changed: %v", updated)
	}
	if products, ok := updated["products"].([]any); !ok || len(products) != 1 {
		t.Fatalf("products must survive the patch, got %v", updated["products"])
	}
}

func TestUpdateForeignDocumentReturnsNotFound(t *testing.T) {
	router := newTestRouter(t)

	created := decodeDocument(t, doUpload(t, router, http.MethodPost, "/api/documents", createFields(), pdfFile("v1"), ""))
	id := created["id"].(string)

	resp := doUpload(t, router, http.MethodPut, "/api/documents/"+id,
		map[string]string{"title": "hijack"}, nil, "user-2")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign update, got %d", resp.Code)
	}
}

func TestDeleteDocument(t *testing.T) {
	router := newTestRouter(t)

	created := decodeDocument(t, doUpload(t, router, http.MethodPost, "/api/documents", createFields(), pdfFile("v1"), ""))
	id := created["id"].(string)

	// A foreign user cannot delete it.
	req := httptest.NewRequest(http.MethodDelete, "/api/documents/"+id, nil)
	req.Header.Set("X-Test-User", "user-2")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign delete, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/documents/"+id, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/documents/"+id, nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}

func TestUploadImageReturnsURL(t *testing.T) {
	router := newTestRouter(t)

	img := &formFile{field: "image", name: "sig.png", contentType: "image/png", data: []byte("png-bytes")}
	resp := doUpload(t, router, http.MethodPost, "/api/documents/upload-image",
		map[string]string{"field": "signature"}, img, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.URL == "" {
		t.Fatalf("expected asset url")
	}

	// Missing field name.
	resp = doUpload(t, router, http.MethodPost, "/api/documents/upload-image", nil, img, "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing field, got %d", resp.Code)
	}
}
