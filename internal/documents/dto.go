package documents

import "time"

// Response is the client-facing shape of a document: the row enriched with a
// url alias and the attribute fields flattened to top level.
type Response struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	TemplateID   string    `json:"template_id"`
	TemplateName *string   `json:"template_name"`
	FilePath     string    `json:"file_path"`
	URL          string    `json:"url"`
	Hash         string    `json:"hash"`
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	IsImage      bool      `json:"is_image"`
	Logo         *string   `json:"logo"`
	Signature    *string   `json:"signature"`
	PageCount    *int      `json:"page_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Attributes
}

func toResponse(doc Document) Response {
	doc.Attributes.Normalize()
	return Response{
		ID:           doc.ID,
		UserID:       doc.UserID,
		TemplateID:   doc.TemplateID,
		TemplateName: optionalString(doc.TemplateName),
		FilePath:     doc.FilePath,
		URL:          doc.FilePath,
		Hash:         doc.Hash,
		Type:         doc.Type,
		Name:         doc.Name,
		IsImage:      doc.IsImage,
		Logo:         optionalString(doc.Logo),
		Signature:    optionalString(doc.Signature),
		PageCount:    doc.PageCount,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
		Attributes:   doc.Attributes,
	}
}

func toResponses(docs []Document) []Response {
	out := make([]Response, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toResponse(doc))
	}
	return out
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
