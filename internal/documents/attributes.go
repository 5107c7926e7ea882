package documents

import (
	"encoding/json"
	"strings"
)

// Product is one line item on an invoice or offer.
type Product struct {
	Name      string  `json:"name"`
	Qty       float64 `json:"qty"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unit_price"`
	TaxRate   string  `json:"tax_rate"`
	Total     float64 `json:"total"`
}

// Offer is one position on an offer document.
type Offer struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Attributes holds the optional business fields of a document. Scalars are
// pointers so an unset field serializes as null; sequences serialize as []
// when empty so the response shape stays stable.
type Attributes struct {
	IssuerName    *string   `json:"issuer_name"`
	IssuerAddress *string   `json:"issuer_address"`
	IssuerTaxID   *string   `json:"issuer_tax_id"`
	ClientName    *string   `json:"client_name"`
	ClientAddress *string   `json:"client_address"`
	ClientTaxID   *string   `json:"client_tax_id"`
	IssueDate     *string   `json:"issue_date"`
	DueDate       *string   `json:"due_date"`
	PlaceOfIssue  *string   `json:"place_of_issue"`
	PaymentMethod *string   `json:"payment_method"`
	BankAccount   *string   `json:"bank_account"`
	NetTotal      *string   `json:"net_total"`
	TaxRate       *string   `json:"tax_rate"`
	TaxAmount     *string   `json:"tax_amount"`
	GrossTotal    *string   `json:"gross_total"`
	Notes         *string   `json:"notes"`
	Products      []Product `json:"products"`
	Duties        []string  `json:"duties"`
	Offers        []Offer   `json:"offers"`
}

// Normalize replaces nil sequences with empty ones.
func (a *Attributes) Normalize() {
	if a.Products == nil {
		a.Products = []Product{}
	}
	if a.Duties == nil {
		a.Duties = []string{}
	}
	if a.Offers == nil {
		a.Offers = []Offer{}
	}
}

// AttributesPatch is a partial update of Attributes. A nil field keeps the
// stored value; a non-nil field overrides it.
type AttributesPatch struct {
	IssuerName    *string
	IssuerAddress *string
	IssuerTaxID   *string
	ClientName    *string
	ClientAddress *string
	ClientTaxID   *string
	IssueDate     *string
	DueDate       *string
	PlaceOfIssue  *string
	PaymentMethod *string
	BankAccount   *string
	NetTotal      *string
	TaxRate       *string
	TaxAmount     *string
	GrossTotal    *string
	Notes         *string
	Products      *[]Product
	Duties        *[]string
	Offers        *[]Offer
}

func (p AttributesPatch) apply(a *Attributes) {
	if p.IssuerName != nil {
		a.IssuerName = p.IssuerName
	}
	if p.IssuerAddress != nil {
		a.IssuerAddress = p.IssuerAddress
	}
	if p.IssuerTaxID != nil {
		a.IssuerTaxID = p.IssuerTaxID
	}
	if p.ClientName != nil {
		a.ClientName = p.ClientName
	}
	if p.ClientAddress != nil {
		a.ClientAddress = p.ClientAddress
	}
	if p.ClientTaxID != nil {
		a.ClientTaxID = p.ClientTaxID
	}
	if p.IssueDate != nil {
		a.IssueDate = p.IssueDate
	}
	if p.DueDate != nil {
		a.DueDate = p.DueDate
	}
	if p.PlaceOfIssue != nil {
		a.PlaceOfIssue = p.PlaceOfIssue
	}
	if p.PaymentMethod != nil {
		a.PaymentMethod = p.PaymentMethod
	}
	if p.BankAccount != nil {
		a.BankAccount = p.BankAccount
	}
	if p.NetTotal != nil {
		a.NetTotal = p.NetTotal
	}
	if p.TaxRate != nil {
		a.TaxRate = p.TaxRate
	}
	if p.TaxAmount != nil {
		a.TaxAmount = p.TaxAmount
	}
	if p.GrossTotal != nil {
		a.GrossTotal = p.GrossTotal
	}
	if p.Notes != nil {
		a.Notes = p.Notes
	}
	if p.Products != nil {
		a.Products = *p.Products
	}
	if p.Duties != nil {
		a.Duties = *p.Duties
	}
	if p.Offers != nil {
		a.Offers = *p.Offers
	}
}

// parseJSONList decodes a serialized sequence field. Malformed input degrades
// to an empty sequence instead of failing the request.
func parseJSONList[T any](raw string) []T {
	if strings.TrimSpace(raw) == "" {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []T{}
	}
	return out
}

// ParseProducts decodes a serialized product list leniently.
func ParseProducts(raw string) []Product { return parseJSONList[Product](raw) }

// ParseDuties decodes a serialized duty list leniently.
func ParseDuties(raw string) []string { return parseJSONList[string](raw) }

// ParseOffers decodes a serialized offer list leniently.
func ParseOffers(raw string) []Offer { return parseJSONList[Offer](raw) }
