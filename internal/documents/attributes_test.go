package documents

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseProductsLeniently(t *testing.T) {
	products := ParseProducts(`[{"name":"Widget","qty":2}]`)
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	if products[0].Name != "Widget" || products[0].Qty != 2 {
		t.Fatalf("unexpected product: %+v", products[0])
	}

	// Malformed input degrades to an empty sequence, never an error.
	for _, raw := range []string{"", "   ", "{broken", `"just a string"`, "null"} {
		if got := ParseProducts(raw); got == nil || len(got) != 0 {
			t.Fatalf("expected empty slice for %q, got %#v", raw, got)
		}
	}
}

func TestParseDutiesAndOffers(t *testing.T) {
	duties := ParseDuties(`["deliver on time","provide warranty"]`)
	if len(duties) != 2 || duties[1] != "provide warranty" {
		t.Fatalf("unexpected duties: %#v", duties)
	}

	offers := ParseOffers(`[{"title":"Basic","price":99.5}]`)
	if len(offers) != 1 || offers[0].Price != 99.5 {
		t.Fatalf("unexpected offers: %#v", offers)
	}

	if got := ParseOffers("not json"); len(got) != 0 {
		t.Fatalf("expected empty offers, got %#v", got)
	}
}

func TestEmptyPatchIsNoOp(t *testing.T) {
	issuer := "ACME Sp. z o.o."
	attrs := Attributes{
		IssuerName: &issuer,
		Products:   []Product{{Name: "Widget", Qty: 2}},
		Duties:     []string{"deliver"},
	}
	before, err := json.Marshal(attrs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	AttributesPatch{}.apply(&attrs)

	after, err := json.Marshal(attrs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("empty patch changed attributes:\n%s\n%s", before, after)
	}
}

func TestPatchOverridesOnlyPresentFields(t *testing.T) {
	issuer := "ACME"
	client := "Client A"
	attrs := Attributes{
		IssuerName: &issuer,
		ClientName: &client,
		Products:   []Product{{Name: "Widget", Qty: 2}},
	}

	newClient := "Client B"
	empty := []Product{}
	AttributesPatch{ClientName: &newClient, Products: &empty}.apply(&attrs)

	if attrs.IssuerName == nil || *attrs.IssuerName != "ACME" {
		t.Fatalf("issuer should be untouched, got %v", attrs.IssuerName)
	}
	if attrs.ClientName == nil || *attrs.ClientName != "Client B" {
		t.Fatalf("client should be overridden, got %v", attrs.ClientName)
	}
	if len(attrs.Products) != 0 {
		t.Fatalf("products should be replaced with empty, got %#v", attrs.Products)
	}
}

func TestAttributesSerializeWithStableShape(t *testing.T) {
	var attrs Attributes
	attrs.Normalize()

	raw, err := json.Marshal(attrs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(raw)

	// Unset scalars are null, sequences are empty arrays.
	if !strings.Contains(s, `"issuer_name":null`) {
		t.Fatalf("expected null issuer_name in %s", s)
	}
	if !strings.Contains(s, `"products":[]`) || !strings.Contains(s, `"duties":[]`) || !strings.Contains(s, `"offers":[]`) {
		t.Fatalf("expected empty sequences in %s", s)
	}
}
