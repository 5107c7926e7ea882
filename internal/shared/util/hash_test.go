package util

import "testing"

func TestHashUserKeyIsStable(t *testing.T) {
	a := HashUserKey("user-1")
	b := HashUserKey("user-1")
	if a != b {
		t.Fatalf("expected stable hash, got %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == HashUserKey("user-2") {
		t.Fatalf("expected different users to hash differently")
	}
}

func TestContentDigestMatchesKnownVector(t *testing.T) {
	// sha256("") is a well-known constant.
	if got := ContentDigest(nil); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Fatalf("unexpected digest for empty input: %s", got)
	}
	if ContentDigest([]byte("a")) == ContentDigest([]byte("b")) {
		t.Fatalf("expected distinct digests")
	}
}
