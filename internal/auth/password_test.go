package auth

import "testing"

func TestHashPasswordIsStable(t *testing.T) {
	a := HashPassword("s3cret")
	b := HashPassword("s3cret")
	if a != b {
		t.Fatalf("hash not deterministic: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("hash length = %d, want 64 hex chars", len(a))
	}
	if a == HashPassword("other") {
		t.Fatalf("different passwords must not collide trivially")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash := HashPassword("s3cret")
	if !VerifyPassword("s3cret", hash) {
		t.Fatalf("VerifyPassword rejected correct password")
	}
	if VerifyPassword("wrong", hash) {
		t.Fatalf("VerifyPassword accepted wrong password")
	}
}
