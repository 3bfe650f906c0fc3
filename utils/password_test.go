package utils

import "testing"

func TestHashPasswordProducesDistinctVerifiableHashes(t *testing.T) {
	first, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	second, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if first == second {
		t.Fatalf("expected salted hashes to differ")
	}
	if !CheckPassword(first, "password123") {
		t.Fatalf("expected first hash to verify")
	}
	if !CheckPassword(second, "password123") {
		t.Fatalf("expected second hash to verify")
	}
}

func TestCheckPasswordRejectsWrongPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if CheckPassword(hash, "password124") {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	if CheckPassword("not-a-bcrypt-hash", "password123") {
		t.Fatalf("expected malformed hash to fail verification")
	}
	if CheckPassword("", "password123") {
		t.Fatalf("expected empty hash to fail verification")
	}
}
