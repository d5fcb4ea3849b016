package auth

import (
	"strings"
	"testing"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := Sign("user-1", StatusVerified)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %q", claims.Subject)
	}
	if claims.Status != StatusVerified {
		t.Fatalf("expected status verified, got %q", claims.Status)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := Sign("user-1", "unverified")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + ".AAAA"

	if _, err := Verify(tampered); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := Sign("user-1", StatusVerified)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	t.Setenv("JWT_SECRET", "second-secret")
	if _, err := Verify(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestSignRequiresUserID(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	if _, err := Sign("", StatusVerified); err == nil {
		t.Fatal("expected error for empty user id")
	}
}
