package adapters

import (
	"strings"
	"testing"
)

func TestPasswordService(t *testing.T) {
	svc := NewPasswordService()

	t.Run("hash verifies against the original password", func(t *testing.T) {
		hash, err := svc.HashPassword("correct horse battery staple")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(hash, "$2") {
			t.Errorf("expected bcrypt hash, got %s", hash)
		}
		if err := svc.VerifyPassword(hash, "correct horse battery staple"); err != nil {
			t.Errorf("expected match, got %v", err)
		}
	})

	t.Run("wrong password does not verify", func(t *testing.T) {
		hash, err := svc.HashPassword("password-one")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := svc.VerifyPassword(hash, "password-two"); err == nil {
			t.Error("expected mismatch")
		}
	})

	t.Run("hashes are salted", func(t *testing.T) {
		first, err := svc.HashPassword("same password")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := svc.HashPassword("same password")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first == second {
			t.Error("expected distinct hashes for the same input")
		}
	})

	t.Run("strength check enforces the minimum length", func(t *testing.T) {
		if err := svc.ValidatePasswordStrength("short"); err == nil {
			t.Error("expected short password rejected")
		}
		if err := svc.ValidatePasswordStrength("12345678"); err != nil {
			t.Errorf("expected 8 characters accepted, got %v", err)
		}
	})
}
