package auth

import (
	"testing"
	"time"
)

func TestCodecRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret", "library-service", time.Hour, 24*time.Hour)

	token, err := codec.Issue(Claims{
		UserID:          "user-1",
		Email:           "ravi@example.com",
		Role:            "student",
		AdmissionNumber: "RBSE-2024-001",
		Board:           "RBSE",
	})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-1")
	}
	if claims.Email != "ravi@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "ravi@example.com")
	}
	if claims.Role != "student" {
		t.Errorf("Role = %q, want %q", claims.Role, "student")
	}
	if claims.AdmissionNumber != "RBSE-2024-001" {
		t.Errorf("AdmissionNumber = %q, want %q", claims.AdmissionNumber, "RBSE-2024-001")
	}
	if claims.Board != "RBSE" {
		t.Errorf("Board = %q, want %q", claims.Board, "RBSE")
	}
	if claims.Issuer != "library-service" {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, "library-service")
	}
}

func TestCodecExpiredToken(t *testing.T) {
	codec := NewCodec("test-secret", "library-service", -time.Minute, 24*time.Hour)

	token, err := codec.Issue(Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := codec.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestCodecWrongSecret(t *testing.T) {
	codec := NewCodec("test-secret", "library-service", time.Hour, 24*time.Hour)
	other := NewCodec("other-secret", "library-service", time.Hour, 24*time.Hour)

	token, err := codec.Issue(Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := other.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestCodecGarbageInput(t *testing.T) {
	codec := NewCodec("test-secret", "library-service", time.Hour, 24*time.Hour)

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := codec.Verify(input); err != ErrInvalidToken {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", input, err)
		}
	}
}

func TestCodecRefreshLifetime(t *testing.T) {
	codec := NewCodec("test-secret", "library-service", time.Hour, 48*time.Hour)

	token, err := codec.IssueRefresh(Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("IssueRefresh() error = %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != 48*time.Hour {
		t.Errorf("refresh lifetime = %v, want %v", lifetime, 48*time.Hour)
	}
}
