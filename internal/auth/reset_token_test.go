package auth

import "testing"

func TestNewResetToken(t *testing.T) {
	raw, hash, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken() error = %v", err)
	}
	if len(raw) != 64 {
		t.Errorf("raw token length = %d, want 64", len(raw))
	}
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64", len(hash))
	}
	if raw == hash {
		t.Error("raw token equals its hash")
	}
	if HashResetToken(raw) != hash {
		t.Error("HashResetToken(raw) does not match returned hash")
	}

	raw2, _, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken() error = %v", err)
	}
	if raw == raw2 {
		t.Error("two generated tokens are identical")
	}
}
