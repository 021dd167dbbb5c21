package auth

import (
	"testing"
	"time"
)

func newTestManager(ttl time.Duration) *TokenManager {
	return NewTokenManager([]byte("test-secret"), "metrics-dashboard-test", ttl)
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	manager := newTestManager(time.Hour)

	token, err := manager.Issue(42, "alice", RoleAdmin)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %s, want alice", claims.Username)
	}
	if claims.Role != RoleAdmin {
		t.Errorf("Role = %s, want %s", claims.Role, RoleAdmin)
	}
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	manager := newTestManager(time.Minute)

	token, err := manager.Issue(1, "bob", RoleUser)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	// Move the validation clock past the expiry.
	manager.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := manager.Validate(token); err == nil {
		t.Fatal("expected expired token to fail validation")
	}
}

func TestTokenManager_RejectsTamperedToken(t *testing.T) {
	manager := newTestManager(time.Hour)

	token, err := manager.Issue(1, "bob", RoleUser)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := manager.Validate(tampered); err == nil {
		t.Fatal("expected tampered token to fail validation")
	}
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	token, err := newTestManager(time.Hour).Issue(1, "bob", RoleUser)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	other := NewTokenManager([]byte("different-secret"), "metrics-dashboard-test", time.Hour)
	if _, err := other.Validate(token); err == nil {
		t.Fatal("expected token signed with another secret to fail validation")
	}
}

func TestTokenManager_RejectsWrongIssuer(t *testing.T) {
	foreign := NewTokenManager([]byte("test-secret"), "someone-else", time.Hour)
	token, err := foreign.Issue(1, "bob", RoleUser)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	if _, err := newTestManager(time.Hour).Validate(token); err == nil {
		t.Fatal("expected token with wrong issuer to fail validation")
	}
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	manager := newTestManager(time.Hour)
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := manager.Validate(tok); err == nil {
			t.Errorf("Validate(%q) succeeded, want error", tok)
		}
	}
}
