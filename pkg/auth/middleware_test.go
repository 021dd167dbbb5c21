package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func authedRequest(t *testing.T, manager *TokenManager, userID int64, username, role string) *http.Request {
	t.Helper()
	token, err := manager.Issue(userID, username, role)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestMiddleware_RequireAuth(t *testing.T) {
	manager := newTestManager(time.Hour)
	mw := NewMiddleware(manager, zap.NewNop())

	var gotUserID int64
	var gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFromContext(r.Context())
		gotRole, _ = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := mw.RequireAuth(next)

	// Valid token passes through with claims in context.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, manager, 7, "alice", RoleUser))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != 7 || gotRole != RoleUser {
		t.Errorf("context claims = (%d, %s), want (7, %s)", gotUserID, gotRole, RoleUser)
	}

	// Missing header is rejected.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status without token = %d, want 401", rec.Code)
	}

	// Garbage token is rejected.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status with garbage token = %d, want 401", rec.Code)
	}
}

func TestMiddleware_RequireAdmin(t *testing.T) {
	manager := newTestManager(time.Hour)
	mw := NewMiddleware(manager, zap.NewNop())

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := mw.RequireAuth(mw.RequireAdmin(next))

	// Admin token passes.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, manager, 1, "root", RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}

	// Plain user is forbidden, not unauthorized.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, manager, 2, "bob", RoleUser))
	if rec.Code != http.StatusForbidden {
		t.Errorf("user status = %d, want 403", rec.Code)
	}

	// RequireAdmin without RequireAuth in front denies everything.
	bare := mw.RequireAdmin(next)
	rec = httptest.NewRecorder()
	bare.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("bare status = %d, want 403", rec.Code)
	}
}
