package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testClientID = "test-client-id.apps.googleusercontent.com"

// fakeTokenInfo mimics the identity provider's tokeninfo endpoint.
func fakeTokenInfo(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		switch r.URL.Query().Get("id_token") {
		case "admin-token":
			payload = map[string]string{"aud": testClientID, "email": "Admin@Example.com", "name": "Admin", "picture": "pic.png"}
		case "guest-token":
			payload = map[string]string{"aud": testClientID, "email": "guest@example.com", "name": "Guest"}
		case "foreign-token":
			payload = map[string]string{"aud": "some-other-client", "email": "admin@example.com"}
		default:
			http.Error(w, `{"error":"invalid_token"}`, http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestGate(t *testing.T) *AuthGate {
	t.Helper()
	gate := NewAuthGate(testClientID, []string{"admin@example.com"})
	gate.SetTokenInfoURL(fakeTokenInfo(t).URL)
	return gate
}

func TestVerifyTokenEmpty(t *testing.T) {
	gate := newTestGate(t)
	_, err := gate.VerifyToken(context.Background(), "")
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestVerifyTokenRejected(t *testing.T) {
	gate := newTestGate(t)
	_, err := gate.VerifyToken(context.Background(), "garbage")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyTokenWrongAudience(t *testing.T) {
	gate := newTestGate(t)
	_, err := gate.VerifyToken(context.Background(), "foreign-token")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token for another client must be invalid, got %v", err)
	}
}

func TestVerifyTokenValid(t *testing.T) {
	gate := newTestGate(t)
	identity, err := gate.VerifyToken(context.Background(), "admin-token")
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if identity.Email != "Admin@Example.com" {
		t.Errorf("email = %q, want the provider's casing preserved", identity.Email)
	}
	if identity.Name != "Admin" || identity.Picture != "pic.png" {
		t.Errorf("identity = %+v, want name and picture filled", identity)
	}
}

func TestVerifyAdmin(t *testing.T) {
	gate := newTestGate(t)

	if _, err := gate.VerifyAdmin(context.Background(), "admin-token"); err != nil {
		t.Errorf("allow-listed admin rejected: %v", err)
	}

	_, err := gate.VerifyAdmin(context.Background(), "guest-token")
	if !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("valid token off the allow-list: expected ErrNotAuthorized, got %v", err)
	}
}

func TestIsAdminCaseInsensitive(t *testing.T) {
	gate := NewAuthGate(testClientID, []string{" Admin@Example.COM ", "", "ops@example.com"})

	tests := []struct {
		email string
		want  bool
	}{
		{"admin@example.com", true},
		{"ADMIN@EXAMPLE.COM", true},
		{"ops@example.com", true},
		{"guest@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := gate.IsAdmin(tt.email); got != tt.want {
			t.Errorf("IsAdmin(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestVerifyTokenProviderUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	gate := NewAuthGate(testClientID, []string{"admin@example.com"})
	gate.SetTokenInfoURL(server.URL)

	_, err := gate.VerifyToken(context.Background(), "admin-token")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrNotAuthorized) {
		t.Errorf("transport failure must not masquerade as an auth verdict, got %v", err)
	}
}
