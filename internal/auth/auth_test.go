package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseJWT_RoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := IssueJWT("tehran-north", secret, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims, err := ParseJWT(token, secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Username != "tehran-north" {
		t.Errorf("username = %q", claims.Username)
	}
}

func TestParseJWT_Rejections(t *testing.T) {
	secret := []byte("test-secret")

	t.Run("empty token", func(t *testing.T) {
		if _, err := ParseJWT("", secret); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := IssueJWT("tehran-north", []byte("other-secret"), time.Hour)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		if _, err := ParseJWT(token, secret); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := IssueJWT("tehran-north", secret, -time.Minute)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		if _, err := ParseJWT(token, secret); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("missing username", func(t *testing.T) {
		token, err := IssueJWT("", secret, time.Hour)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		if _, err := ParseJWT(token, secret); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestMiddleware(t *testing.T) {
	secret := []byte("test-secret")
	mw := NewMiddleware(secret, []string{"/health"})

	var gotUsername string
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUsername = UsernameFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/loads/next-dates", nil)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := IssueJWT("tehran-north", secret, time.Hour)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/loads/next-dates", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
		if gotUsername != "tehran-north" {
			t.Errorf("username in context = %q", gotUsername)
		}
	})

	t.Run("exempt path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
	})
}
