package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nafisa/campgrounds/internal/apperror"
)

// newStubProvider returns a provider pointed at a stub Graph API.
func newStubProvider(t *testing.T, handler http.HandlerFunc) *FacebookProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewFacebookProvider("app-id", "app-secret")
	p.meURL = srv.URL
	return p
}

func TestVerifyToken_ReturnsProfile(t *testing.T) {
	p := newStubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer valid-token" {
			t.Errorf("Authorization header = %q, want bearer token", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"fb-123","name":"Jane Camper","first_name":"Jane","last_name":"Camper"}`))
	})

	profile, err := p.VerifyToken(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if profile.ID != "fb-123" {
		t.Errorf("profile.ID = %q, want %q", profile.ID, "fb-123")
	}
	if profile.Name != "Jane Camper" {
		t.Errorf("profile.Name = %q, want %q", profile.Name, "Jane Camper")
	}
	if profile.FirstName != "Jane" || profile.LastName != "Camper" {
		t.Errorf("profile names = %q/%q, want Jane/Camper", profile.FirstName, profile.LastName)
	}
}

func TestVerifyToken_EmptyToken(t *testing.T) {
	p := NewFacebookProvider("app-id", "app-secret")

	_, err := p.VerifyToken(context.Background(), "")
	if !errors.Is(err, apperror.ErrProvider) {
		t.Errorf("VerifyToken(\"\") error = %v, want ErrProvider", err)
	}
}

func TestVerifyToken_ProviderRejectsToken(t *testing.T) {
	p := newStubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"Invalid OAuth access token"}}`, http.StatusUnauthorized)
	})

	_, err := p.VerifyToken(context.Background(), "bad-token")
	if !errors.Is(err, apperror.ErrProvider) {
		t.Errorf("VerifyToken() error = %v, want ErrProvider", err)
	}
}

func TestVerifyToken_ProfileWithoutID(t *testing.T) {
	p := newStubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"No Id"}`))
	})

	_, err := p.VerifyToken(context.Background(), "token")
	if !errors.Is(err, apperror.ErrProvider) {
		t.Errorf("VerifyToken() error = %v, want ErrProvider", err)
	}
}

func TestVerifyToken_ProviderUnreachable(t *testing.T) {
	p := NewFacebookProvider("app-id", "app-secret")
	p.meURL = "http://127.0.0.1:1" // nothing listens here

	_, err := p.VerifyToken(context.Background(), "token")
	if !errors.Is(err, apperror.ErrProvider) {
		t.Errorf("VerifyToken() error = %v, want ErrProvider", err)
	}
}
