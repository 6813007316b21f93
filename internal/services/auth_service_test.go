package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"habitq/internal/services"
)

func TestSignupLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.auth.Signup(ctx, "  Runner@Example.com ", "hunter22")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if u.ID == "" || u.Email != "runner@example.com" {
		t.Errorf("unexpected user: %+v", u)
	}

	stored, err := env.store.GetUserByID(ctx, u.ID)
	if err != nil || stored == nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if strings.Contains(stored.Email, "runner") {
		t.Error("email stored in plaintext")
	}
	if stored.PasswordHash == "hunter22" {
		t.Error("password stored in plaintext")
	}

	got, err := env.auth.Login(ctx, "RUNNER@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != u.ID || got.Email != "runner@example.com" {
		t.Errorf("Login = %+v, want id %s", got, u.ID)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "runner@example.com")

	_, err := env.auth.Signup(context.Background(), "Runner@example.com", "another1")
	if !errors.Is(err, services.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignup_Validation(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		email, password, field string
	}{
		{"", "secret", "email"},
		{"not-an-email", "secret", "email"},
		{"a@b.c", "", "password"},
	}
	for _, tc := range tests {
		_, err := env.auth.Signup(context.Background(), tc.email, tc.password)
		var verr *services.ValidationError
		if !errors.As(err, &verr) || verr.Field != tc.field {
			t.Errorf("Signup(%q, %q): expected %s ValidationError, got %v", tc.email, tc.password, tc.field, err)
		}
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "runner@example.com")

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "runner@example.com", "nope"},
		{"unknown email", "ghost@example.com", "password123"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.auth.Login(context.Background(), tc.email, tc.password)
			if !errors.Is(err, services.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestResolveUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "runner@example.com")

	got, err := env.auth.ResolveUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}
	if got.Email != "runner@example.com" {
		t.Errorf("email = %q", got.Email)
	}

	for _, id := range []string{"", "no-such-user"} {
		if _, err := env.auth.ResolveUser(ctx, id); !errors.Is(err, services.ErrUnauthenticated) {
			t.Errorf("ResolveUser(%q): expected ErrUnauthenticated, got %v", id, err)
		}
	}
}
