package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"habitq/internal/models"
	"habitq/internal/services"
)

// CookieName is the cookie carrying the session token.
const CookieName = "session"

// UserResolver maps a session subject to a user.
type UserResolver interface {
	ResolveUser(ctx context.Context, userID string) (*models.User, error)
}

// ErrorWriter renders err as the response.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

type ctxKey int

const userKey ctxKey = iota

// Sessions issues and verifies HS256 session tokens.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(secret []byte, ttl time.Duration) *Sessions {
	return &Sessions{secret: secret, ttl: ttl, now: time.Now}
}

func (s *Sessions) TTL() time.Duration { return s.ttl }

// Issue returns a signed token for userID and its expiry.
func (s *Sessions) Issue(userID string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, exp, nil
}

// Parse verifies tokenStr and returns its subject.
func (s *Sessions) Parse(tokenStr string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("session has no subject")
	}
	return claims.Subject, nil
}

// RequireUser resolves the session on every request and stores the user in
// the request context. Requests without a valid session are rejected with
// services.ErrUnauthenticated.
func (s *Sessions) RequireUser(users UserResolver, fail ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFrom(r)
			if tokenStr == "" {
				fail(w, r, services.ErrUnauthenticated)
				return
			}
			sub, err := s.Parse(tokenStr)
			if err != nil {
				Logger(r.Context()).Debug("rejected session")
				fail(w, r, services.ErrUnauthenticated)
				return
			}
			u, err := users.ResolveUser(r.Context(), sub)
			if err != nil {
				fail(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// tokenFrom prefers the session cookie and falls back to a bearer token.
func tokenFrom(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}
	return ""
}

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFrom returns the authenticated user, if any.
func UserFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}
