package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"habitq/internal/models"
	"habitq/internal/store"
)

// AuthService is the identity collaborator: it creates accounts, checks
// credentials and maps a session's user id back to a user record.
type AuthService struct {
	users UserRepository
	enc   *EncryptionService
	cost  int
}

func NewAuthService(users UserRepository, enc *EncryptionService) *AuthService {
	return &AuthService{users: users, enc: enc, cost: bcrypt.DefaultCost}
}

// Signup creates a user and returns it with the plaintext email.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, invalid("email", "A valid email is required")
	}
	if password == "" {
		return nil, invalid("password", "Password is required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}
	u := &models.User{Email: email, PasswordHash: string(hashed)}
	if err := s.enc.EncryptUser(u); err != nil {
		return nil, err
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, storeErr("create user", err)
	}
	u.Email = email
	return u, nil
}

// Login returns the user whose credentials match.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, invalid("email", "Email and password are required")
	}
	u, err := s.users.GetUserByEmailIndex(ctx, s.enc.EmailIndex(email))
	if err != nil {
		return nil, storeErr("get user", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.enc.DecryptUser(u); err != nil {
		return nil, err
	}
	return u, nil
}

// ResolveUser maps a session's user id to the user record.
func (s *AuthService) ResolveUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeErr("get user", err)
	}
	if u == nil {
		return nil, ErrUnauthenticated
	}
	if err := s.enc.DecryptUser(u); err != nil {
		return nil, err
	}
	return u, nil
}
