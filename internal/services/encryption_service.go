package services

import (
	"strings"

	"habitq/internal/crypto"
	"habitq/internal/models"
)

// EncryptionService applies field encryption to user records.
type EncryptionService struct {
	sealer *crypto.Sealer
}

func NewEncryptionService(encryptionKey, blindIndexKey []byte) (*EncryptionService, error) {
	s, err := crypto.NewSealer(encryptionKey, blindIndexKey)
	if err != nil {
		return nil, err
	}
	return &EncryptionService{sealer: s}, nil
}

// EncryptUser replaces the plaintext email with its ciphertext and sets the blind index.
func (s *EncryptionService) EncryptUser(u *models.User) error {
	email := NormalizeEmail(u.Email)
	sealed, err := s.sealer.Seal(email)
	if err != nil {
		return err
	}
	u.Email = sealed
	u.EmailBlindIndex = s.sealer.BlindIndex(email)
	return nil
}

// DecryptUser restores the plaintext email after a read.
func (s *EncryptionService) DecryptUser(u *models.User) error {
	email, err := s.sealer.Open(u.Email)
	if err != nil {
		return err
	}
	u.Email = email
	return nil
}

// EmailIndex returns the blind index used to look a user up by email.
func (s *EncryptionService) EmailIndex(email string) string {
	return s.sealer.BlindIndex(NormalizeEmail(email))
}

func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
