package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptService hashes and verifies passwords with bcrypt
type BcryptService struct {
	cost int
}

// NewBcryptService creates a new bcrypt password service
func NewBcryptService(cost int) *BcryptService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptService{cost: cost}
}

// Hash derives a bcrypt hash from a plaintext password
func (s *BcryptService) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare checks a plaintext password against a stored hash
func (s *BcryptService) Compare(hash, plaintext string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
}
