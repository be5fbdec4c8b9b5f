package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Service issues and verifies HS256 tokens carrying the caller's role and
// scope ids. The token is the only identity source for request handling;
// nothing is re-read from the user store per request.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a new JWT token service
func NewService(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}, nil
}

// Issue signs a token for the given identity
func (s *Service) Issue(identity domain.Identity) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := jwt.MapClaims{
		"sub":  identity.Email,
		"role": string(identity.Role),
		"exp":  expiresAt.Unix(),
		"iat":  now.Unix(),
	}
	if identity.ClientID != "" {
		claims["client_id"] = identity.ClientID
	}
	if identity.KamID != "" {
		claims["kam_id"] = identity.KamID
	}
	if identity.NbfcID != "" {
		claims["nbfc_id"] = identity.NbfcID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a token and reconstructs the identity
func (s *Service) Verify(tokenString string) (domain.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, ErrTokenExpired
		}
		return domain.Identity{}, ErrInvalidToken
	}
	if !token.Valid {
		return domain.Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, ErrInvalidToken
	}

	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		return domain.Identity{}, ErrInvalidToken
	}
	role, ok := claims["role"].(string)
	if !ok {
		return domain.Identity{}, ErrInvalidToken
	}

	identity := domain.Identity{
		Email: email,
		Role:  domain.Role(role),
	}
	if clientID, ok := claims["client_id"].(string); ok {
		identity.ClientID = clientID
	}
	if kamID, ok := claims["kam_id"].(string); ok {
		identity.KamID = kamID
	}
	if nbfcID, ok := claims["nbfc_id"].(string); ok {
		identity.NbfcID = nbfcID
	}

	if !identity.Role.IsValid() {
		return domain.Identity{}, ErrInvalidToken
	}
	return identity, nil
}
