package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

// LoginRequest represents a credential verification request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the resolved identity
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Identity  domain.Identity `json:"identity"`
}

// AuthUseCase verifies credentials and issues tokens
type AuthUseCase struct {
	userRepo ports.UserRepository
	password ports.PasswordService
	tokens   ports.TokenService
	recorder *AuditTrailRecorder
	logger   *logrus.Logger
}

// NewAuthUseCase creates a new auth use case
func NewAuthUseCase(
	userRepo ports.UserRepository,
	password ports.PasswordService,
	tokens ports.TokenService,
	recorder *AuditTrailRecorder,
	logger *logrus.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		password: password,
		tokens:   tokens,
		recorder: recorder,
		logger:   logger,
	}
}

// Login verifies a credential and issues a token carrying role and scope ids
func (uc *AuthUseCase) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	account, err := uc.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Indistinguishable from a wrong password on purpose
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := uc.password.Compare(account.PasswordHash, req.Password); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if !account.Role.IsValid() {
		return nil, fmt.Errorf("%w: account carries role %q", domain.ErrInvalidRole, account.Role)
	}

	identity := domain.Identity{
		Email:    account.Email,
		Role:     account.Role,
		ClientID: account.ClientID,
		KamID:    account.KamID,
		NbfcID:   account.NbfcID,
	}

	token, expiresAt, err := uc.tokens.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	uc.recorder.Record(ctx, &domain.AuditLogEntry{
		ActorIdentity:  identity.Email,
		ActorRole:      identity.Role,
		ActionType:     domain.AuditActionLoginSucceeded,
		DetailsMessage: "Login succeeded",
	})

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  identity,
	}, nil
}
