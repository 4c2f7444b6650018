package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/bilemo/internal/domain"
)

// Service defines the authentication operations.
type Service interface {
	Login(ctx context.Context, username, password string) (*TokenResponse, error)
}

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *domain.User) (string, time.Time, error)
}

// authService implements Service.
type authService struct {
	issuer   TokenIssuer
	userRepo domain.UserRepository
}

// NewService creates a new auth Service.
func NewService(issuer TokenIssuer, userRepo domain.UserRepository) Service {
	return &authService{
		issuer:   issuer,
		userRepo: userRepo,
	}
}

// Login authenticates a user by username and password and returns a signed token.
// Unknown users and wrong passwords produce the same error.
func (s *authService) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalidCredentials()
	}

	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to generate token", err)
	}

	return &TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

func invalidCredentials() error {
	return domain.NewAppError(domain.CodeUnauthorized, "invalid credentials", nil)
}
