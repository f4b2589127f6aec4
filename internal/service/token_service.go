package service

import (
	"errors"

	"github.com/authkit-go/authkit/internal/domain"
	"github.com/authkit-go/authkit/internal/repository"
	"github.com/authkit-go/authkit/internal/security"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

// TokenService issues and exchanges signed credentials. Tokens are
// stateless: validity is signature plus expiry, with the subject's current
// account state re-checked on every refresh exchange.
type TokenService struct {
	jwtMgr *security.JWTManager
	users  repository.UserRepository
}

func NewTokenService(jwtMgr *security.JWTManager, users repository.UserRepository) *TokenService {
	return &TokenService{jwtMgr: jwtMgr, users: users}
}

func (s *TokenService) Issue(user *domain.User, stayLoggedIn bool) (*TokenPair, error) {
	access, err := s.jwtMgr.SignAccess(user.ID, user.Username)
	if err != nil {
		return nil, storageError(err)
	}
	pair := &TokenPair{AccessToken: access, TokenType: "bearer"}
	if stayLoggedIn {
		refresh, err := s.jwtMgr.SignRefresh(user.ID)
		if err != nil {
			return nil, storageError(err)
		}
		pair.RefreshToken = refresh
	}
	return pair, nil
}

// Refresh exchanges a refresh credential for a new access credential. A
// stale refresh token for a since-disabled or since-deleted account is
// rejected even though its signature still verifies.
func (s *TokenService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtMgr.Parse(refreshToken)
	if err != nil {
		return nil, ErrCouldNotValidateToken
	}
	user, err := s.users.FindByID(claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrCouldNotValidateToken
		}
		return nil, storageError(err)
	}
	if user.Disabled {
		return nil, ErrCouldNotValidateToken
	}
	access, err := s.jwtMgr.SignAccess(user.ID, user.Username)
	if err != nil {
		return nil, storageError(err)
	}
	return &TokenPair{AccessToken: access, TokenType: "bearer"}, nil
}

// Authenticate resolves an access credential to its user. Disabled accounts
// are rejected by the caller, which knows how to phrase that failure.
func (s *TokenService) Authenticate(accessToken string) (*domain.User, error) {
	claims, err := s.jwtMgr.Parse(accessToken)
	if err != nil {
		return nil, ErrCouldNotValidateToken
	}
	user, err := s.users.FindByID(claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrCouldNotValidateToken
		}
		return nil, storageError(err)
	}
	return user, nil
}
