package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/authkit-go/authkit/internal/domain"
	"github.com/authkit-go/authkit/internal/repository"
	"github.com/authkit-go/authkit/internal/security"
)

// AuthService orchestrates login, registration, credential refresh and the
// code-gated account flows. It holds no mutable state of its own; every
// call context is independent.
type AuthService struct {
	tokens       *TokenService
	verification *VerificationService
	users        repository.UserRepository
	notifier     Notifier
	i18n         Localizer
	logger       *slog.Logger
	appName      string
	now          func() time.Time
}

func NewAuthService(
	tokens *TokenService,
	verification *VerificationService,
	users repository.UserRepository,
	notifier Notifier,
	localizer Localizer,
	logger *slog.Logger,
	appName string,
) *AuthService {
	return &AuthService{
		tokens:       tokens,
		verification: verification,
		users:        users,
		notifier:     notifier,
		i18n:         localizer,
		logger:       logger,
		appName:      appName,
		now:          time.Now,
	}
}

var (
	usernameRe  = regexp.MustCompile(`^\w{3,}$`)
	emailRe     = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
	uppercaseRe = regexp.MustCompile(`[A-Z]`)
	digitRe     = regexp.MustCompile(`[0-9]`)
)

// Login authenticates by case-insensitive username. Unknown username and
// wrong password fail identically so responses cannot be used to probe for
// accounts. A refresh credential is only minted when the caller asked to
// stay logged in.
func (s *AuthService) Login(username, password string, stayLoggedIn bool) (*TokenPair, error) {
	user, err := s.users.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageError(err)
	}
	if !security.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if err := s.users.TouchLastSeen(user.ID, s.now()); err != nil {
		return nil, storageError(err)
	}
	return s.tokens.Issue(user, stayLoggedIn)
}

// Refresh exchanges a refresh credential for a fresh access credential.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	return s.tokens.Refresh(refreshToken)
}

// Authenticate resolves a bearer access token to its account.
func (s *AuthService) Authenticate(accessToken string) (*domain.User, error) {
	return s.tokens.Authenticate(accessToken)
}

// Register provisions a new unverified account and mails its first
// verification code. Identity creation and mail dispatch are not atomic: a
// failed dispatch keeps the account and its code, and the caller sees a
// dependency failure. The resend flow recovers from there.
func (s *AuthService) Register(username, email, password, locale string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(username, ""); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(email); err != nil {
		return nil, err
	}

	id, err := repository.AllocateID(s.users.ExistsID, repository.DefaultAllocateAttempts)
	if err != nil {
		if errors.Is(err, repository.ErrAllocationExhausted) {
			return nil, ErrUserCreationFailed
		}
		return nil, storageError(err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, storageError(err)
	}

	user := &domain.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(user); err != nil {
		return nil, storageError(err)
	}

	// The code is created together with the account so an account never
	// exists without one; only the dispatch can still fail.
	code, err := s.verification.Create(user.ID)
	if err != nil {
		return user, err
	}
	if err := s.sendCode(user, user.Email, "auth.welcome_email_subject", "auth.welcome_email_content", code, locale); err != nil {
		return user, err
	}
	return user, nil
}

// UpdateUsername changes the account's username after re-checking format
// and uniqueness.
func (s *AuthService) UpdateUsername(user *domain.User, newUsername string) error {
	newUsername = strings.TrimSpace(newUsername)
	if err := validateUsername(newUsername); err != nil {
		return err
	}
	if err := s.ensureUsernameFree(newUsername, user.ID); err != nil {
		return err
	}
	if err := s.users.UpdateUsername(user.ID, newUsername); err != nil {
		return storageError(err)
	}
	return nil
}

func (s *AuthService) ensureUsernameFree(username, selfID string) error {
	existing, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return storageError(err)
	}
	if selfID != "" && existing.ID == selfID {
		return nil
	}
	return ErrUsernameTaken
}

func (s *AuthService) ensureEmailFree(email string) error {
	_, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return storageError(err)
	}
	return ErrEmailTaken
}

func (s *AuthService) sendCode(user *domain.User, recipient, subjectKey, contentKey, code, locale string) error {
	subject := s.i18n.Text(subjectKey, locale, map[string]any{"app": s.appName})
	content := s.i18n.Text(contentKey, locale, map[string]any{
		"app":               s.appName,
		"username":          user.Username,
		"verification_code": code,
	})
	if err := s.notifier.Send(context.Background(), recipient, subject, content); err != nil {
		return dispatchError(err)
	}
	return nil
}

// sendInfo dispatches a follow-up message where delivery is best-effort;
// failures are logged, never surfaced.
func (s *AuthService) sendInfo(recipient, subjectKey, contentKey, locale string) {
	subject := s.i18n.Text(subjectKey, locale, nil)
	content := s.i18n.Text(contentKey, locale, nil)
	if err := s.notifier.Send(context.Background(), recipient, subject, content); err != nil {
		s.logger.Warn("confirmation email dispatch failed", "recipient", recipient, "error", err)
	}
}

func validateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return ErrUsernameInvalid
	}
	return nil
}

func validateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 || !uppercaseRe.MatchString(password) || !digitRe.MatchString(password) {
		return ErrPasswordWeak
	}
	return nil
}
