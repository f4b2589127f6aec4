package service

import (
	"errors"
	"strings"

	"github.com/authkit-go/authkit/internal/domain"
	"github.com/authkit-go/authkit/internal/repository"
	"github.com/authkit-go/authkit/internal/security"
)

// UpdatePassword changes the password of an authenticated account. The
// caller's authority is the current password; the strength rules and the
// hashing path are shared with the recovery flow.
func (s *AuthService) UpdatePassword(user *domain.User, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if !security.VerifyPassword(user.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}
	return s.setPassword(user.ID, newPassword)
}

// ForgotPassword mails a recovery code to the account owning the address.
// An unknown address succeeds silently so the endpoint cannot be used to
// probe for registered emails.
func (s *AuthService) ForgotPassword(email, locale string) error {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return storageError(err)
	}
	code, err := s.verification.Create(user.ID)
	if err != nil {
		return err
	}
	return s.sendCode(user, user.Email, "auth.password_reset_subject", "auth.password_reset_content", code, locale)
}

// VerifyResetCode authorizes entry into the set-new-password step: it
// checks the presented code and consumes it. The later password change
// re-validates the same code tolerating that consumption.
func (s *AuthService) VerifyResetCode(email, code string) error {
	user, err := s.recoveryUser(email)
	if err != nil {
		return err
	}
	if err := s.verification.Check(user.ID, code, false); err != nil {
		return err
	}
	return s.verification.Consume(user.ID)
}

// ResetForgottenPassword sets a new password authorized by the recovery
// code. The check runs with allowUsed so the pre-check step's consumption
// of the same code does not invalidate this one.
func (s *AuthService) ResetForgottenPassword(email, code, newPassword string) error {
	user, err := s.recoveryUser(email)
	if err != nil {
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if err := s.verification.Check(user.ID, code, true); err != nil {
		return err
	}
	if err := s.verification.Consume(user.ID); err != nil {
		return err
	}
	return s.setPassword(user.ID, newPassword)
}

// recoveryUser resolves the email presented alongside a recovery code. An
// unknown address reports the same failure as a wrong code.
func (s *AuthService) recoveryUser(email string) (*domain.User, error) {
	user, err := s.users.FindByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrCodeMismatch
		}
		return nil, storageError(err)
	}
	return user, nil
}

func (s *AuthService) setPassword(userID, newPassword string) error {
	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return storageError(err)
	}
	if err := s.users.SetPasswordHash(userID, hash); err != nil {
		return storageError(err)
	}
	return nil
}
