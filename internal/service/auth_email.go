package service

import (
	"errors"
	"strings"

	"github.com/authkit-go/authkit/internal/domain"
	"github.com/authkit-go/authkit/internal/repository"
)

// VerifyEmail consumes the presented code and marks the account's email as
// verified. The confirmation email afterwards is best-effort.
func (s *AuthService) VerifyEmail(userID, code, locale string) (*domain.User, error) {
	if err := s.verification.Check(userID, code, false); err != nil {
		return nil, err
	}
	if err := s.verification.Consume(userID); err != nil {
		return nil, err
	}
	if err := s.users.SetEmailVerified(userID, true); err != nil {
		return nil, storageError(err)
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, storageError(err)
	}
	s.sendInfo(user.Email, "auth.email_verified_subject", "auth.email_verified_content", locale)
	return user, nil
}

// ResendVerification issues a fresh code for a still-unverified account,
// subject to the resend cooldown.
func (s *AuthService) ResendVerification(userID, locale string) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return storageError(err)
	}
	if user.EmailVerified {
		return ErrEmailAlreadyVerified
	}
	code, err := s.verification.Create(user.ID)
	if err != nil {
		return err
	}
	return s.sendCode(user, user.Email, "auth.email_verification_subject", "auth.email_verification_content", code, locale)
}

// RequestEmailChange validates the new address and mails a confirmation
// code to it. The address is checked again at confirmation time because
// another account could acquire it in the interim.
func (s *AuthService) RequestEmailChange(user *domain.User, newEmail, locale string) error {
	newEmail = strings.TrimSpace(newEmail)
	if err := validateEmail(newEmail); err != nil {
		return err
	}
	if err := s.ensureEmailFree(newEmail); err != nil {
		return err
	}
	code, err := s.verification.Create(user.ID)
	if err != nil {
		return err
	}
	return s.sendCode(user, newEmail, "auth.email_change_subject", "auth.email_change_content", code, locale)
}

// ConfirmEmailChange re-validates the new address, consumes the code and
// switches the account over. The new address counts as verified: possession
// of the code proves the owner read mail sent to it.
func (s *AuthService) ConfirmEmailChange(user *domain.User, newEmail, code, locale string) error {
	newEmail = strings.TrimSpace(newEmail)
	if err := validateEmail(newEmail); err != nil {
		return err
	}
	if err := s.ensureEmailFree(newEmail); err != nil {
		return err
	}
	if err := s.verification.Check(user.ID, code, false); err != nil {
		return err
	}
	if err := s.verification.Consume(user.ID); err != nil {
		return err
	}
	if err := s.users.SetEmail(user.ID, newEmail); err != nil {
		return storageError(err)
	}
	if err := s.users.SetEmailVerified(user.ID, true); err != nil {
		return storageError(err)
	}
	s.sendInfo(newEmail, "auth.email_verified_subject", "auth.email_verified_content", locale)
	return nil
}
