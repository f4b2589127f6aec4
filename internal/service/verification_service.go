package service

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"math/big"
	"time"

	"github.com/authkit-go/authkit/internal/domain"
	"github.com/authkit-go/authkit/internal/repository"
)

const codeDigits = 6

// VerificationService owns the lifecycle of single-use verification codes:
// one active code per user, 60s resend cooldown, 24h validity. The code
// record lives in the relational store; each repository call is atomic but
// the cooldown-check-then-create sequence is not, so concurrent requests for
// the same user can race with last-write-wins. Accepted: the protected
// resource is a short-lived OTP.
type VerificationService struct {
	codes    repository.VerificationCodeRepository
	cooldown time.Duration
	ttl      time.Duration
	now      func() time.Time
}

func NewVerificationService(codes repository.VerificationCodeRepository, cooldown, ttl time.Duration) *VerificationService {
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &VerificationService{codes: codes, cooldown: cooldown, ttl: ttl, now: time.Now}
}

// Create generates a fresh 6-digit code for the user, replacing any
// existing one. The cooldown is measured from the previous record's
// creation time regardless of whether that code is still valid.
func (s *VerificationService) Create(userID string) (string, error) {
	now := s.now()

	existing, err := s.codes.FindByUserID(userID)
	switch {
	case err == nil:
		if now.Sub(existing.CreatedAt) < s.cooldown {
			return "", ErrResendCooldown
		}
	case errors.Is(err, repository.ErrVerificationCodeNotFound):
		// First code for this user.
	default:
		return "", storageError(err)
	}

	value, err := generateCode()
	if err != nil {
		return "", storageError(err)
	}
	record := &domain.VerificationCode{UserID: userID, Value: value, CreatedAt: now}
	if err := s.codes.Replace(record); err != nil {
		return "", storageError(err)
	}
	return value, nil
}

// Check validates a presented code without consuming it. allowUsed tolerates
// a prior consumption of the same code; the password-recovery protocol
// validates the code once to enter the reset step and once more,
// idempotently, during the actual password change.
func (s *VerificationService) Check(userID, presented string, allowUsed bool) error {
	record, err := s.codes.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationCodeNotFound) {
			return ErrNoActiveCode
		}
		return storageError(err)
	}
	if subtle.ConstantTimeCompare([]byte(record.Value), []byte(presented)) != 1 {
		return ErrCodeMismatch
	}
	if record.VerifiedAt != nil && !allowUsed {
		return ErrCodeAlreadyUsed
	}
	if s.now().Sub(record.CreatedAt) >= s.ttl {
		return ErrCodeExpired
	}
	return nil
}

// Consume stamps the code as used. Re-consuming is not an error here;
// callers decide whether repeat consumption means anything.
func (s *VerificationService) Consume(userID string) error {
	if err := s.codes.MarkUsed(userID, s.now()); err != nil {
		return storageError(err)
	}
	return nil
}

func generateCode() (string, error) {
	digits := make([]byte, codeDigits)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = '0' + byte(n.Int64())
	}
	return string(digits), nil
}
