package service

import "github.com/authkit-go/authkit/internal/apperr"

// Login and token failures deliberately share one coarse error so responses
// do not reveal which check failed.
var (
	ErrInvalidCredentials     = apperr.New(apperr.KindCredentials, "auth.incorrect_credentials")
	ErrCouldNotValidateToken  = apperr.New(apperr.KindCredentials, "auth.could_not_validate_credentials")
	ErrInactiveUser           = apperr.New(apperr.KindValidation, "auth.inactive_user")
	ErrUsernameInvalid        = apperr.New(apperr.KindValidation, "auth.username_invalid")
	ErrEmailInvalid           = apperr.New(apperr.KindValidation, "auth.email_invalid")
	ErrPasswordWeak           = apperr.New(apperr.KindValidation, "auth.password_weak")
	ErrUsernameTaken          = apperr.New(apperr.KindConflict, "auth.username_taken")
	ErrEmailTaken             = apperr.New(apperr.KindConflict, "auth.email_taken")
	ErrUserNotFound           = apperr.New(apperr.KindNotFound, "auth.user_not_found")
	ErrEmailAlreadyVerified   = apperr.New(apperr.KindValidation, "auth.email_already_verified")
	ErrNoActiveCode           = apperr.New(apperr.KindCode, "auth.no_verification_code")
	ErrCodeMismatch           = apperr.New(apperr.KindCode, "auth.invalid_verification_code")
	ErrCodeAlreadyUsed        = apperr.New(apperr.KindCode, "auth.verification_code_already_used")
	ErrCodeExpired            = apperr.New(apperr.KindCode, "auth.verification_code_expired")
	ErrResendCooldown         = apperr.New(apperr.KindRateLimited, "auth.resend_cooldown")
	ErrUserCreationFailed     = apperr.New(apperr.KindDependency, "auth.user_creation_failed")
	errEmailDispatch          = apperr.New(apperr.KindDependency, "auth.email_sending_failed")
	errStorage                = apperr.New(apperr.KindDependency, "app.internal_error")
)

func storageError(err error) error {
	return apperr.Wrap(apperr.KindDependency, errStorage.Key, err)
}

func dispatchError(err error) error {
	e := apperr.Wrap(apperr.KindDependency, errEmailDispatch.Key, err)
	return e.WithParams(map[string]any{"error": err.Error()})
}
