// Package apperr defines the failure taxonomy shared by the auth services
// and the HTTP layer. Every error carries a localizable message key; the
// transport maps kinds to status codes in one place.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindCredentials
	KindCode
	KindRateLimited
	KindNotFound
	KindDependency
	KindKeyMaterial
)

func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindCode:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindCredentials:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind   Kind
	Key    string
	Params map[string]any
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Key, e.Err)
	}
	return e.Key
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes sentinel comparison work for wrapped copies carrying params or an
// underlying cause, as long as kind and message key match.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind && e.Key == other.Key
}

func New(kind Kind, key string) *Error {
	return &Error{Kind: kind, Key: key}
}

func Wrap(kind Kind, key string, err error) *Error {
	return &Error{Kind: kind, Key: key, Err: err}
}

// WithParams returns a copy carrying interpolation params for the localized
// message. The receiver is not mutated, so sentinels stay shareable.
func (e *Error) WithParams(params map[string]any) *Error {
	return &Error{Kind: e.Kind, Key: e.Key, Params: params, Err: e.Err}
}

// KindOf extracts the taxonomy kind, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}
