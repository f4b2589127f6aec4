package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/authkit-go/authkit/internal/apperr"
)

// Localizer is the subset of the i18n bundle the transport needs.
type Localizer interface {
	Text(key, locale string, params map[string]any) string
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message renders a localized status message payload.
func Message(w http.ResponseWriter, loc Localizer, locale, key string, params map[string]any) {
	JSON(w, http.StatusOK, map[string]string{"msg": loc.Text(key, locale, params)})
}

// Error maps a service failure onto its status code and localized detail.
// Foreign errors render as an opaque 500 so internals never leak.
func Error(w http.ResponseWriter, loc Localizer, locale string, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		JSON(w, http.StatusInternalServerError, map[string]string{
			"detail": loc.Text("app.internal_error", locale, nil),
		})
		return
	}
	status := ae.Kind.HTTPStatus()
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	JSON(w, status, map[string]string{
		"detail": loc.Text(ae.Key, locale, ae.Params),
	})
}
