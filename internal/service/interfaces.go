package service

import "context"

// Notifier delivers outbound messages. Failures surface to the caller
// immediately; the services never retry delivery themselves.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// Localizer resolves message keys to user-facing text. It is never a source
// of auth failures: unresolvable keys come back as the key itself.
type Localizer interface {
	Text(key, locale string, params map[string]any) string
}
