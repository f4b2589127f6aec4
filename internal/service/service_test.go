package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/authkit-go/authkit/internal/domain"
	"github.com/authkit-go/authkit/internal/repository"
	"github.com/authkit-go/authkit/internal/security"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) FindByID(id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) FindByUsername(username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) FindByEmail(email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) ExistsID(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[id]
	return ok, nil
}

func (r *memUserRepo) Create(user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) UpdateUsername(id, username string) error {
	return r.update(id, func(u *domain.User) { u.Username = username })
}

func (r *memUserRepo) SetPasswordHash(id, hash string) error {
	return r.update(id, func(u *domain.User) { u.PasswordHash = hash })
}

func (r *memUserRepo) SetEmail(id, email string) error {
	return r.update(id, func(u *domain.User) { u.Email = email })
}

func (r *memUserRepo) SetEmailVerified(id string, verified bool) error {
	return r.update(id, func(u *domain.User) { u.EmailVerified = verified })
}

func (r *memUserRepo) TouchLastSeen(id string, now time.Time) error {
	return r.update(id, func(u *domain.User) { u.LastSeen = &now })
}

func (r *memUserRepo) update(id string, fn func(*domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	fn(u)
	return nil
}

type memCodeRepo struct {
	mu    sync.Mutex
	codes map[string]*domain.VerificationCode
}

func newMemCodeRepo() *memCodeRepo {
	return &memCodeRepo{codes: make(map[string]*domain.VerificationCode)}
}

func (r *memCodeRepo) FindByUserID(userID string) (*domain.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.codes[userID]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, repository.ErrVerificationCodeNotFound
}

func (r *memCodeRepo) Replace(code *domain.VerificationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *code
	r.codes[code.UserID] = &copied
	return nil
}

func (r *memCodeRepo) MarkUsed(userID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.codes[userID]; ok {
		c.VerifiedAt = &now
	}
	return nil
}

type sentMail struct {
	Recipient string
	Subject   string
	Body      string
}

type captureNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (n *captureNotifier) Send(_ context.Context, recipient, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail != nil {
		return n.fail
	}
	n.sent = append(n.sent, sentMail{Recipient: recipient, Subject: subject, Body: body})
	return nil
}

func (n *captureNotifier) last() sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return sentMail{}
	}
	return n.sent[len(n.sent)-1]
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// keyLocalizer echoes the message key so tests can assert on keys without
// loading locale bundles.
type keyLocalizer struct{}

func (keyLocalizer) Text(key, _ string, params map[string]any) string {
	if code, ok := params["verification_code"]; ok {
		return key + ":" + code.(string)
	}
	return key
}

type authFixture struct {
	auth     *AuthService
	users    *memUserRepo
	codes    *memCodeRepo
	notifier *captureNotifier
	clock    *fakeClock
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	keys, err := security.LoadOrCreateKeys(t.TempDir(), "private_key.pem", "public_key.pem")
	if err != nil {
		t.Fatalf("generate keys: %v", err)
	}
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	users := newMemUserRepo()
	codes := newMemCodeRepo()
	notifier := &captureNotifier{}

	jwtMgr := security.NewJWTManager(keys, "authkit-test", 30*time.Minute, 720*time.Hour)
	tokens := NewTokenService(jwtMgr, users)
	verification := NewVerificationService(codes, time.Minute, 24*time.Hour)
	verification.now = clock.Now

	auth := NewAuthService(tokens, verification, users, notifier, keyLocalizer{}, slog.Default(), "TestApp")
	auth.now = clock.Now

	return &authFixture{auth: auth, users: users, codes: codes, notifier: notifier, clock: clock}
}

// register creates an account through the real flow and returns it together
// with the mailed verification code.
func (f *authFixture) register(t *testing.T, username, email, password string) (*domain.User, string) {
	t.Helper()
	user, err := f.auth.Register(username, email, password, "en")
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	code, err := f.codes.FindByUserID(user.ID)
	if err != nil {
		t.Fatalf("expected verification code for %s: %v", username, err)
	}
	return user, code.Value
}
