package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/authkit-go/authkit/internal/domain"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.VerificationCode{}))
	return db
}

func seedUser(t *testing.T, repo UserRepository, id, username, email string) *domain.User {
	t.Helper()
	u := &domain.User{ID: id, Username: username, Email: email, PasswordHash: "x"}
	require.NoError(t, repo.Create(u))
	return u
}

func TestUserLookupsAreCaseInsensitive(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	seedUser(t, repo, "id-1", "Alice", "Alice@Example.com")

	byName, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, "id-1", byName.ID)

	byEmail, err := repo.FindByEmail("ALICE@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, "id-1", byEmail.ID)

	_, err = repo.FindByUsername("bob")
	require.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.FindByEmail("bob@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserExistsID(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	seedUser(t, repo, "id-1", "alice", "alice@example.com")

	taken, err := repo.ExistsID("id-1")
	require.NoError(t, err)
	assert.True(t, taken)

	free, err := repo.ExistsID("id-2")
	require.NoError(t, err)
	assert.False(t, free)
}

func TestUserFieldUpdates(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	seedUser(t, repo, "id-1", "alice", "alice@example.com")

	require.NoError(t, repo.UpdateUsername("id-1", "alice2"))
	require.NoError(t, repo.SetPasswordHash("id-1", "new-hash"))
	require.NoError(t, repo.SetEmail("id-1", "new@example.com"))
	require.NoError(t, repo.SetEmailVerified("id-1", true))

	seen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.TouchLastSeen("id-1", seen))

	u, err := repo.FindByID("id-1")
	require.NoError(t, err)
	assert.Equal(t, "alice2", u.Username)
	assert.Equal(t, "new-hash", u.PasswordHash)
	assert.Equal(t, "new@example.com", u.Email)
	assert.True(t, u.EmailVerified)
	require.NotNil(t, u.LastSeen)
	assert.Equal(t, seen.Unix(), u.LastSeen.Unix())
}

func TestVerificationCodeReplaceOverwrites(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db)
	codes := NewVerificationCodeRepository(db)
	seedUser(t, users, "id-1", "alice", "alice@example.com")

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, codes.Replace(&domain.VerificationCode{UserID: "id-1", Value: "111111", CreatedAt: created}))
	require.NoError(t, codes.MarkUsed("id-1", created.Add(time.Minute)))

	used, err := codes.FindByUserID("id-1")
	require.NoError(t, err)
	require.NotNil(t, used.VerifiedAt)

	// Replacing resets value, creation time and the consumption mark.
	later := created.Add(2 * time.Minute)
	require.NoError(t, codes.Replace(&domain.VerificationCode{UserID: "id-1", Value: "222222", CreatedAt: later}))

	fresh, err := codes.FindByUserID("id-1")
	require.NoError(t, err)
	assert.Equal(t, "222222", fresh.Value)
	assert.Equal(t, later.Unix(), fresh.CreatedAt.Unix())
	assert.Nil(t, fresh.VerifiedAt)

	// Still exactly one row for the user.
	var count int64
	require.NoError(t, db.Model(&domain.VerificationCode{}).Where("user_id = ?", "id-1").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestVerificationCodeNotFound(t *testing.T) {
	codes := NewVerificationCodeRepository(testDB(t))
	_, err := codes.FindByUserID("nobody")
	require.ErrorIs(t, err, ErrVerificationCodeNotFound)
}

func TestVerificationCodesIsolatedPerUser(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db)
	codes := NewVerificationCodeRepository(db)
	seedUser(t, users, "id-1", "alice", "alice@example.com")
	seedUser(t, users, "id-2", "bob", "bob@example.com")

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, codes.Replace(&domain.VerificationCode{UserID: "id-1", Value: "111111", CreatedAt: now}))
	require.NoError(t, codes.Replace(&domain.VerificationCode{UserID: "id-2", Value: "222222", CreatedAt: now}))
	require.NoError(t, codes.MarkUsed("id-1", now.Add(time.Minute)))

	bob, err := codes.FindByUserID("id-2")
	require.NoError(t, err)
	assert.Equal(t, "222222", bob.Value)
	assert.Nil(t, bob.VerifiedAt)
}
