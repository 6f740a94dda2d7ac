package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/vosh/internal/config"
	"github.com/MKhiriev/vosh/internal/crypto"
	"github.com/MKhiriev/vosh/internal/fault"
	"github.com/MKhiriev/vosh/internal/logger"
	"github.com/MKhiriev/vosh/internal/mock"
	"github.com/MKhiriev/vosh/models"
)

func newAuthForTest(t *testing.T, repo *mock.MockUserRepository, hasher crypto.Hasher, maxAttempts int) *authService {
	t.Helper()
	svc := NewAuthService(repo, hasher, config.Auth{
		MaxAttempts:     maxAttempts,
		LockoutCooldown: 30 * time.Second,
	}, logger.Nop()).(*authService)
	svc.sleep = func(time.Duration) {}
	return svc
}

func TestAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	hasher := crypto.NewHasher("test-passphrase")
	svc := newAuthForTest(t, repo, hasher, 5)

	rec := models.UserRecord{
		HashedUsername: hasher.Digest("alice"),
		DisplayName:    "alice",
		HashedPassword: hasher.Digest("password123"),
		HashedPIN:      hasher.Digest("4321"),
	}
	repo.EXPECT().FindUser(gomock.Any(), hasher.Digest("alice")).Return(rec, nil)

	got, err := svc.Login(context.Background(), "alice", "password123", "")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.Equal(t, 5, svc.AttemptsLeft())
}

func TestAuthService_Login_BlankUsernameCountsWithoutLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl) // no expectations: the store must not be consulted
	svc := newAuthForTest(t, repo, crypto.NewHasher("test-passphrase"), 5)

	_, err := svc.Login(context.Background(), "", "whatever", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBlankUsername)
	assert.Equal(t, fault.Authentication, fault.KindOf(err))
	assert.Equal(t, 4, svc.AttemptsLeft())

	// Whitespace is just as blank as the empty string.
	_, err = svc.Login(context.Background(), "   \t", "whatever", "")
	assert.ErrorIs(t, err, ErrBlankUsername)
	assert.Equal(t, 3, svc.AttemptsLeft())
}

func TestAuthService_Login_SecurityKeyConjunction(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	hasher := crypto.NewHasher("test-passphrase")
	svc := newAuthForTest(t, repo, hasher, 5)

	rec := models.UserRecord{
		HashedUsername:    hasher.Digest("bob"),
		DisplayName:       "bob",
		HashedPassword:    hasher.Digest("password123"),
		HashedSecurityKey: hasher.Digest("long-second-factor"),
	}
	repo.EXPECT().FindUser(gomock.Any(), hasher.Digest("bob")).Return(rec, nil).Times(2)

	// Right password, missing key.
	_, err := svc.Login(context.Background(), "bob", "password123", "")
	assert.ErrorIs(t, err, ErrBadCredentials)

	// Both factors right.
	_, err = svc.Login(context.Background(), "bob", "password123", "long-second-factor")
	assert.NoError(t, err)
	assert.Equal(t, 5, svc.AttemptsLeft())
}

func TestAuthService_Login_NoKeyAccountRejectsOfferedKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	hasher := crypto.NewHasher("test-passphrase")
	svc := newAuthForTest(t, repo, hasher, 5)

	rec := models.UserRecord{
		HashedUsername: hasher.Digest("carol"),
		HashedPassword: hasher.Digest("password123"),
	}
	repo.EXPECT().FindUser(gomock.Any(), hasher.Digest("carol")).Return(rec, nil)

	_, err := svc.Login(context.Background(), "carol", "password123", "unexpected-key")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAuthService_Login_LockoutServesCooldownAndResets(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	hasher := crypto.NewHasher("test-passphrase")
	svc := newAuthForTest(t, repo, hasher, 3)

	var slept time.Duration
	svc.sleep = func(d time.Duration) { slept += d }

	repo.EXPECT().
		FindUser(gomock.Any(), gomock.Any()).
		Return(models.UserRecord{}, assert.AnError).
		Times(3)

	ctx := context.Background()
	_, err := svc.Login(ctx, "ghost", "x", "")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = svc.Login(ctx, "ghost", "x", "")
	assert.ErrorIs(t, err, ErrBadCredentials)

	// Third consecutive failure exhausts the budget.
	_, err = svc.Login(ctx, "ghost", "x", "")
	assert.ErrorIs(t, err, ErrLockedOut)
	assert.Equal(t, 30*time.Second, slept)
	assert.Equal(t, 3, svc.AttemptsLeft())
}

func TestAuthService_ChallengePIN(t *testing.T) {
	ctrl := gomock.NewController(t)
	hasher := crypto.NewHasher("test-passphrase")
	svc := newAuthForTest(t, mock.NewMockUserRepository(ctrl), hasher, 5)

	stored := hasher.Digest("4321")
	assert.True(t, svc.ChallengePIN("4321", stored))
	assert.False(t, svc.ChallengePIN("0000", stored))
}

func TestAuthService_ChallengePIN_SharesLockoutBudget(t *testing.T) {
	ctrl := gomock.NewController(t)
	hasher := crypto.NewHasher("test-passphrase")
	svc := newAuthForTest(t, mock.NewMockUserRepository(ctrl), hasher, 3)

	var slept time.Duration
	svc.sleep = func(d time.Duration) { slept += d }

	stored := hasher.Digest("4321")
	for i := 0; i < 3; i++ {
		assert.False(t, svc.ChallengePIN("0000", stored))
	}
	assert.Equal(t, 30*time.Second, slept)
	assert.Equal(t, 3, svc.AttemptsLeft())

	// Success restores the full budget.
	assert.False(t, svc.ChallengePIN("0000", stored))
	assert.Equal(t, 2, svc.AttemptsLeft())
	assert.True(t, svc.ChallengePIN("4321", stored))
	assert.Equal(t, 3, svc.AttemptsLeft())
}
