package validators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/vosh/internal/fault"
	"github.com/MKhiriev/vosh/internal/mock"
)

func newTestValidator(t *testing.T, ctrl *gomock.Controller) (CredentialValidator, *mock.MockUserRepository, *mock.MockHasher) {
	t.Helper()
	users := mock.NewMockUserRepository(ctrl)
	hasher := mock.NewMockHasher(ctrl)
	return NewCredentialValidator(users, hasher), users, hasher
}

func TestValidateName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	v, _, _ := newTestValidator(t, ctrl)

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid", "alice42", nil},
		{"two chars ok", "ab", nil},
		{"empty", "", ErrNameSyntax},
		{"one char", "a", ErrNameSyntax},
		{"embedded space", "al ice", ErrNameSyntax},
		{"punctuation", "al.ice", ErrNameSyntax},
		{"reserved exact", "Administrator", ErrNameReserved},
		{"reserved case-insensitive", "aDmInIsTrAtOr", ErrNameReserved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateName(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, fault.Validation, fault.KindOf(err))
		})
	}
}

func TestValidateUsername_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no repository call may happen for blank input
	v, _, _ := newTestValidator(t, ctrl)

	require.ErrorIs(t, v.ValidateUsername(context.Background(), "   "), ErrUsernameEmpty)
}

func TestValidateUsername_Reserved(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	v, _, _ := newTestValidator(t, ctrl)

	require.ErrorIs(t, v.ValidateUsername(context.Background(), "administrator"), ErrNameReserved)
}

func TestValidateUsername_Taken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	v, users, hasher := newTestValidator(t, ctrl)

	hasher.EXPECT().Digest("alice").Return("h-alice")
	users.EXPECT().UserExists(gomock.Any(), "h-alice").Return(true, nil)

	err := v.ValidateUsername(context.Background(), "alice")
	require.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, fault.Validation, fault.KindOf(err))
}

func TestValidateUsername_Free(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	v, users, hasher := newTestValidator(t, ctrl)

	hasher.EXPECT().Digest("bob").Return("h-bob")
	users.EXPECT().UserExists(gomock.Any(), "h-bob").Return(false, nil)

	assert.NoError(t, v.ValidateUsername(context.Background(), "bob"))
}

func TestValidateUsername_StoreFailureIsResource(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	v, users, hasher := newTestValidator(t, ctrl)

	hasher.EXPECT().Digest("carol").Return("h-carol")
	users.EXPECT().UserExists(gomock.Any(), "h-carol").Return(false, assert.AnError)

	err := v.ValidateUsername(context.Background(), "carol")
	require.Error(t, err)
	assert.Equal(t, fault.Resource, fault.KindOf(err))
}

func TestValidatePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	v, _, _ := newTestValidator(t, ctrl)

	assert.NoError(t, v.ValidatePassword("12345678"))
	assert.ErrorIs(t, v.ValidatePassword("1234567"), ErrPasswordTooWeak)
	assert.ErrorIs(t, v.ValidatePassword(""), ErrPasswordTooWeak)
}

func TestValidateSecurityKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	v, _, _ := newTestValidator(t, ctrl)

	assert.NoError(t, v.ValidateSecurityKey(""), "empty key is a valid opt-out")
	assert.NoError(t, v.ValidateSecurityKey("12345678"))
	assert.ErrorIs(t, v.ValidateSecurityKey("short"), ErrSecurityKeySize)
}

func TestValidatePIN(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	v, _, _ := newTestValidator(t, ctrl)

	assert.NoError(t, v.ValidatePIN("1234"))
	assert.ErrorIs(t, v.ValidatePIN("123"), ErrPINTooShort)
	assert.ErrorIs(t, v.ValidatePIN(""), ErrPINTooShort)
}
