package service

import (
	"errors"
	"strings"
	"testing"

	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/ledger"
	mock_repository "kiwiledger/internal/repository/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func Test_credentialServiceHandler_HashAndVerify(t *testing.T) {
	f := newFixture(t)

	digest, err := f.credentials.Hash("hunter2")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(digest, "$2"))

	require.True(t, f.credentials.Verify(digest, "hunter2"))
	require.False(t, f.credentials.Verify(digest, "hunter3"))

	empty, err := f.credentials.Hash("")
	require.NoError(t, err)
	require.Empty(t, empty)

	require.False(t, f.credentials.Verify("$2a$10$not-a-real-digest", "hunter2"))
}

func Test_credentialServiceHandler_Authenticate(t *testing.T) {
	t.Run("valid credentials return a session with the stored role", func(t *testing.T) {
		f := newFixture(t)
		f.createUser(t, "root", model.UserRole_Admin, decimal.Zero)

		session, err := f.credentials.Authenticate("root", "hunter2")
		require.NoError(t, err)
		require.Equal(t, "root", session.Username)
		require.Equal(t, model.UserRole_Admin, session.Role)
		require.True(t, session.IsAdmin())
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture(t)
		f.createUser(t, "alice", model.UserRole_User, decimal.Zero)

		_, err := f.credentials.Authenticate("alice", "wrong")
		require.Error(t, err)
		require.Equal(t, ledger.KindInvalidCredentials, ledger.KindOf(err))
	})

	t.Run("unknown user fails the same way as a wrong password", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.credentials.Authenticate("ghost", "hunter2")
		require.Error(t, err)
		require.Equal(t, ledger.KindInvalidCredentials, ledger.KindOf(err))
	})

	t.Run("legacy plaintext record upgrades on login", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.users.Create(nil, model.UserAccount{
			Username: "oldtimer",
			Password: "plain-password",
			Role:     model.UserRole_User,
		})
		require.NoError(t, err)

		session, err := f.credentials.Authenticate("oldtimer", "plain-password")
		require.NoError(t, err)
		require.Equal(t, "oldtimer", session.Username)

		stored, err := f.users.Find(nil, "oldtimer")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(stored.Password, "$2"))

		// and the upgraded digest still authenticates
		_, err = f.credentials.Authenticate("oldtimer", "plain-password")
		require.NoError(t, err)
	})

	t.Run("login succeeds even when the upgrade cannot be persisted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		userRepository := mock_repository.NewMockUserRepository(ctrl)

		userRepository.EXPECT().Find(nil, "oldtimer").Return(&model.UserAccount{
			ID:       1,
			Username: "oldtimer",
			Password: "plain-password",
			Role:     model.UserRole_User,
		}, nil)
		userRepository.EXPECT().
			UpdatePassword(nil, "oldtimer", gomock.Any()).
			Return(errors.New("disk full"))

		handler := NewCredentialService(userRepository, zap.NewNop().Sugar())
		session, err := handler.Authenticate("oldtimer", "plain-password")
		require.NoError(t, err)
		require.Equal(t, "oldtimer", session.Username)
	})
}
