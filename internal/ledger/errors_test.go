package ledger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_KindOf(t *testing.T) {
	t.Run("typed error", func(t *testing.T) {
		err := NewInsufficientFunds("need $%s, have $%s", "875", "125")
		require.Equal(t, KindInsufficientFunds, KindOf(err))
		require.Equal(t, "INSUFFICIENT_FUNDS", CodeOf(err))
	})

	t.Run("wrapped typed error", func(t *testing.T) {
		err := fmt.Errorf("failed to execute buy: %w", NewUserNotFound("ghost"))
		require.Equal(t, KindUserNotFound, KindOf(err))
		require.Equal(t, "USER_NOT_FOUND", CodeOf(err))
	})

	t.Run("untyped error", func(t *testing.T) {
		err := errors.New("boom")
		require.Equal(t, KindUnknown, KindOf(err))
		require.Equal(t, "", CodeOf(err))
	})

	t.Run("nil", func(t *testing.T) {
		require.Equal(t, KindUnknown, KindOf(nil))
	})
}

func Test_DataAccessUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewDataAccess(cause, "failed to persist trade")

	require.Equal(t, KindDataAccess, KindOf(err))
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "failed to persist trade")
	require.Contains(t, err.Error(), "connection reset")
}
