package repository

import (
	"database/sql"
	"testing"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/stretchr/testify/require"
)

func Test_queryable(t *testing.T) {
	db := &sql.DB{}

	t.Run("nil tx targets the connection", func(t *testing.T) {
		target, err := queryable(db, nil)
		require.NoError(t, err)
		require.Same(t, db, target)
	})

	t.Run("open tx targets the transaction", func(t *testing.T) {
		tx := &sql.Tx{}
		target, err := queryable(db, tx)
		require.NoError(t, err)
		require.Same(t, tx, target)
	})

	t.Run("foreign tx is rejected", func(t *testing.T) {
		dir, err := NewJSONDirectory("")
		require.NoError(t, err)
		tx, err := dir.Begin()
		require.NoError(t, err)
		defer tx.Rollback()

		_, err = queryable(db, tx)
		require.Error(t, err)
	})

	// DELETE and UPDATE statements run through Statement.Exec, which
	// needs the execution side of the target as well as the query side.
	t.Run("target supports exec statements", func(t *testing.T) {
		target, err := queryable(db, nil)
		require.NoError(t, err)
		_, ok := target.(qrm.Executable)
		require.True(t, ok)
	})
}
