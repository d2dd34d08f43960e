// Package repository is the directory layer: durable lookup and persistence
// for users, portfolios, securities, investments and the transaction ledger.
// Two interchangeable backends implement the same interfaces: Postgres via
// go-jet, and a mutex-serialized JSON snapshot store. Services never branch
// on which backend is active.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-jet/jet/v2/qrm"
)

// Tx is the unit of atomicity for multi-entity writes. Every repository
// write invoked for a single operation runs under one Tx: either all
// mutations commit together, or none do.
type Tx interface {
	Commit() error
	Rollback() error
}

// TxBeginner opens an atomic unit scoped to the backing store.
type TxBeginner interface {
	Begin() (Tx, error)
}

type pgTxBeginner struct {
	Db *sql.DB
}

func NewPostgresTxBeginner(db *sql.DB) TxBeginner {
	return pgTxBeginner{Db: db}
}

// Begin opens a serializable transaction. The admin-count check and the
// balance/holdings arithmetic are check-then-act sequences; weaker isolation
// would let two concurrent units both pass their precondition reads.
func (b pgTxBeginner) Begin() (Tx, error) {
	tx, err := b.Db.BeginTx(context.Background(), &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	return tx, nil
}

// queryable resolves the go-jet execution target: the transaction when one
// is open, the bare connection otherwise.
func queryable(db *sql.DB, tx Tx) (qrm.DB, error) {
	if tx == nil {
		return db, nil
	}
	sqlTx, ok := tx.(*sql.Tx)
	if !ok {
		return nil, fmt.Errorf("postgres repository received a foreign tx of type %T", tx)
	}
	return sqlTx, nil
}
