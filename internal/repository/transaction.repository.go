package repository

import (
	"database/sql"
	"fmt"
	"time"

	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/google/uuid"
)

// TransactionRepository is append-only: ledger rows are never updated or
// deleted. They are the sole audit trail for balance and holdings history.
type TransactionRepository interface {
	Add(tx Tx, txn model.PortfolioTransaction) (*model.PortfolioTransaction, error)
	List(tx Tx, filter TransactionListFilter) ([]model.PortfolioTransaction, error)
}

type TransactionListFilter struct {
	UserID      *int32
	PortfolioID *int32
	SecurityID  *int32
	Type        *model.TransactionType
}

type transactionRepositoryHandler struct {
	Db *sql.DB
}

func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return transactionRepositoryHandler{Db: db}
}

func (h transactionRepositoryHandler) Add(tx Tx, txn model.PortfolioTransaction) (*model.PortfolioTransaction, error) {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return nil, err
	}

	if txn.TransactionID == uuid.Nil {
		txn.TransactionID = uuid.New()
	}
	if txn.Timestamp.IsZero() {
		txn.Timestamp = time.Now().UTC()
	}

	t := table.PortfolioTransaction
	query := t.INSERT(t.AllColumns).MODEL(txn).RETURNING(t.AllColumns)

	out := model.PortfolioTransaction{}
	err = query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}

	return &out, nil
}

func (h transactionRepositoryHandler) List(tx Tx, listFilter TransactionListFilter) ([]model.PortfolioTransaction, error) {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return nil, err
	}

	t := table.PortfolioTransaction
	query := t.SELECT(t.AllColumns)

	whereClauses := []postgres.BoolExpression{postgres.Bool(true)}
	if listFilter.UserID != nil {
		whereClauses = append(whereClauses, t.UserID.EQ(postgres.Int32(*listFilter.UserID)))
	}
	if listFilter.PortfolioID != nil {
		whereClauses = append(whereClauses, t.PortfolioID.EQ(postgres.Int32(*listFilter.PortfolioID)))
	}
	if listFilter.SecurityID != nil {
		whereClauses = append(whereClauses, t.SecurityID.EQ(postgres.Int32(*listFilter.SecurityID)))
	}
	if listFilter.Type != nil {
		whereClauses = append(whereClauses, t.TransactionType.EQ(postgres.NewEnumValue(listFilter.Type.String())))
	}

	query = query.
		WHERE(postgres.AND(whereClauses...)).
		ORDER_BY(t.Timestamp.ASC())

	out := []model.PortfolioTransaction{}
	err = query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return out, nil
}
