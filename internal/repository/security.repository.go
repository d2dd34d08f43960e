package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/shopspring/decimal"
)

type SecurityRepository interface {
	FindByTicker(tx Tx, ticker string) (*model.Security, error)
	List(tx Tx) ([]model.Security, error)
	// FindOrCreate registers the security on first reference. Callers invoke
	// it inside the trade transaction so concurrent first-trades on an
	// unknown ticker cannot race to duplicate rows; the ticker key is unique
	// at the store level either way.
	FindOrCreate(tx Tx, ticker string, name string, referencePrice decimal.Decimal) (*model.Security, error)
}

type securityRepositoryHandler struct {
	Db *sql.DB
}

func NewSecurityRepository(db *sql.DB) SecurityRepository {
	return securityRepositoryHandler{Db: db}
}

func (h securityRepositoryHandler) FindByTicker(tx Tx, ticker string) (*model.Security, error) {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return nil, err
	}

	t := table.Security
	query := t.SELECT(t.AllColumns).WHERE(t.Ticker.EQ(postgres.String(ticker)))

	out := model.Security{}
	err = query.Query(db, &out)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get security %s: %w", ticker, err)
	}

	return &out, nil
}

func (h securityRepositoryHandler) List(tx Tx) ([]model.Security, error) {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return nil, err
	}

	t := table.Security
	query := t.SELECT(t.AllColumns).ORDER_BY(t.Ticker.ASC())

	out := []model.Security{}
	err = query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list securities: %w", err)
	}

	return out, nil
}

func (h securityRepositoryHandler) FindOrCreate(tx Tx, ticker string, name string, referencePrice decimal.Decimal) (*model.Security, error) {
	existing, err := h.FindByTicker(tx, ticker)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	db, err := queryable(h.Db, tx)
	if err != nil {
		return nil, err
	}

	newModel := model.Security{
		Ticker:         ticker,
		Name:           name,
		ReferencePrice: referencePrice,
		CreatedAt:      time.Now().UTC(),
	}

	t := table.Security
	query := t.INSERT(t.MutableColumns).MODEL(newModel).RETURNING(t.AllColumns)

	out := model.Security{}
	err = query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to create security %s: %w", ticker, err)
	}

	return &out, nil
}
