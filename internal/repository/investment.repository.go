package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

// Holding is one row of a portfolio's ticker→quantity view.
type Holding struct {
	Ticker   string
	Quantity int32
}

type InvestmentRepository interface {
	Get(tx Tx, portfolioID int32, securityID int32) (*model.Investment, error)
	// HoldingsByPortfolio returns the portfolio's holdings keyed by ticker,
	// ordered lexically. Quantities are strictly positive: a row is deleted
	// the moment its quantity reaches zero.
	HoldingsByPortfolio(tx Tx, portfolioID int32) ([]Holding, error)
	// SetQuantity upserts the holding row: deletes it when qty <= 0,
	// creates it when absent and qty > 0.
	SetQuantity(tx Tx, portfolioID int32, securityID int32, qty int32) error
}

type investmentRepositoryHandler struct {
	Db *sql.DB
}

func NewInvestmentRepository(db *sql.DB) InvestmentRepository {
	return investmentRepositoryHandler{Db: db}
}

func (h investmentRepositoryHandler) Get(tx Tx, portfolioID int32, securityID int32) (*model.Investment, error) {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return nil, err
	}

	t := table.Investment
	query := t.SELECT(t.AllColumns).
		WHERE(
			t.PortfolioID.EQ(postgres.Int32(portfolioID)).
				AND(t.SecurityID.EQ(postgres.Int32(securityID))),
		)

	out := model.Investment{}
	err = query.Query(db, &out)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get investment for portfolio %d security %d: %w", portfolioID, securityID, err)
	}

	return &out, nil
}

func (h investmentRepositoryHandler) HoldingsByPortfolio(tx Tx, portfolioID int32) ([]Holding, error) {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return nil, err
	}

	i := table.Investment
	s := table.Security
	query := postgres.
		SELECT(
			s.Ticker.AS("holding.ticker"),
			i.Quantity.AS("holding.quantity"),
		).
		FROM(i.INNER_JOIN(s, i.SecurityID.EQ(s.ID))).
		WHERE(i.PortfolioID.EQ(postgres.Int32(portfolioID))).
		ORDER_BY(s.Ticker.ASC())

	out := []Holding{}
	err = query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings for portfolio %d: %w", portfolioID, err)
	}

	return out, nil
}

func (h investmentRepositoryHandler) SetQuantity(tx Tx, portfolioID int32, securityID int32, qty int32) error {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return err
	}

	t := table.Investment

	if qty <= 0 {
		query := t.DELETE().
			WHERE(
				t.PortfolioID.EQ(postgres.Int32(portfolioID)).
					AND(t.SecurityID.EQ(postgres.Int32(securityID))),
			)
		_, err = query.Exec(db)
		if err != nil {
			return fmt.Errorf("failed to delete investment for portfolio %d security %d: %w", portfolioID, securityID, err)
		}
		return nil
	}

	existing, err := h.Get(tx, portfolioID, securityID)
	if err != nil {
		return err
	}

	if existing == nil {
		newModel := model.Investment{
			PortfolioID: portfolioID,
			SecurityID:  securityID,
			Quantity:    qty,
		}
		query := t.INSERT(t.MutableColumns).MODEL(newModel)
		_, err = query.Exec(db)
		if err != nil {
			return fmt.Errorf("failed to create investment for portfolio %d security %d: %w", portfolioID, securityID, err)
		}
		return nil
	}

	existing.Quantity = qty
	query := t.UPDATE(t.Quantity).
		MODEL(*existing).
		WHERE(t.ID.EQ(postgres.Int32(existing.ID)))
	_, err = query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to update investment for portfolio %d security %d: %w", portfolioID, securityID, err)
	}

	return nil
}
