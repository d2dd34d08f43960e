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
)

type PortfolioRepository interface {
	Find(tx Tx, id int32) (*model.Portfolio, error)
	List(tx Tx) ([]model.Portfolio, error)
	ListByOwner(tx Tx, userID int32) ([]model.Portfolio, error)
	Create(tx Tx, portfolio model.Portfolio) (*model.Portfolio, error)
	Update(tx Tx, portfolio model.Portfolio) error
	Delete(tx Tx, id int32) error
}

type portfolioRepositoryHandler struct {
	Db *sql.DB
}

func NewPortfolioRepository(db *sql.DB) PortfolioRepository {
	return portfolioRepositoryHandler{Db: db}
}

func (h portfolioRepositoryHandler) Find(tx Tx, id int32) (*model.Portfolio, error) {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return nil, err
	}

	t := table.Portfolio
	query := t.SELECT(t.AllColumns).WHERE(t.ID.EQ(postgres.Int32(id)))

	out := model.Portfolio{}
	err = query.Query(db, &out)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio %d: %w", id, err)
	}

	return &out, nil
}

func (h portfolioRepositoryHandler) List(tx Tx) ([]model.Portfolio, error) {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return nil, err
	}

	t := table.Portfolio
	query := t.SELECT(t.AllColumns).ORDER_BY(t.ID.ASC())

	out := []model.Portfolio{}
	err = query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}

	return out, nil
}

func (h portfolioRepositoryHandler) ListByOwner(tx Tx, userID int32) ([]model.Portfolio, error) {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return nil, err
	}

	t := table.Portfolio
	query := t.SELECT(t.AllColumns).
		WHERE(t.UserID.EQ(postgres.Int32(userID))).
		ORDER_BY(t.ID.ASC())

	out := []model.Portfolio{}
	err = query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios for user %d: %w", userID, err)
	}

	return out, nil
}

func (h portfolioRepositoryHandler) Create(tx Tx, portfolio model.Portfolio) (*model.Portfolio, error) {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return nil, err
	}

	portfolio.CreatedAt = time.Now().UTC()
	portfolio.UpdatedAt = time.Now().UTC()

	t := table.Portfolio
	query := t.INSERT(t.MutableColumns).MODEL(portfolio).RETURNING(t.AllColumns)

	out := model.Portfolio{}
	err = query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}

	return &out, nil
}

func (h portfolioRepositoryHandler) Update(tx Tx, portfolio model.Portfolio) error {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return err
	}

	portfolio.UpdatedAt = time.Now().UTC()

	t := table.Portfolio
	query := t.UPDATE(t.Name, t.Description, t.InvestmentStrategy, t.UpdatedAt).
		MODEL(portfolio).
		WHERE(t.ID.EQ(postgres.Int32(portfolio.ID)))

	_, err = query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to update portfolio %d: %w", portfolio.ID, err)
	}

	return nil
}

func (h portfolioRepositoryHandler) Delete(tx Tx, id int32) error {
	db, err := queryable(h.Db, tx)
	if err != nil {
		return err
	}

	t := table.Portfolio
	query := t.DELETE().WHERE(t.ID.EQ(postgres.Int32(id)))

	_, err = query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio %d: %w", id, err)
	}

	return nil
}
