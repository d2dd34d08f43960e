package service

import (
	"strings"

	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/domain"
	"kiwiledger/internal/ledger"
	"kiwiledger/internal/repository"
)

// PortfolioService manages portfolios and enforces the ownership rule:
// a portfolio is visible and mutable to its owner and to admins, nobody
// else learns whether it exists.
type PortfolioService interface {
	Create(session domain.Session, in CreatePortfolioInput) (*model.Portfolio, error)
	Get(session domain.Session, id int32) (*PortfolioDetail, error)
	List(session domain.Session) ([]model.Portfolio, error)
	Update(session domain.Session, id int32, in UpdatePortfolioInput) (*model.Portfolio, error)
	Delete(session domain.Session, id int32) error
}

type CreatePortfolioInput struct {
	Name               string
	Description        *string
	InvestmentStrategy *string
}

type UpdatePortfolioInput struct {
	Name               string
	Description        *string
	InvestmentStrategy *string
}

// PortfolioDetail pairs a portfolio with its current holdings, tickers
// sorted ascending.
type PortfolioDetail struct {
	Portfolio model.Portfolio
	Holdings  []repository.Holding
}

type portfolioServiceHandler struct {
	TxBeginner           repository.TxBeginner
	UserRepository       repository.UserRepository
	PortfolioRepository  repository.PortfolioRepository
	InvestmentRepository repository.InvestmentRepository
}

func NewPortfolioService(
	txBeginner repository.TxBeginner,
	userRepository repository.UserRepository,
	portfolioRepository repository.PortfolioRepository,
	investmentRepository repository.InvestmentRepository,
) PortfolioService {
	return portfolioServiceHandler{
		TxBeginner:           txBeginner,
		UserRepository:       userRepository,
		PortfolioRepository:  portfolioRepository,
		InvestmentRepository: investmentRepository,
	}
}

// authorize resolves the portfolio and applies the owner-or-admin rule.
// An existing portfolio the caller may not touch reports the same
// PORTFOLIO_NOT_FOUND as a missing one.
func (h portfolioServiceHandler) authorize(tx repository.Tx, session domain.Session, id int32) (*model.Portfolio, error) {
	portfolio, err := h.PortfolioRepository.Find(tx, id)
	if err != nil {
		return nil, err
	}
	if portfolio == nil {
		return nil, ledger.NewPortfolioNotFound(id)
	}
	if portfolio.UserID != session.UserID && !session.IsAdmin() {
		return nil, ledger.NewPortfolioNotFound(id)
	}
	return portfolio, nil
}

func (h portfolioServiceHandler) Create(session domain.Session, in CreatePortfolioInput) (*model.Portfolio, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ledger.NewValidation("INVALID_PORTFOLIO_NAME", "portfolio name must not be empty")
	}

	// sessions can outlive their user
	owner, err := h.UserRepository.Find(nil, session.Username)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ledger.NewUserNotFound(session.Username)
	}

	portfolio, err := h.PortfolioRepository.Create(nil, model.Portfolio{
		Name:               name,
		Description:        in.Description,
		InvestmentStrategy: in.InvestmentStrategy,
		UserID:             session.UserID,
	})
	if err != nil {
		return nil, err
	}

	return portfolio, nil
}

func (h portfolioServiceHandler) Get(session domain.Session, id int32) (*PortfolioDetail, error) {
	portfolio, err := h.authorize(nil, session, id)
	if err != nil {
		return nil, err
	}

	holdings, err := h.InvestmentRepository.HoldingsByPortfolio(nil, id)
	if err != nil {
		return nil, err
	}

	return &PortfolioDetail{
		Portfolio: *portfolio,
		Holdings:  holdings,
	}, nil
}

func (h portfolioServiceHandler) List(session domain.Session) ([]model.Portfolio, error) {
	if session.IsAdmin() {
		return h.PortfolioRepository.List(nil)
	}
	return h.PortfolioRepository.ListByOwner(nil, session.UserID)
}

func (h portfolioServiceHandler) Update(session domain.Session, id int32, in UpdatePortfolioInput) (*model.Portfolio, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ledger.NewValidation("INVALID_PORTFOLIO_NAME", "portfolio name must not be empty")
	}

	tx, err := h.TxBeginner.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	portfolio, err := h.authorize(tx, session, id)
	if err != nil {
		return nil, err
	}

	portfolio.Name = name
	portfolio.Description = in.Description
	portfolio.InvestmentStrategy = in.InvestmentStrategy
	if err := h.PortfolioRepository.Update(tx, *portfolio); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return portfolio, nil
}

func (h portfolioServiceHandler) Delete(session domain.Session, id int32) error {
	tx, err := h.TxBeginner.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := h.authorize(tx, session, id); err != nil {
		return err
	}

	if err := h.PortfolioRepository.Delete(tx, id); err != nil {
		return err
	}

	return tx.Commit()
}
