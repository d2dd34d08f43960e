package service

import (
	"kiwiledger/internal/domain"
	"kiwiledger/internal/ledger"
	"kiwiledger/internal/repository"

	"github.com/shopspring/decimal"
)

// LiquidationService sells off every position a user holds. Each symbol is
// its own atomic sale, so one failed symbol leaves that position intact
// while the rest still settle; the report carries the per-symbol outcome.
// Portfolios are walked in id order and symbols in ticker order, so the
// report is deterministic for a given book.
type LiquidationService interface {
	LiquidateAll(session domain.Session, username string) (*domain.LiquidationReport, error)
}

type liquidationServiceHandler struct {
	UserRepository       repository.UserRepository
	PortfolioRepository  repository.PortfolioRepository
	InvestmentRepository repository.InvestmentRepository
	TradingService       TradingService
}

func NewLiquidationService(
	userRepository repository.UserRepository,
	portfolioRepository repository.PortfolioRepository,
	investmentRepository repository.InvestmentRepository,
	tradingService TradingService,
) LiquidationService {
	return liquidationServiceHandler{
		UserRepository:       userRepository,
		PortfolioRepository:  portfolioRepository,
		InvestmentRepository: investmentRepository,
		TradingService:       tradingService,
	}
}

func (h liquidationServiceHandler) LiquidateAll(session domain.Session, username string) (*domain.LiquidationReport, error) {
	if session.Username != username && !session.IsAdmin() {
		return nil, ledger.NewAuthorization("ADMIN_REQUIRED", "only admins may liquidate another user's holdings")
	}

	user, err := h.UserRepository.Find(nil, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ledger.NewUserNotFound(username)
	}

	portfolios, err := h.PortfolioRepository.ListByOwner(nil, user.ID)
	if err != nil {
		return nil, err
	}

	type position struct {
		portfolioID int32
		holding     repository.Holding
	}
	positions := []position{}
	for _, p := range portfolios {
		holdings, err := h.InvestmentRepository.HoldingsByPortfolio(nil, p.ID)
		if err != nil {
			return nil, err
		}
		for _, holding := range holdings {
			positions = append(positions, position{portfolioID: p.ID, holding: holding})
		}
	}
	if len(positions) == 0 {
		return nil, ledger.NewEmptyHoldings(username)
	}

	// sales run under the owner's identity regardless of who triggered them
	ownerSession := domain.Session{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}

	report := &domain.LiquidationReport{
		Username:      username,
		TotalProceeds: decimal.Zero,
	}
	for _, pos := range positions {
		confirmation, err := h.TradingService.Sell(ownerSession, pos.portfolioID, pos.holding.Ticker, pos.holding.Quantity, nil)
		if err != nil {
			code := ledger.CodeOf(err)
			if code == "" {
				code = "DATA_ACCESS_FAILED"
			}
			report.Sales = append(report.Sales, domain.SymbolLiquidation{
				PortfolioID: pos.portfolioID,
				Ticker:      pos.holding.Ticker,
				Quantity:    pos.holding.Quantity,
				ErrorCode:   code,
			})
			continue
		}
		report.Sales = append(report.Sales, domain.SymbolLiquidation{
			PortfolioID: pos.portfolioID,
			Ticker:      pos.holding.Ticker,
			Quantity:    pos.holding.Quantity,
			Proceeds:    confirmation.Total,
		})
		report.TotalProceeds = report.TotalProceeds.Add(confirmation.Total)
	}

	settled, err := h.UserRepository.Find(nil, username)
	if err != nil {
		return nil, err
	}
	if settled != nil {
		report.EndingBalance = settled.Balance
	}

	return report, nil
}
