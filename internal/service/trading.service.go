package service

import (
	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/domain"
	"kiwiledger/internal/ledger"
	"kiwiledger/internal/repository"

	"github.com/shopspring/decimal"
)

// TradingService executes buys and sells against a portfolio. Each trade is
// one atomic unit: balance change, holdings change and ledger append commit
// together or not at all. Checks run in a fixed order so callers always see
// the same failure for the same input: quantity, user, portfolio, ownership,
// symbol, then funds or shares.
type TradingService interface {
	Buy(session domain.Session, portfolioID int32, ticker string, quantity int32) (*domain.TradeConfirmation, error)
	Sell(session domain.Session, portfolioID int32, ticker string, quantity int32, overridePrice *decimal.Decimal) (*domain.TradeConfirmation, error)
}

type tradingServiceHandler struct {
	TxBeginner            repository.TxBeginner
	UserRepository        repository.UserRepository
	PortfolioRepository   repository.PortfolioRepository
	SecurityRepository    repository.SecurityRepository
	InvestmentRepository  repository.InvestmentRepository
	TransactionRepository repository.TransactionRepository
	PriceService          PriceService
}

func NewTradingService(
	txBeginner repository.TxBeginner,
	userRepository repository.UserRepository,
	portfolioRepository repository.PortfolioRepository,
	securityRepository repository.SecurityRepository,
	investmentRepository repository.InvestmentRepository,
	transactionRepository repository.TransactionRepository,
	priceService PriceService,
) TradingService {
	return tradingServiceHandler{
		TxBeginner:            txBeginner,
		UserRepository:        userRepository,
		PortfolioRepository:   portfolioRepository,
		SecurityRepository:    securityRepository,
		InvestmentRepository:  investmentRepository,
		TransactionRepository: transactionRepository,
		PriceService:          priceService,
	}
}

// tradeContext is the state shared by the check phase of a buy or sell,
// resolved inside the trade's transaction.
type tradeContext struct {
	user      *model.UserAccount
	portfolio *model.Portfolio
	ticker    string
	price     decimal.Decimal
}

func (h tradingServiceHandler) resolveTrade(tx repository.Tx, session domain.Session, portfolioID int32, ticker string, quantity int32) (*tradeContext, error) {
	if quantity <= 0 {
		return nil, ledger.NewValidation("INVALID_QUANTITY", "quantity must be a positive integer, got %d", quantity)
	}
	normalized := NormalizeTicker(ticker)
	if normalized == "" {
		return nil, ledger.NewValidation("INVALID_SYMBOL", "symbol must not be empty")
	}

	user, err := h.UserRepository.Find(tx, session.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ledger.NewUserNotFound(session.Username)
	}

	portfolio, err := h.PortfolioRepository.Find(tx, portfolioID)
	if err != nil {
		return nil, err
	}
	if portfolio == nil {
		return nil, ledger.NewPortfolioNotFound(portfolioID)
	}
	if portfolio.UserID != user.ID {
		return nil, ledger.NewAuthorization("NOT_PORTFOLIO_OWNER", "user %q does not own portfolio %d", user.Username, portfolioID)
	}

	price, err := h.PriceService.Quote(normalized)
	if err != nil {
		return nil, err
	}

	return &tradeContext{
		user:      user,
		portfolio: portfolio,
		ticker:    normalized,
		price:     price,
	}, nil
}

func (h tradingServiceHandler) Buy(session domain.Session, portfolioID int32, ticker string, quantity int32) (*domain.TradeConfirmation, error) {
	tx, err := h.TxBeginner.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tc, err := h.resolveTrade(tx, session, portfolioID, ticker, quantity)
	if err != nil {
		return nil, err
	}

	cost := tc.price.Mul(decimal.NewFromInt32(quantity))
	if tc.user.Balance.LessThan(cost) {
		return nil, ledger.NewInsufficientFunds(
			"buying %d %s costs %s but balance is %s",
			quantity, tc.ticker, cost.StringFixed(2), tc.user.Balance.StringFixed(2),
		)
	}

	security, err := h.SecurityRepository.FindOrCreate(tx, tc.ticker, tc.ticker, tc.price)
	if err != nil {
		return nil, err
	}

	newBalance := tc.user.Balance.Sub(cost)
	if err := h.UserRepository.UpdateBalance(tx, tc.user.ID, newBalance); err != nil {
		return nil, err
	}

	held := int32(0)
	investment, err := h.InvestmentRepository.Get(tx, portfolioID, security.ID)
	if err != nil {
		return nil, err
	}
	if investment != nil {
		held = investment.Quantity
	}
	if err := h.InvestmentRepository.SetQuantity(tx, portfolioID, security.ID, held+quantity); err != nil {
		return nil, err
	}

	txn, err := h.TransactionRepository.Add(tx, model.PortfolioTransaction{
		UserID:          tc.user.ID,
		PortfolioID:     portfolioID,
		SecurityID:      security.ID,
		TransactionType: model.TransactionType_Buy,
		Quantity:        quantity,
		Price:           tc.price,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &domain.TradeConfirmation{
		TransactionID: txn.TransactionID,
		PortfolioID:   portfolioID,
		Ticker:        tc.ticker,
		Quantity:      quantity,
		Price:         tc.price,
		Total:         cost,
		NewBalance:    newBalance,
	}, nil
}

func (h tradingServiceHandler) Sell(session domain.Session, portfolioID int32, ticker string, quantity int32, overridePrice *decimal.Decimal) (*domain.TradeConfirmation, error) {
	if overridePrice != nil && overridePrice.IsNegative() {
		return nil, ledger.NewValidation("INVALID_SALE_PRICE", "sale price must not be negative, got %s", overridePrice.String())
	}

	tx, err := h.TxBeginner.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tc, err := h.resolveTrade(tx, session, portfolioID, ticker, quantity)
	if err != nil {
		return nil, err
	}

	// the quote sheet must know the symbol even when the caller names a
	// price, so an override cannot smuggle in an untracked ticker
	price := tc.price
	if overridePrice != nil {
		price = *overridePrice
	}

	security, err := h.SecurityRepository.FindByTicker(tx, tc.ticker)
	held := int32(0)
	var securityID int32
	if err != nil {
		return nil, err
	}
	if security != nil {
		securityID = security.ID
		investment, err := h.InvestmentRepository.Get(tx, portfolioID, securityID)
		if err != nil {
			return nil, err
		}
		if investment != nil {
			held = investment.Quantity
		}
	}
	if held < quantity {
		return nil, ledger.NewInsufficientShares(
			"selling %d %s requires %d shares but portfolio %d holds %d",
			quantity, tc.ticker, quantity, portfolioID, held,
		)
	}

	proceeds := price.Mul(decimal.NewFromInt32(quantity))
	newBalance := tc.user.Balance.Add(proceeds)
	if err := h.UserRepository.UpdateBalance(tx, tc.user.ID, newBalance); err != nil {
		return nil, err
	}

	if err := h.InvestmentRepository.SetQuantity(tx, portfolioID, securityID, held-quantity); err != nil {
		return nil, err
	}

	txn, err := h.TransactionRepository.Add(tx, model.PortfolioTransaction{
		UserID:          tc.user.ID,
		PortfolioID:     portfolioID,
		SecurityID:      securityID,
		TransactionType: model.TransactionType_Sell,
		Quantity:        quantity,
		Price:           price,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &domain.TradeConfirmation{
		TransactionID: txn.TransactionID,
		PortfolioID:   portfolioID,
		Ticker:        tc.ticker,
		Quantity:      quantity,
		Price:         price,
		Total:         proceeds,
		NewBalance:    newBalance,
	}, nil
}
