package service

import (
	"testing"

	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/domain"
	"kiwiledger/internal/ledger"
	"kiwiledger/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Test_tradingServiceHandler_Buy(t *testing.T) {
	t.Run("debits balance, credits holdings and appends to the ledger", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		p := f.createPortfolio(t, alice, "growth")

		confirmation, err := f.trading.Buy(alice, p.ID, "AAPL", 5)
		require.NoError(t, err)

		// AAPL quotes at 175.00
		require.True(t, confirmation.Total.Equal(decimal.NewFromInt(875)))
		require.True(t, confirmation.NewBalance.Equal(decimal.NewFromInt(125)))
		require.True(t, f.balanceOf(t, "alice").Equal(decimal.NewFromInt(125)))
		require.Equal(t, []repository.Holding{{Ticker: "AAPL", Quantity: 5}}, f.holdingsOf(t, p.ID))

		txns, err := f.transactions.List(nil, repository.TransactionListFilter{})
		require.NoError(t, err)
		require.Len(t, txns, 1)
		require.Equal(t, model.TransactionType_Buy, txns[0].TransactionType)
		require.Equal(t, int32(5), txns[0].Quantity)
		require.True(t, txns[0].Price.Equal(decimal.NewFromInt(175)))
	})

	t.Run("repeat buys accumulate into one position", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		p := f.createPortfolio(t, alice, "growth")

		_, err := f.trading.Buy(alice, p.ID, "UBER", 2)
		require.NoError(t, err)
		_, err = f.trading.Buy(alice, p.ID, "UBER", 3)
		require.NoError(t, err)

		require.Equal(t, []repository.Holding{{Ticker: "UBER", Quantity: 5}}, f.holdingsOf(t, p.ID))
	})

	t.Run("ticker is case and whitespace insensitive", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		p := f.createPortfolio(t, alice, "growth")

		confirmation, err := f.trading.Buy(alice, p.ID, "  aapl ", 1)
		require.NoError(t, err)
		require.Equal(t, "AAPL", confirmation.Ticker)
		require.Equal(t, []repository.Holding{{Ticker: "AAPL", Quantity: 1}}, f.holdingsOf(t, p.ID))
	})

	t.Run("insufficient funds leaves no partial effect", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(100))
		p := f.createPortfolio(t, alice, "growth")

		_, err := f.trading.Buy(alice, p.ID, "NVDA", 1)
		require.Error(t, err)
		require.Equal(t, ledger.KindInsufficientFunds, ledger.KindOf(err))

		require.True(t, f.balanceOf(t, "alice").Equal(decimal.NewFromInt(100)))
		require.Empty(t, f.holdingsOf(t, p.ID))
		txns, err := f.transactions.List(nil, repository.TransactionListFilter{})
		require.NoError(t, err)
		require.Empty(t, txns)
	})

	t.Run("exact balance is spendable", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(175))
		p := f.createPortfolio(t, alice, "growth")

		confirmation, err := f.trading.Buy(alice, p.ID, "AAPL", 1)
		require.NoError(t, err)
		require.True(t, confirmation.NewBalance.IsZero())
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		p := f.createPortfolio(t, alice, "growth")

		for _, qty := range []int32{0, -4} {
			_, err := f.trading.Buy(alice, p.ID, "AAPL", qty)
			require.Error(t, err)
			require.Equal(t, "INVALID_QUANTITY", ledger.CodeOf(err))
		}
	})

	t.Run("quantity check precedes every other check", func(t *testing.T) {
		f := newFixture(t)
		ghost := domain.Session{UserID: 99, Username: "ghost", Role: model.UserRole_User}

		// bad quantity plus missing user, portfolio and symbol
		_, err := f.trading.Buy(ghost, 42, "ZZZZ", 0)
		require.Error(t, err)
		require.Equal(t, "INVALID_QUANTITY", ledger.CodeOf(err))
	})

	t.Run("unknown session user", func(t *testing.T) {
		f := newFixture(t)
		ghost := domain.Session{UserID: 99, Username: "ghost", Role: model.UserRole_User}

		_, err := f.trading.Buy(ghost, 0, "AAPL", 1)
		require.Error(t, err)
		require.Equal(t, ledger.KindUserNotFound, ledger.KindOf(err))
	})

	t.Run("missing portfolio", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))

		_, err := f.trading.Buy(alice, 42, "AAPL", 1)
		require.Error(t, err)
		require.Equal(t, ledger.KindPortfolioNotFound, ledger.KindOf(err))
	})

	t.Run("cannot trade in a portfolio owned by someone else", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		bob := f.createUser(t, "bob", model.UserRole_User, decimal.NewFromInt(1000))
		p := f.createPortfolio(t, alice, "growth")

		_, err := f.trading.Buy(bob, p.ID, "AAPL", 1)
		require.Error(t, err)
		require.Equal(t, "NOT_PORTFOLIO_OWNER", ledger.CodeOf(err))
	})

	t.Run("unknown symbol", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		p := f.createPortfolio(t, alice, "growth")

		_, err := f.trading.Buy(alice, p.ID, "ZZZZ", 1)
		require.Error(t, err)
		require.Equal(t, "SYMBOL_NOT_AVAILABLE", ledger.CodeOf(err))
	})

	t.Run("blank symbol is rejected before any lookup", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		p := f.createPortfolio(t, alice, "growth")

		_, err := f.trading.Buy(alice, p.ID, "   ", 1)
		require.Error(t, err)
		require.Equal(t, "INVALID_SYMBOL", ledger.CodeOf(err))
	})

	t.Run("ownership is checked before symbol availability", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		bob := f.createUser(t, "bob", model.UserRole_User, decimal.NewFromInt(1000))
		p := f.createPortfolio(t, alice, "growth")

		// a bad ticker against someone else's portfolio must not leak
		// whether the ticker trades
		_, err := f.trading.Buy(bob, p.ID, "ZZZZ", 1)
		require.Error(t, err)
		require.Equal(t, ledger.KindAuthorization, ledger.KindOf(err))
		require.Equal(t, "NOT_PORTFOLIO_OWNER", ledger.CodeOf(err))
	})
}

func Test_tradingServiceHandler_Sell(t *testing.T) {
	t.Run("credits balance and reduces the position", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		p := f.createPortfolio(t, alice, "growth")

		_, err := f.trading.Buy(alice, p.ID, "UBER", 5)
		require.NoError(t, err)

		confirmation, err := f.trading.Sell(alice, p.ID, "UBER", 2, nil)
		require.NoError(t, err)
		// UBER quotes at 65.00
		require.True(t, confirmation.Total.Equal(decimal.NewFromInt(130)))
		require.Equal(t, []repository.Holding{{Ticker: "UBER", Quantity: 3}}, f.holdingsOf(t, p.ID))
	})

	t.Run("selling the full position removes it", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		p := f.createPortfolio(t, alice, "growth")

		_, err := f.trading.Buy(alice, p.ID, "UBER", 5)
		require.NoError(t, err)
		_, err = f.trading.Sell(alice, p.ID, "UBER", 5, nil)
		require.NoError(t, err)

		require.Empty(t, f.holdingsOf(t, p.ID))
	})

	t.Run("buy then sell at the quote is balance neutral", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		p := f.createPortfolio(t, alice, "growth")

		_, err := f.trading.Buy(alice, p.ID, "MSFT", 2)
		require.NoError(t, err)
		_, err = f.trading.Sell(alice, p.ID, "MSFT", 2, nil)
		require.NoError(t, err)

		require.True(t, f.balanceOf(t, "alice").Equal(decimal.NewFromInt(1000)))
	})

	t.Run("override price sets the proceeds", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		p := f.createPortfolio(t, alice, "growth")

		_, err := f.trading.Buy(alice, p.ID, "UBER", 2)
		require.NoError(t, err)

		override := decimal.NewFromInt(70)
		confirmation, err := f.trading.Sell(alice, p.ID, "UBER", 2, &override)
		require.NoError(t, err)
		require.True(t, confirmation.Price.Equal(override))
		require.True(t, confirmation.Total.Equal(decimal.NewFromInt(140)))
	})

	t.Run("negative override price is rejected", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		p := f.createPortfolio(t, alice, "growth")

		_, err := f.trading.Buy(alice, p.ID, "UBER", 2)
		require.NoError(t, err)

		override := decimal.NewFromInt(-5)
		_, err = f.trading.Sell(alice, p.ID, "UBER", 1, &override)
		require.Error(t, err)
		require.Equal(t, "INVALID_SALE_PRICE", ledger.CodeOf(err))
		require.Equal(t, []repository.Holding{{Ticker: "UBER", Quantity: 2}}, f.holdingsOf(t, p.ID))
	})

	t.Run("negative override price is rejected before any lookup", func(t *testing.T) {
		f := newFixture(t)
		ghost := domain.Session{UserID: 99, Username: "ghost", Role: model.UserRole_User}

		override := decimal.NewFromInt(-5)
		_, err := f.trading.Sell(ghost, 0, "AAPL", 1, &override)
		require.Error(t, err)
		require.Equal(t, "INVALID_SALE_PRICE", ledger.CodeOf(err))
	})

	t.Run("an override cannot introduce an untracked symbol", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		p := f.createPortfolio(t, alice, "growth")

		override := decimal.NewFromInt(10)
		_, err := f.trading.Sell(alice, p.ID, "ZZZZ", 1, &override)
		require.Error(t, err)
		require.Equal(t, "SYMBOL_NOT_AVAILABLE", ledger.CodeOf(err))
	})

	t.Run("insufficient shares leaves no partial effect", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		p := f.createPortfolio(t, alice, "growth")

		_, err := f.trading.Buy(alice, p.ID, "UBER", 2)
		require.NoError(t, err)
		balanceAfterBuy := f.balanceOf(t, "alice")

		_, err = f.trading.Sell(alice, p.ID, "UBER", 3, nil)
		require.Error(t, err)
		require.Equal(t, ledger.KindInsufficientShares, ledger.KindOf(err))
		require.True(t, f.balanceOf(t, "alice").Equal(balanceAfterBuy))
		require.Equal(t, []repository.Holding{{Ticker: "UBER", Quantity: 2}}, f.holdingsOf(t, p.ID))
	})

	t.Run("selling a symbol never bought reports insufficient shares", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		p := f.createPortfolio(t, alice, "growth")

		_, err := f.trading.Sell(alice, p.ID, "AAPL", 1, nil)
		require.Error(t, err)
		require.Equal(t, ledger.KindInsufficientShares, ledger.KindOf(err))
	})

	t.Run("holdings in another portfolio do not count", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		p1 := f.createPortfolio(t, alice, "growth")
		p2 := f.createPortfolio(t, alice, "income")

		_, err := f.trading.Buy(alice, p1.ID, "UBER", 3)
		require.NoError(t, err)

		_, err = f.trading.Sell(alice, p2.ID, "UBER", 1, nil)
		require.Error(t, err)
		require.Equal(t, ledger.KindInsufficientShares, ledger.KindOf(err))
	})
}
