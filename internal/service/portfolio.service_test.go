package service

import (
	"testing"

	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/ledger"
	"kiwiledger/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Test_portfolioServiceHandler_Create(t *testing.T) {
	t.Run("owned by the caller", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.Zero)

		desc := "long horizon picks"
		portfolio, err := f.books.Create(alice, CreatePortfolioInput{
			Name:        "growth",
			Description: &desc,
		})
		require.NoError(t, err)
		require.Equal(t, alice.UserID, portfolio.UserID)
		require.Equal(t, "growth", portfolio.Name)
		require.NotNil(t, portfolio.Description)
	})

	t.Run("name must not be blank", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.Zero)

		_, err := f.books.Create(alice, CreatePortfolioInput{Name: "   "})
		require.Error(t, err)
		require.Equal(t, "INVALID_PORTFOLIO_NAME", ledger.CodeOf(err))
	})

	t.Run("session for a deleted user is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.createUser(t, "root", model.UserRole_Admin, decimal.Zero)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.Zero)
		require.NoError(t, f.users.Delete(nil, "alice"))

		_, err := f.books.Create(alice, CreatePortfolioInput{Name: "growth"})
		require.Error(t, err)
		require.Equal(t, ledger.KindUserNotFound, ledger.KindOf(err))
	})
}

func Test_portfolioServiceHandler_Get(t *testing.T) {
	t.Run("owner sees holdings sorted by ticker", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(10000))
		p := f.createPortfolio(t, alice, "growth")
		_, err := f.trading.Buy(alice, p.ID, "UBER", 1)
		require.NoError(t, err)
		_, err = f.trading.Buy(alice, p.ID, "AAPL", 2)
		require.NoError(t, err)

		detail, err := f.books.Get(alice, p.ID)
		require.NoError(t, err)
		require.Equal(t, p.ID, detail.Portfolio.ID)
		require.Equal(t, []repository.Holding{
			{Ticker: "AAPL", Quantity: 2},
			{Ticker: "UBER", Quantity: 1},
		}, detail.Holdings)
	})

	t.Run("a stranger cannot tell the portfolio exists", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.Zero)
		bob := f.createUser(t, "bob", model.UserRole_User, decimal.Zero)
		p := f.createPortfolio(t, alice, "growth")

		_, err := f.books.Get(bob, p.ID)
		require.Error(t, err)
		require.Equal(t, ledger.KindPortfolioNotFound, ledger.KindOf(err))

		_, err = f.books.Get(bob, 999)
		require.Error(t, err)
		require.Equal(t, ledger.KindPortfolioNotFound, ledger.KindOf(err))
	})

	t.Run("admins see any portfolio", func(t *testing.T) {
		f := newFixture(t)
		root := f.createUser(t, "root", model.UserRole_Admin, decimal.Zero)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.Zero)
		p := f.createPortfolio(t, alice, "growth")

		detail, err := f.books.Get(root, p.ID)
		require.NoError(t, err)
		require.Equal(t, "growth", detail.Portfolio.Name)
	})
}

func Test_portfolioServiceHandler_List(t *testing.T) {
	f := newFixture(t)
	root := f.createUser(t, "root", model.UserRole_Admin, decimal.Zero)
	alice := f.createUser(t, "alice", model.UserRole_User, decimal.Zero)
	bob := f.createUser(t, "bob", model.UserRole_User, decimal.Zero)
	f.createPortfolio(t, alice, "growth")
	f.createPortfolio(t, bob, "income")

	mine, err := f.books.List(alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "growth", mine[0].Name)

	all, err := f.books.List(root)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func Test_portfolioServiceHandler_Update(t *testing.T) {
	t.Run("owner renames", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.Zero)
		p := f.createPortfolio(t, alice, "growth")

		strategy := "value tilt"
		updated, err := f.books.Update(alice, p.ID, UpdatePortfolioInput{
			Name:               "core",
			InvestmentStrategy: &strategy,
		})
		require.NoError(t, err)
		require.Equal(t, "core", updated.Name)

		detail, err := f.books.Get(alice, p.ID)
		require.NoError(t, err)
		require.Equal(t, "core", detail.Portfolio.Name)
		require.NotNil(t, detail.Portfolio.InvestmentStrategy)
	})

	t.Run("stranger cannot update", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.Zero)
		bob := f.createUser(t, "bob", model.UserRole_User, decimal.Zero)
		p := f.createPortfolio(t, alice, "growth")

		_, err := f.books.Update(bob, p.ID, UpdatePortfolioInput{Name: "mine now"})
		require.Error(t, err)
		require.Equal(t, ledger.KindPortfolioNotFound, ledger.KindOf(err))
	})
}

func Test_portfolioServiceHandler_Delete(t *testing.T) {
	t.Run("removes the portfolio and its positions", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		p := f.createPortfolio(t, alice, "growth")
		_, err := f.trading.Buy(alice, p.ID, "UBER", 1)
		require.NoError(t, err)

		require.NoError(t, f.books.Delete(alice, p.ID))

		_, err = f.books.Get(alice, p.ID)
		require.Error(t, err)
		require.Equal(t, ledger.KindPortfolioNotFound, ledger.KindOf(err))
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.Zero)
		bob := f.createUser(t, "bob", model.UserRole_User, decimal.Zero)
		p := f.createPortfolio(t, alice, "growth")

		err := f.books.Delete(bob, p.ID)
		require.Error(t, err)
		require.Equal(t, ledger.KindPortfolioNotFound, ledger.KindOf(err))

		_, err = f.books.Get(alice, p.ID)
		require.NoError(t, err)
	})
}
