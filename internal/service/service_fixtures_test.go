package service

import (
	"testing"

	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/domain"
	"kiwiledger/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fixture wires the full service graph over an in-memory directory, so
// tests exercise the same code paths as a running deployment.
type fixture struct {
	dir          *repository.JSONDirectory
	users        repository.UserRepository
	portfolios   repository.PortfolioRepository
	securities   repository.SecurityRepository
	investments  repository.InvestmentRepository
	transactions repository.TransactionRepository

	credentials CredentialService
	accounts    AccountService
	books       PortfolioService
	trading     TradingService
	liquidation LiquidationService
	statements  StatementService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir, err := repository.NewJSONDirectory("")
	require.NoError(t, err)

	f := &fixture{
		dir:          dir,
		users:        repository.NewJSONUserRepository(dir),
		portfolios:   repository.NewJSONPortfolioRepository(dir),
		securities:   repository.NewJSONSecurityRepository(dir),
		investments:  repository.NewJSONInvestmentRepository(dir),
		transactions: repository.NewJSONTransactionRepository(dir),
	}
	f.credentials = NewCredentialService(f.users, zap.NewNop().Sugar())
	f.accounts = NewAccountService(dir, f.users, f.credentials)
	f.books = NewPortfolioService(dir, f.users, f.portfolios, f.investments)
	f.trading = NewTradingService(dir, f.users, f.portfolios, f.securities, f.investments, f.transactions, NewStaticPriceService())
	f.liquidation = NewLiquidationService(f.users, f.portfolios, f.investments, f.trading)
	f.statements = NewStatementService(f.users, f.securities, f.transactions)

	return f
}

func (f *fixture) createUser(t *testing.T, username string, role model.UserRole, balance decimal.Decimal) domain.Session {
	t.Helper()
	user, err := f.accounts.CreateUser(CreateUserInput{
		Username:        username,
		Password:        "hunter2",
		FirstName:       "Test",
		LastName:        "User",
		Role:            role,
		StartingBalance: balance,
	})
	require.NoError(t, err)
	return domain.Session{UserID: user.ID, Username: user.Username, Role: user.Role}
}

func (f *fixture) createPortfolio(t *testing.T, session domain.Session, name string) *model.Portfolio {
	t.Helper()
	portfolio, err := f.books.Create(session, CreatePortfolioInput{Name: name})
	require.NoError(t, err)
	return portfolio
}

func (f *fixture) balanceOf(t *testing.T, username string) decimal.Decimal {
	t.Helper()
	user, err := f.users.Find(nil, username)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user.Balance
}

func (f *fixture) holdingsOf(t *testing.T, portfolioID int32) []repository.Holding {
	t.Helper()
	holdings, err := f.investments.HoldingsByPortfolio(nil, portfolioID)
	require.NoError(t, err)
	return holdings
}
