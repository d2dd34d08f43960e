package repository

import (
	"kiwiledger/internal/db/models/postgres/public/model"

	"github.com/shopspring/decimal"
)

// Per-entity views over a shared JSONDirectory. Each handler satisfies the
// same interface as its postgres counterpart, so services never know which
// backend they run against.

type jsonUserRepositoryHandler struct {
	store *JSONDirectory
}

func NewJSONUserRepository(store *JSONDirectory) UserRepository {
	return jsonUserRepositoryHandler{store: store}
}

func (h jsonUserRepositoryHandler) Find(tx Tx, username string) (*model.UserAccount, error) {
	return h.store.Find(tx, username)
}

func (h jsonUserRepositoryHandler) List(tx Tx) ([]model.UserAccount, error) {
	return h.store.List(tx)
}

func (h jsonUserRepositoryHandler) Create(tx Tx, user model.UserAccount) (*model.UserAccount, error) {
	return h.store.Create(tx, user)
}

func (h jsonUserRepositoryHandler) Delete(tx Tx, username string) error {
	return h.store.Delete(tx, username)
}

func (h jsonUserRepositoryHandler) UpdateBalance(tx Tx, userID int32, balance decimal.Decimal) error {
	return h.store.UpdateBalance(tx, userID, balance)
}

func (h jsonUserRepositoryHandler) UpdateRole(tx Tx, username string, role model.UserRole) error {
	return h.store.UpdateRole(tx, username, role)
}

func (h jsonUserRepositoryHandler) UpdatePassword(tx Tx, username string, digest string) error {
	return h.store.UpdatePassword(tx, username, digest)
}

func (h jsonUserRepositoryHandler) CountAdmins(tx Tx) (int64, error) {
	return h.store.CountAdmins(tx)
}

type jsonPortfolioRepositoryHandler struct {
	store *JSONDirectory
}

func NewJSONPortfolioRepository(store *JSONDirectory) PortfolioRepository {
	return jsonPortfolioRepositoryHandler{store: store}
}

func (h jsonPortfolioRepositoryHandler) Find(tx Tx, id int32) (*model.Portfolio, error) {
	return h.store.FindPortfolio(tx, id)
}

func (h jsonPortfolioRepositoryHandler) List(tx Tx) ([]model.Portfolio, error) {
	return h.store.ListPortfolios(tx)
}

func (h jsonPortfolioRepositoryHandler) ListByOwner(tx Tx, userID int32) ([]model.Portfolio, error) {
	return h.store.ListPortfoliosByOwner(tx, userID)
}

func (h jsonPortfolioRepositoryHandler) Create(tx Tx, portfolio model.Portfolio) (*model.Portfolio, error) {
	return h.store.CreatePortfolio(tx, portfolio)
}

func (h jsonPortfolioRepositoryHandler) Update(tx Tx, portfolio model.Portfolio) error {
	return h.store.UpdatePortfolio(tx, portfolio)
}

func (h jsonPortfolioRepositoryHandler) Delete(tx Tx, id int32) error {
	return h.store.DeletePortfolio(tx, id)
}

type jsonSecurityRepositoryHandler struct {
	store *JSONDirectory
}

func NewJSONSecurityRepository(store *JSONDirectory) SecurityRepository {
	return jsonSecurityRepositoryHandler{store: store}
}

func (h jsonSecurityRepositoryHandler) FindByTicker(tx Tx, ticker string) (*model.Security, error) {
	return h.store.FindByTicker(tx, ticker)
}

func (h jsonSecurityRepositoryHandler) List(tx Tx) ([]model.Security, error) {
	return h.store.ListSecurities(tx)
}

func (h jsonSecurityRepositoryHandler) FindOrCreate(tx Tx, ticker string, name string, referencePrice decimal.Decimal) (*model.Security, error) {
	return h.store.FindOrCreateSecurity(tx, ticker, name, referencePrice)
}

type jsonInvestmentRepositoryHandler struct {
	store *JSONDirectory
}

func NewJSONInvestmentRepository(store *JSONDirectory) InvestmentRepository {
	return jsonInvestmentRepositoryHandler{store: store}
}

func (h jsonInvestmentRepositoryHandler) Get(tx Tx, portfolioID int32, securityID int32) (*model.Investment, error) {
	return h.store.GetInvestment(tx, portfolioID, securityID)
}

func (h jsonInvestmentRepositoryHandler) HoldingsByPortfolio(tx Tx, portfolioID int32) ([]Holding, error) {
	return h.store.HoldingsByPortfolio(tx, portfolioID)
}

func (h jsonInvestmentRepositoryHandler) SetQuantity(tx Tx, portfolioID int32, securityID int32, qty int32) error {
	return h.store.SetInvestmentQuantity(tx, portfolioID, securityID, qty)
}

type jsonTransactionRepositoryHandler struct {
	store *JSONDirectory
}

func NewJSONTransactionRepository(store *JSONDirectory) TransactionRepository {
	return jsonTransactionRepositoryHandler{store: store}
}

func (h jsonTransactionRepositoryHandler) Add(tx Tx, txn model.PortfolioTransaction) (*model.PortfolioTransaction, error) {
	return h.store.AddTransaction(tx, txn)
}

func (h jsonTransactionRepositoryHandler) List(tx Tx, filter TransactionListFilter) ([]model.PortfolioTransaction, error) {
	return h.store.ListTransactions(tx, filter)
}
