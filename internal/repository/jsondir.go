package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JSONDirectory is the file-backed directory implementation. A single mutex
// serializes every atomic unit: Begin takes the lock and snapshots the
// in-memory state, Rollback restores the snapshot, Commit writes the JSON
// file with a tmp-file + rename so a crash mid-write cannot corrupt it.
// An empty path keeps the store purely in memory (used by tests).
type JSONDirectory struct {
	path string

	mu    sync.Mutex
	state *jsonState
}

type jsonState struct {
	Users        []model.UserAccount          `json:"users"`
	Portfolios   []model.Portfolio            `json:"portfolios"`
	Securities   []model.Security             `json:"securities"`
	Investments  []model.Investment           `json:"investments"`
	Transactions []model.PortfolioTransaction `json:"transactions"`

	NextUserID       int32 `json:"nextUserId"`
	NextPortfolioID  int32 `json:"nextPortfolioId"`
	NextSecurityID   int32 `json:"nextSecurityId"`
	NextInvestmentID int32 `json:"nextInvestmentId"`
}

func newJSONState() *jsonState {
	return &jsonState{
		NextUserID:       1,
		NextSecurityID:   1,
		NextInvestmentID: 1,
		// portfolio ids start at 0, matching the historical data files
	}
}

func (s *jsonState) clone() *jsonState {
	cp := &jsonState{
		Users:            append([]model.UserAccount{}, s.Users...),
		Portfolios:       make([]model.Portfolio, 0, len(s.Portfolios)),
		Securities:       append([]model.Security{}, s.Securities...),
		Investments:      append([]model.Investment{}, s.Investments...),
		Transactions:     append([]model.PortfolioTransaction{}, s.Transactions...),
		NextUserID:       s.NextUserID,
		NextPortfolioID:  s.NextPortfolioID,
		NextSecurityID:   s.NextSecurityID,
		NextInvestmentID: s.NextInvestmentID,
	}
	for _, p := range s.Portfolios {
		if p.Description != nil {
			d := *p.Description
			p.Description = &d
		}
		if p.InvestmentStrategy != nil {
			st := *p.InvestmentStrategy
			p.InvestmentStrategy = &st
		}
		cp.Portfolios = append(cp.Portfolios, p)
	}
	return cp
}

func NewJSONDirectory(path string) (*JSONDirectory, error) {
	d := &JSONDirectory{path: path, state: newJSONState()}
	if path == "" {
		return d, nil
	}

	f, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory file %s: %w", path, err)
	}

	state := newJSONState()
	if err := json.Unmarshal(f, state); err != nil {
		return nil, fmt.Errorf("failed to parse directory file %s: %w", path, err)
	}
	d.state = state

	return d, nil
}

type jsonTx struct {
	dir      *JSONDirectory
	snapshot *jsonState
	done     bool
}

func (d *JSONDirectory) Begin() (Tx, error) {
	d.mu.Lock()
	return &jsonTx{dir: d, snapshot: d.state.clone()}, nil
}

func (t *jsonTx) Commit() error {
	if t.done {
		return fmt.Errorf("tx already finished")
	}
	t.done = true
	defer t.dir.mu.Unlock()

	if err := t.dir.persistLocked(); err != nil {
		t.dir.state = t.snapshot
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (t *jsonTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.dir.state = t.snapshot
	t.dir.mu.Unlock()
	return nil
}

// enter acquires the store for a single call when no tx is open; inside a
// tx the lock is already held by Begin.
func (d *JSONDirectory) enter(tx Tx) (func(), error) {
	if tx == nil {
		d.mu.Lock()
		return d.mu.Unlock, nil
	}
	jt, ok := tx.(*jsonTx)
	if !ok || jt.dir != d {
		return nil, fmt.Errorf("json directory received a foreign tx of type %T", tx)
	}
	if jt.done {
		return nil, fmt.Errorf("tx already finished")
	}
	return func() {}, nil
}

func (d *JSONDirectory) persistLocked() error {
	if d.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(d.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode directory state: %w", err)
	}

	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write directory file: %w", err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("failed to replace directory file: %w", err)
	}

	return nil
}

// persistAfterWrite flushes single-call writes that run outside a tx;
// tx-scoped writes are flushed once at Commit.
func (d *JSONDirectory) persistAfterWrite(tx Tx) error {
	if tx != nil {
		return nil
	}
	return d.persistLocked()
}

// --- UserRepository ---

func (d *JSONDirectory) Find(tx Tx, username string) (*model.UserAccount, error) {
	leave, err := d.enter(tx)
	if err != nil {
		return nil, err
	}
	defer leave()

	for _, u := range d.state.Users {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (d *JSONDirectory) List(tx Tx) ([]model.UserAccount, error) {
	leave, err := d.enter(tx)
	if err != nil {
		return nil, err
	}
	defer leave()

	out := append([]model.UserAccount{}, d.state.Users...)
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (d *JSONDirectory) Create(tx Tx, user model.UserAccount) (*model.UserAccount, error) {
	leave, err := d.enter(tx)
	if err != nil {
		return nil, err
	}
	defer leave()

	for _, u := range d.state.Users {
		if u.Username == user.Username {
			return nil, ledger.NewUniqueConstraint("USER_ALREADY_EXISTS", "user %q already exists", user.Username)
		}
	}

	user.ID = d.state.NextUserID
	d.state.NextUserID++
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = time.Now().UTC()
	d.state.Users = append(d.state.Users, user)

	if err := d.persistAfterWrite(tx); err != nil {
		return nil, err
	}
	cp := user
	return &cp, nil
}

func (d *JSONDirectory) Delete(tx Tx, username string) error {
	leave, err := d.enter(tx)
	if err != nil {
		return err
	}
	defer leave()

	idx := -1
	for i, u := range d.state.Users {
		if u.Username == username {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ledger.NewUserNotFound(username)
	}
	userID := d.state.Users[idx].ID
	d.state.Users = append(d.state.Users[:idx], d.state.Users[idx+1:]...)

	// cascade: owned portfolios, their investments, and the user's ledger rows
	ownedPortfolios := map[int32]bool{}
	kept := d.state.Portfolios[:0]
	for _, p := range d.state.Portfolios {
		if p.UserID == userID {
			ownedPortfolios[p.ID] = true
			continue
		}
		kept = append(kept, p)
	}
	d.state.Portfolios = kept

	keptInv := d.state.Investments[:0]
	for _, inv := range d.state.Investments {
		if !ownedPortfolios[inv.PortfolioID] {
			keptInv = append(keptInv, inv)
		}
	}
	d.state.Investments = keptInv

	keptTxn := d.state.Transactions[:0]
	for _, txn := range d.state.Transactions {
		if txn.UserID != userID && !ownedPortfolios[txn.PortfolioID] {
			keptTxn = append(keptTxn, txn)
		}
	}
	d.state.Transactions = keptTxn

	return d.persistAfterWrite(tx)
}

func (d *JSONDirectory) UpdateBalance(tx Tx, userID int32, balance decimal.Decimal) error {
	leave, err := d.enter(tx)
	if err != nil {
		return err
	}
	defer leave()

	for i := range d.state.Users {
		if d.state.Users[i].ID == userID {
			d.state.Users[i].Balance = balance
			d.state.Users[i].UpdatedAt = time.Now().UTC()
			return d.persistAfterWrite(tx)
		}
	}
	return ledger.NewUserNotFound(fmt.Sprintf("id=%d", userID))
}

func (d *JSONDirectory) UpdateRole(tx Tx, username string, role model.UserRole) error {
	leave, err := d.enter(tx)
	if err != nil {
		return err
	}
	defer leave()

	for i := range d.state.Users {
		if d.state.Users[i].Username == username {
			d.state.Users[i].Role = role
			d.state.Users[i].UpdatedAt = time.Now().UTC()
			return d.persistAfterWrite(tx)
		}
	}
	return ledger.NewUserNotFound(username)
}

func (d *JSONDirectory) UpdatePassword(tx Tx, username string, digest string) error {
	leave, err := d.enter(tx)
	if err != nil {
		return err
	}
	defer leave()

	for i := range d.state.Users {
		if d.state.Users[i].Username == username {
			d.state.Users[i].Password = digest
			d.state.Users[i].UpdatedAt = time.Now().UTC()
			return d.persistAfterWrite(tx)
		}
	}
	return ledger.NewUserNotFound(username)
}

func (d *JSONDirectory) CountAdmins(tx Tx) (int64, error) {
	leave, err := d.enter(tx)
	if err != nil {
		return 0, err
	}
	defer leave()

	var n int64
	for _, u := range d.state.Users {
		if u.Role == model.UserRole_Admin {
			n++
		}
	}
	return n, nil
}

// --- PortfolioRepository ---

func (d *JSONDirectory) FindPortfolio(tx Tx, id int32) (*model.Portfolio, error) {
	leave, err := d.enter(tx)
	if err != nil {
		return nil, err
	}
	defer leave()

	for _, p := range d.state.Portfolios {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (d *JSONDirectory) ListPortfolios(tx Tx) ([]model.Portfolio, error) {
	leave, err := d.enter(tx)
	if err != nil {
		return nil, err
	}
	defer leave()

	out := append([]model.Portfolio{}, d.state.Portfolios...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *JSONDirectory) ListPortfoliosByOwner(tx Tx, userID int32) ([]model.Portfolio, error) {
	leave, err := d.enter(tx)
	if err != nil {
		return nil, err
	}
	defer leave()

	out := []model.Portfolio{}
	for _, p := range d.state.Portfolios {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *JSONDirectory) CreatePortfolio(tx Tx, portfolio model.Portfolio) (*model.Portfolio, error) {
	leave, err := d.enter(tx)
	if err != nil {
		return nil, err
	}
	defer leave()

	portfolio.ID = d.state.NextPortfolioID
	d.state.NextPortfolioID++
	portfolio.CreatedAt = time.Now().UTC()
	portfolio.UpdatedAt = time.Now().UTC()
	d.state.Portfolios = append(d.state.Portfolios, portfolio)

	if err := d.persistAfterWrite(tx); err != nil {
		return nil, err
	}
	cp := portfolio
	return &cp, nil
}

func (d *JSONDirectory) UpdatePortfolio(tx Tx, portfolio model.Portfolio) error {
	leave, err := d.enter(tx)
	if err != nil {
		return err
	}
	defer leave()

	for i := range d.state.Portfolios {
		if d.state.Portfolios[i].ID == portfolio.ID {
			d.state.Portfolios[i].Name = portfolio.Name
			d.state.Portfolios[i].Description = portfolio.Description
			d.state.Portfolios[i].InvestmentStrategy = portfolio.InvestmentStrategy
			d.state.Portfolios[i].UpdatedAt = time.Now().UTC()
			return d.persistAfterWrite(tx)
		}
	}
	return ledger.NewPortfolioNotFound(portfolio.ID)
}

func (d *JSONDirectory) DeletePortfolio(tx Tx, id int32) error {
	leave, err := d.enter(tx)
	if err != nil {
		return err
	}
	defer leave()

	kept := d.state.Portfolios[:0]
	for _, p := range d.state.Portfolios {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	d.state.Portfolios = kept

	keptInv := d.state.Investments[:0]
	for _, inv := range d.state.Investments {
		if inv.PortfolioID != id {
			keptInv = append(keptInv, inv)
		}
	}
	d.state.Investments = keptInv

	keptTxn := d.state.Transactions[:0]
	for _, txn := range d.state.Transactions {
		if txn.PortfolioID != id {
			keptTxn = append(keptTxn, txn)
		}
	}
	d.state.Transactions = keptTxn

	return d.persistAfterWrite(tx)
}

// --- SecurityRepository ---

func (d *JSONDirectory) FindByTicker(tx Tx, ticker string) (*model.Security, error) {
	leave, err := d.enter(tx)
	if err != nil {
		return nil, err
	}
	defer leave()

	for _, s := range d.state.Securities {
		if strings.EqualFold(s.Ticker, ticker) {
			cp := s
			return &cp, nil
		}
	}
	return nil, nil
}

func (d *JSONDirectory) ListSecurities(tx Tx) ([]model.Security, error) {
	leave, err := d.enter(tx)
	if err != nil {
		return nil, err
	}
	defer leave()

	out := append([]model.Security{}, d.state.Securities...)
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out, nil
}

func (d *JSONDirectory) FindOrCreateSecurity(tx Tx, ticker string, name string, referencePrice decimal.Decimal) (*model.Security, error) {
	leave, err := d.enter(tx)
	if err != nil {
		return nil, err
	}
	defer leave()

	for _, s := range d.state.Securities {
		if strings.EqualFold(s.Ticker, ticker) {
			cp := s
			return &cp, nil
		}
	}

	sec := model.Security{
		ID:             d.state.NextSecurityID,
		Ticker:         strings.ToUpper(ticker),
		Name:           name,
		ReferencePrice: referencePrice,
		CreatedAt:      time.Now().UTC(),
	}
	d.state.NextSecurityID++
	d.state.Securities = append(d.state.Securities, sec)

	if err := d.persistAfterWrite(tx); err != nil {
		return nil, err
	}
	cp := sec
	return &cp, nil
}

// --- InvestmentRepository ---

func (d *JSONDirectory) GetInvestment(tx Tx, portfolioID int32, securityID int32) (*model.Investment, error) {
	leave, err := d.enter(tx)
	if err != nil {
		return nil, err
	}
	defer leave()

	for _, inv := range d.state.Investments {
		if inv.PortfolioID == portfolioID && inv.SecurityID == securityID {
			cp := inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (d *JSONDirectory) HoldingsByPortfolio(tx Tx, portfolioID int32) ([]Holding, error) {
	leave, err := d.enter(tx)
	if err != nil {
		return nil, err
	}
	defer leave()

	tickers := map[int32]string{}
	for _, s := range d.state.Securities {
		tickers[s.ID] = s.Ticker
	}

	out := []Holding{}
	for _, inv := range d.state.Investments {
		if inv.PortfolioID == portfolioID {
			out = append(out, Holding{Ticker: tickers[inv.SecurityID], Quantity: inv.Quantity})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out, nil
}

func (d *JSONDirectory) SetInvestmentQuantity(tx Tx, portfolioID int32, securityID int32, qty int32) error {
	leave, err := d.enter(tx)
	if err != nil {
		return err
	}
	defer leave()

	if qty <= 0 {
		kept := d.state.Investments[:0]
		for _, inv := range d.state.Investments {
			if !(inv.PortfolioID == portfolioID && inv.SecurityID == securityID) {
				kept = append(kept, inv)
			}
		}
		d.state.Investments = kept
		return d.persistAfterWrite(tx)
	}

	for i := range d.state.Investments {
		if d.state.Investments[i].PortfolioID == portfolioID && d.state.Investments[i].SecurityID == securityID {
			d.state.Investments[i].Quantity = qty
			return d.persistAfterWrite(tx)
		}
	}

	d.state.Investments = append(d.state.Investments, model.Investment{
		ID:          d.state.NextInvestmentID,
		PortfolioID: portfolioID,
		SecurityID:  securityID,
		Quantity:    qty,
	})
	d.state.NextInvestmentID++
	return d.persistAfterWrite(tx)
}

// --- TransactionRepository ---

func (d *JSONDirectory) AddTransaction(tx Tx, txn model.PortfolioTransaction) (*model.PortfolioTransaction, error) {
	leave, err := d.enter(tx)
	if err != nil {
		return nil, err
	}
	defer leave()

	if txn.TransactionID == uuid.Nil {
		txn.TransactionID = uuid.New()
	}
	if txn.Timestamp.IsZero() {
		txn.Timestamp = time.Now().UTC()
	}
	d.state.Transactions = append(d.state.Transactions, txn)

	if err := d.persistAfterWrite(tx); err != nil {
		return nil, err
	}
	cp := txn
	return &cp, nil
}

func (d *JSONDirectory) ListTransactions(tx Tx, filter TransactionListFilter) ([]model.PortfolioTransaction, error) {
	leave, err := d.enter(tx)
	if err != nil {
		return nil, err
	}
	defer leave()

	out := []model.PortfolioTransaction{}
	for _, txn := range d.state.Transactions {
		if filter.UserID != nil && txn.UserID != *filter.UserID {
			continue
		}
		if filter.PortfolioID != nil && txn.PortfolioID != *filter.PortfolioID {
			continue
		}
		if filter.SecurityID != nil && txn.SecurityID != *filter.SecurityID {
			continue
		}
		if filter.Type != nil && txn.TransactionType != *filter.Type {
			continue
		}
		out = append(out, txn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}
