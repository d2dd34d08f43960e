package service

import (
	"io"
	"time"

	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/domain"
	"kiwiledger/internal/ledger"
	"kiwiledger/internal/repository"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// StatementService reads the append-only trade ledger. Regular users only
// see their own rows; admins can read any user's or the whole book.
type StatementService interface {
	ListTransactions(session domain.Session, filter StatementFilter) ([]TransactionRecord, error)
	ExportCSV(session domain.Session, filter StatementFilter, w io.Writer) error
}

// StatementFilter narrows the rows returned. Username only has effect for
// admin callers.
type StatementFilter struct {
	Username    *string
	PortfolioID *int32
	Ticker      *string
	Type        *model.TransactionType
}

// TransactionRecord is one settled trade, flattened for display and export.
type TransactionRecord struct {
	TransactionID string    `json:"transactionId" csv:"transaction_id"`
	Username      string    `json:"username" csv:"username"`
	PortfolioID   int32     `json:"portfolioId" csv:"portfolio_id"`
	Ticker        string    `json:"ticker" csv:"ticker"`
	Type          string    `json:"type" csv:"type"`
	Quantity      int32     `json:"quantity" csv:"quantity"`
	Price         string    `json:"price" csv:"price"`
	Total         string    `json:"total" csv:"total"`
	Timestamp     time.Time `json:"timestamp" csv:"timestamp"`
}

type statementServiceHandler struct {
	UserRepository        repository.UserRepository
	SecurityRepository    repository.SecurityRepository
	TransactionRepository repository.TransactionRepository
}

func NewStatementService(
	userRepository repository.UserRepository,
	securityRepository repository.SecurityRepository,
	transactionRepository repository.TransactionRepository,
) StatementService {
	return statementServiceHandler{
		UserRepository:        userRepository,
		SecurityRepository:    securityRepository,
		TransactionRepository: transactionRepository,
	}
}

func (h statementServiceHandler) ListTransactions(session domain.Session, filter StatementFilter) ([]TransactionRecord, error) {
	listFilter := repository.TransactionListFilter{
		PortfolioID: filter.PortfolioID,
		Type:        filter.Type,
	}

	if session.IsAdmin() {
		if filter.Username != nil {
			target, err := h.UserRepository.Find(nil, *filter.Username)
			if err != nil {
				return nil, err
			}
			if target == nil {
				return nil, ledger.NewUserNotFound(*filter.Username)
			}
			listFilter.UserID = &target.ID
		}
	} else {
		userID := session.UserID
		listFilter.UserID = &userID
	}

	if filter.Ticker != nil {
		security, err := h.SecurityRepository.FindByTicker(nil, NormalizeTicker(*filter.Ticker))
		if err != nil {
			return nil, err
		}
		if security == nil {
			// no trades can reference an unknown security
			return []TransactionRecord{}, nil
		}
		listFilter.SecurityID = &security.ID
	}

	txns, err := h.TransactionRepository.List(nil, listFilter)
	if err != nil {
		return nil, err
	}

	users, err := h.UserRepository.List(nil)
	if err != nil {
		return nil, err
	}
	usernames := make(map[int32]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}

	securities, err := h.SecurityRepository.List(nil)
	if err != nil {
		return nil, err
	}
	tickers := make(map[int32]string, len(securities))
	for _, s := range securities {
		tickers[s.ID] = s.Ticker
	}

	records := make([]TransactionRecord, 0, len(txns))
	for _, txn := range txns {
		records = append(records, TransactionRecord{
			TransactionID: txn.TransactionID.String(),
			Username:      usernames[txn.UserID],
			PortfolioID:   txn.PortfolioID,
			Ticker:        tickers[txn.SecurityID],
			Type:          string(txn.TransactionType),
			Quantity:      txn.Quantity,
			Price:         txn.Price.StringFixed(2),
			Total:         txn.Price.Mul(decimal.NewFromInt32(txn.Quantity)).StringFixed(2),
			Timestamp:     txn.Timestamp,
		})
	}

	return records, nil
}

func (h statementServiceHandler) ExportCSV(session domain.Session, filter StatementFilter, w io.Writer) error {
	records, err := h.ListTransactions(session, filter)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(&records, w); err != nil {
		return ledger.NewDataAccess(err, "failed to write transaction csv")
	}
	return nil
}
