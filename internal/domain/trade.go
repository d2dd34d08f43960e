package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeConfirmation is returned after a buy or sell settles.
type TradeConfirmation struct {
	TransactionID uuid.UUID
	PortfolioID   int32
	Ticker        string
	Quantity      int32
	Price         decimal.Decimal
	Total         decimal.Decimal
	NewBalance    decimal.Decimal
}

// SymbolLiquidation records the outcome for one held symbol during a full
// liquidation. A failed sale leaves the position untouched and carries the
// error code instead of proceeds.
type SymbolLiquidation struct {
	PortfolioID int32
	Ticker      string
	Quantity    int32
	Proceeds    decimal.Decimal
	ErrorCode   string
}

func (s SymbolLiquidation) Sold() bool {
	return s.ErrorCode == ""
}

// LiquidationReport summarizes a LiquidateAll run. TotalProceeds and
// EndingBalance only reflect the sales that settled.
type LiquidationReport struct {
	Username      string
	Sales         []SymbolLiquidation
	TotalProceeds decimal.Decimal
	EndingBalance decimal.Decimal
}
