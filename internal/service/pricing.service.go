package service

import (
	"strings"
	"sync"

	"kiwiledger/internal/ledger"

	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// PriceService quotes the securities the desk trades. Tickers are
// case-insensitive; an unknown ticker fails with SYMBOL_NOT_AVAILABLE.
type PriceService interface {
	Quote(ticker string) (decimal.Decimal, error)
	PriceMap() (map[string]decimal.Decimal, error)
}

// referencePrices is the fixed quote sheet served when no live source is
// configured.
var referencePrices = map[string]decimal.Decimal{
	"AAPL":  decimal.NewFromFloat(175.00),
	"GOOGL": decimal.NewFromFloat(140.00),
	"MSFT":  decimal.NewFromFloat(410.00),
	"TSLA":  decimal.NewFromFloat(250.00),
	"AMZN":  decimal.NewFromFloat(145.00),
	"NVDA":  decimal.NewFromFloat(450.00),
	"META":  decimal.NewFromFloat(325.00),
	"NFLX":  decimal.NewFromFloat(400.00),
	"SPOT":  decimal.NewFromFloat(180.00),
	"UBER":  decimal.NewFromFloat(65.00),
}

var (
	priceOverrideMu sync.RWMutex
	priceOverrides  map[string]decimal.Decimal
)

// OverridePrices swaps the entire static quote sheet, process-wide, until
// ResetPriceOverrides is called. Tests use this to pin prices.
func OverridePrices(pm map[string]decimal.Decimal) {
	normalized := make(map[string]decimal.Decimal, len(pm))
	for ticker, price := range pm {
		normalized[NormalizeTicker(ticker)] = price
	}
	priceOverrideMu.Lock()
	priceOverrides = normalized
	priceOverrideMu.Unlock()
}

func ResetPriceOverrides() {
	priceOverrideMu.Lock()
	priceOverrides = nil
	priceOverrideMu.Unlock()
}

func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

type staticPriceServiceHandler struct{}

func NewStaticPriceService() PriceService {
	return staticPriceServiceHandler{}
}

func (h staticPriceServiceHandler) sheet() map[string]decimal.Decimal {
	priceOverrideMu.RLock()
	defer priceOverrideMu.RUnlock()
	if priceOverrides != nil {
		return priceOverrides
	}
	return referencePrices
}

func (h staticPriceServiceHandler) Quote(ticker string) (decimal.Decimal, error) {
	price, ok := h.sheet()[NormalizeTicker(ticker)]
	if !ok {
		return decimal.Zero, ledger.NewSecurityNotAvailable(ticker)
	}
	return price, nil
}

func (h staticPriceServiceHandler) PriceMap() (map[string]decimal.Decimal, error) {
	sheet := h.sheet()
	out := make(map[string]decimal.Decimal, len(sheet))
	for ticker, price := range sheet {
		out[ticker] = price
	}
	return out, nil
}

// livePriceServiceHandler pulls real quotes. The static sheet still defines
// which tickers are tradable, so a symbol outside it is rejected before we
// hit the quote API.
type livePriceServiceHandler struct{}

func NewLivePriceService() PriceService {
	return livePriceServiceHandler{}
}

func (h livePriceServiceHandler) Quote(ticker string) (decimal.Decimal, error) {
	normalized := NormalizeTicker(ticker)
	if _, ok := referencePrices[normalized]; !ok {
		return decimal.Zero, ledger.NewSecurityNotAvailable(ticker)
	}

	q, err := quote.Get(normalized)
	if err != nil {
		return decimal.Zero, ledger.NewDataAccess(err, "failed to fetch quote for %s", normalized)
	}
	if q == nil {
		return decimal.Zero, ledger.NewSecurityNotAvailable(ticker)
	}

	return decimal.NewFromFloat(q.RegularMarketPrice), nil
}

func (h livePriceServiceHandler) PriceMap() (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(referencePrices))
	for ticker := range referencePrices {
		price, err := h.Quote(ticker)
		if err != nil {
			return nil, err
		}
		out[ticker] = price
	}
	return out, nil
}
