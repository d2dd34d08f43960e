package api

import (
	"kiwiledger/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type tradeRequest struct {
	Ticker   string  `json:"ticker"`
	Quantity int32   `json:"quantity"`
	Price    *string `json:"price"`
}

type tradeResponse struct {
	TransactionID string `json:"transactionId"`
	PortfolioID   int32  `json:"portfolioId"`
	Ticker        string `json:"ticker"`
	Quantity      int32  `json:"quantity"`
	Price         string `json:"price"`
	Total         string `json:"total"`
	NewBalance    string `json:"newBalance"`
}

func toTradeResponse(tc domain.TradeConfirmation) tradeResponse {
	return tradeResponse{
		TransactionID: tc.TransactionID.String(),
		PortfolioID:   tc.PortfolioID,
		Ticker:        tc.Ticker,
		Quantity:      tc.Quantity,
		Price:         tc.Price.StringFixed(2),
		Total:         tc.Total.StringFixed(2),
		NewBalance:    tc.NewBalance.StringFixed(2),
	}
}

func (m ApiHandler) buy(c *gin.Context) {
	session := sessionFromContext(c)
	id, ok := portfolioIDParam(c)
	if !ok {
		return
	}

	var requestBody tradeRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	confirmation, err := m.TradingService.Buy(session, id, requestBody.Ticker, requestBody.Quantity)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, toTradeResponse(*confirmation))
}

func (m ApiHandler) sell(c *gin.Context) {
	session := sessionFromContext(c)
	id, ok := portfolioIDParam(c)
	if !ok {
		return
	}

	var requestBody tradeRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	var overridePrice *decimal.Decimal
	if requestBody.Price != nil {
		parsed, err := decimal.NewFromString(*requestBody.Price)
		if err != nil {
			returnErrorJsonCode(err, c, 400)
			return
		}
		overridePrice = &parsed
	}

	confirmation, err := m.TradingService.Sell(session, id, requestBody.Ticker, requestBody.Quantity, overridePrice)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, toTradeResponse(*confirmation))
}
