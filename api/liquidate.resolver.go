package api

import (
	"kiwiledger/internal/domain"

	"github.com/gin-gonic/gin"
)

type liquidationSaleResponse struct {
	PortfolioID int32  `json:"portfolioId"`
	Ticker      string `json:"ticker"`
	Quantity    int32  `json:"quantity"`
	Proceeds    string `json:"proceeds,omitempty"`
	Error       string `json:"error,omitempty"`
}

type liquidationResponse struct {
	Username      string                    `json:"username"`
	Sales         []liquidationSaleResponse `json:"sales"`
	TotalProceeds string                    `json:"totalProceeds"`
	EndingBalance string                    `json:"endingBalance"`
}

func toLiquidationResponse(report domain.LiquidationReport) liquidationResponse {
	out := liquidationResponse{
		Username:      report.Username,
		TotalProceeds: report.TotalProceeds.StringFixed(2),
		EndingBalance: report.EndingBalance.StringFixed(2),
	}
	for _, sale := range report.Sales {
		r := liquidationSaleResponse{
			PortfolioID: sale.PortfolioID,
			Ticker:      sale.Ticker,
			Quantity:    sale.Quantity,
			Error:       sale.ErrorCode,
		}
		if sale.Sold() {
			r.Proceeds = sale.Proceeds.StringFixed(2)
		}
		out.Sales = append(out.Sales, r)
	}
	return out
}

func (m ApiHandler) liquidate(c *gin.Context) {
	session := sessionFromContext(c)
	username := c.Param("username")

	report, err := m.LiquidationService.LiquidateAll(session, username)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, toLiquidationResponse(*report))
}
