package api

import (
	"strconv"

	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/repository"

	"github.com/gin-gonic/gin"
)

type portfolioResponse struct {
	ID                 int32             `json:"id"`
	Name               string            `json:"name"`
	Description        *string           `json:"description,omitempty"`
	InvestmentStrategy *string           `json:"investmentStrategy,omitempty"`
	Holdings           []holdingResponse `json:"holdings,omitempty"`
}

type holdingResponse struct {
	Ticker   string `json:"ticker"`
	Quantity int32  `json:"quantity"`
}

func toPortfolioResponse(p model.Portfolio, holdings []repository.Holding) portfolioResponse {
	out := portfolioResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		InvestmentStrategy: p.InvestmentStrategy,
	}
	for _, h := range holdings {
		out.Holdings = append(out.Holdings, holdingResponse{Ticker: h.Ticker, Quantity: h.Quantity})
	}
	return out
}

func portfolioIDParam(c *gin.Context) (int32, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return 0, false
	}
	return int32(id), true
}

func (m ApiHandler) listPortfolios(c *gin.Context) {
	session := sessionFromContext(c)

	portfolios, err := m.PortfolioService.List(session)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := make([]portfolioResponse, 0, len(portfolios))
	for _, p := range portfolios {
		out = append(out, toPortfolioResponse(p, nil))
	}
	c.JSON(200, out)
}

func (m ApiHandler) getPortfolio(c *gin.Context) {
	session := sessionFromContext(c)
	id, ok := portfolioIDParam(c)
	if !ok {
		return
	}

	detail, err := m.PortfolioService.Get(session, id)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, toPortfolioResponse(detail.Portfolio, detail.Holdings))
}
