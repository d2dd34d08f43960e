package api

import (
	"kiwiledger/internal/service"

	"github.com/gin-gonic/gin"
)

type createPortfolioRequest struct {
	Name               string  `json:"name"`
	Description        *string `json:"description"`
	InvestmentStrategy *string `json:"investmentStrategy"`
}

func (m ApiHandler) createPortfolio(c *gin.Context) {
	session := sessionFromContext(c)

	var requestBody createPortfolioRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	portfolio, err := m.PortfolioService.Create(session, service.CreatePortfolioInput{
		Name:               requestBody.Name,
		Description:        requestBody.Description,
		InvestmentStrategy: requestBody.InvestmentStrategy,
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(201, toPortfolioResponse(*portfolio, nil))
}

func (m ApiHandler) updatePortfolio(c *gin.Context) {
	session := sessionFromContext(c)
	id, ok := portfolioIDParam(c)
	if !ok {
		return
	}

	var requestBody createPortfolioRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	portfolio, err := m.PortfolioService.Update(session, id, service.UpdatePortfolioInput{
		Name:               requestBody.Name,
		Description:        requestBody.Description,
		InvestmentStrategy: requestBody.InvestmentStrategy,
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, toPortfolioResponse(*portfolio, nil))
}

func (m ApiHandler) deletePortfolio(c *gin.Context) {
	session := sessionFromContext(c)
	id, ok := portfolioIDParam(c)
	if !ok {
		return
	}

	if err := m.PortfolioService.Delete(session, id); err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{"message": "ok"})
}
