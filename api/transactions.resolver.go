package api

import (
	"strconv"

	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/service"

	"github.com/gin-gonic/gin"
)

func statementFilterFromQuery(c *gin.Context) (service.StatementFilter, error) {
	filter := service.StatementFilter{}
	if v := c.Query("username"); v != "" {
		filter.Username = strPtr(v)
	}
	if v := c.Query("portfolioId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return filter, err
		}
		filter.PortfolioID = int32Ptr(int32(id))
	}
	if v := c.Query("ticker"); v != "" {
		filter.Ticker = strPtr(v)
	}
	if v := c.Query("type"); v != "" {
		t := model.TransactionType(v)
		filter.Type = &t
	}
	return filter, nil
}

func (m ApiHandler) listTransactions(c *gin.Context) {
	session := sessionFromContext(c)

	filter, err := statementFilterFromQuery(c)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	records, err := m.StatementService.ListTransactions(session, filter)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, records)
}

func (m ApiHandler) exportTransactions(c *gin.Context) {
	session := sessionFromContext(c)

	filter, err := statementFilterFromQuery(c)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := m.StatementService.ExportCSV(session, filter, c.Writer); err != nil {
		returnErrorJson(err, c)
		return
	}
}
