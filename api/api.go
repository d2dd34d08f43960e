package api

import (
	"fmt"
	"time"

	"kiwiledger/internal/ledger"
	"kiwiledger/internal/logger"
	"kiwiledger/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type ApiHandler struct {
	JwtSigningKey      string
	CredentialService  service.CredentialService
	AccountService     service.AccountService
	PortfolioService   service.PortfolioService
	TradingService     service.TradingService
	LiquidationService service.LiquidationService
	StatementService   service.StatementService
	PriceService       service.PriceService
}

func int32Ptr(i int32) *int32 {
	return &i
}
func strPtr(s string) *string {
	return &s
}

func (m ApiHandler) StartApi(port int) error {
	router := m.Router()
	return router.Run(fmt.Sprintf(":%d", port))
}

func (m ApiHandler) Router() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to kiwiledger"})
	})
	router.POST("/login", m.login)

	authed := router.Group("/", m.requireSession)
	authed.GET("/prices", m.prices)

	authed.GET("/users", m.requireAdmin, m.listUsers)
	authed.POST("/users", m.requireAdmin, m.createUser)
	authed.DELETE("/users/:username", m.requireAdmin, m.deleteUser)
	authed.PUT("/users/:username/role", m.requireAdmin, m.changeRole)
	authed.POST("/users/:username/liquidate", m.liquidate)

	authed.GET("/portfolios", m.listPortfolios)
	authed.POST("/portfolios", m.createPortfolio)
	authed.GET("/portfolios/:id", m.getPortfolio)
	authed.PUT("/portfolios/:id", m.updatePortfolio)
	authed.DELETE("/portfolios/:id", m.deletePortfolio)
	authed.POST("/portfolios/:id/buy", m.buy)
	authed.POST("/portfolios/:id/sell", m.sell)

	authed.GET("/transactions", m.listTransactions)
	authed.GET("/transactions/export", m.exportTransactions)

	return router
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, statusForError(err))
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	lg := logger.FromContext(c)
	lg.Warnf("request failed: %v", err)
	body := gin.H{
		"error": err.Error(),
	}
	if errCode := ledger.CodeOf(err); errCode != "" {
		body["code"] = errCode
	}
	c.AbortWithStatusJSON(code, body)
}

// statusForError maps a failure kind to an HTTP status. Untyped errors are
// treated as internal faults.
func statusForError(err error) int {
	switch ledger.KindOf(err) {
	case ledger.KindValidation:
		return 400
	case ledger.KindInvalidCredentials:
		return 401
	case ledger.KindAuthorization:
		return 403
	case ledger.KindUserNotFound, ledger.KindPortfolioNotFound, ledger.KindSecurityNotAvailable:
		return 404
	case ledger.KindUniqueConstraint:
		return 409
	case ledger.KindInsufficientFunds, ledger.KindInsufficientShares,
		ledger.KindAdminProtection, ledger.KindEmptyHoldings:
		return 422
	default:
		return 500
	}
}

func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	lg := logger.FromContext(ctx)
	start := time.Now().UTC()

	ctx.Next()

	lg.Infow("request",
		"method", ctx.Request.Method,
		"route", ctx.Request.URL.Path,
		"status", ctx.Writer.Status(),
		"ip", ctx.ClientIP(),
		"elapsedMs", time.Since(start).Milliseconds(),
	)
}
