package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/repository"
	"kiwiledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) ApiHandler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir, err := repository.NewJSONDirectory("")
	require.NoError(t, err)

	users := repository.NewJSONUserRepository(dir)
	portfolios := repository.NewJSONPortfolioRepository(dir)
	securities := repository.NewJSONSecurityRepository(dir)
	investments := repository.NewJSONInvestmentRepository(dir)
	transactions := repository.NewJSONTransactionRepository(dir)

	credentials := service.NewCredentialService(users, zap.NewNop().Sugar())
	accounts := service.NewAccountService(dir, users, credentials)
	books := service.NewPortfolioService(dir, users, portfolios, investments)
	prices := service.NewStaticPriceService()
	trading := service.NewTradingService(dir, users, portfolios, securities, investments, transactions, prices)
	liquidation := service.NewLiquidationService(users, portfolios, investments, trading)
	statements := service.NewStatementService(users, securities, transactions)

	handler := ApiHandler{
		JwtSigningKey:      "test-signing-key",
		CredentialService:  credentials,
		AccountService:     accounts,
		PortfolioService:   books,
		TradingService:     trading,
		LiquidationService: liquidation,
		StatementService:   statements,
		PriceService:       prices,
	}

	_, err = accounts.CreateUser(service.CreateUserInput{
		Username:        "admin",
		Password:        "admin",
		Role:            model.UserRole_Admin,
		StartingBalance: decimal.NewFromInt(10000),
	})
	require.NoError(t, err)

	return handler
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loginAs(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/login", "", loginRequest{Username: username, Password: password})
	require.Equal(t, 200, w.Code, w.Body.String())

	var resp loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func Test_login(t *testing.T) {
	handler := newTestHandler(t)
	router := handler.Router()

	t.Run("valid credentials", func(t *testing.T) {
		token := loginAs(t, router, "admin", "admin")
		require.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/login", "", loginRequest{Username: "admin", Password: "wrong"})
		require.Equal(t, 401, w.Code)
	})
}

func Test_authRequired(t *testing.T) {
	handler := newTestHandler(t)
	router := handler.Router()

	w := doRequest(t, router, http.MethodGet, "/portfolios", "", nil)
	require.Equal(t, 401, w.Code)

	w = doRequest(t, router, http.MethodGet, "/portfolios", "not-a-token", nil)
	require.Equal(t, 401, w.Code)
}

func Test_adminOnlyRoutes(t *testing.T) {
	handler := newTestHandler(t)
	router := handler.Router()
	adminToken := loginAs(t, router, "admin", "admin")

	w := doRequest(t, router, http.MethodPost, "/users", adminToken, createUserRequest{
		Username: "alice",
		Password: "hunter2",
		Role:     "user",
	})
	require.Equal(t, 201, w.Code, w.Body.String())

	aliceToken := loginAs(t, router, "alice", "hunter2")

	w = doRequest(t, router, http.MethodGet, "/users", aliceToken, nil)
	require.Equal(t, 403, w.Code)

	w = doRequest(t, router, http.MethodGet, "/users", adminToken, nil)
	require.Equal(t, 200, w.Code)

	var users []userResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
}

func Test_prices(t *testing.T) {
	handler := newTestHandler(t)
	router := handler.Router()
	token := loginAs(t, router, "admin", "admin")

	w := doRequest(t, router, http.MethodGet, "/prices", token, nil)
	require.Equal(t, 200, w.Code, w.Body.String())

	var got []priceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

	want := []priceResponse{
		{Ticker: "AAPL", Price: "175.00"},
		{Ticker: "AMZN", Price: "145.00"},
		{Ticker: "GOOGL", Price: "140.00"},
		{Ticker: "META", Price: "325.00"},
		{Ticker: "MSFT", Price: "410.00"},
		{Ticker: "NFLX", Price: "400.00"},
		{Ticker: "NVDA", Price: "450.00"},
		{Ticker: "SPOT", Price: "180.00"},
		{Ticker: "TSLA", Price: "250.00"},
		{Ticker: "UBER", Price: "65.00"},
	}
	require.Empty(t, cmp.Diff(want, got))
}

func Test_tradeFlow(t *testing.T) {
	handler := newTestHandler(t)
	router := handler.Router()
	token := loginAs(t, router, "admin", "admin")

	w := doRequest(t, router, http.MethodPost, "/portfolios", token, createPortfolioRequest{Name: "growth"})
	require.Equal(t, 201, w.Code, w.Body.String())
	var portfolio portfolioResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &portfolio))

	w = doRequest(t, router, http.MethodPost, "/portfolios/0/buy", token, tradeRequest{Ticker: "AAPL", Quantity: 2})
	require.Equal(t, 200, w.Code, w.Body.String())
	var trade tradeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trade))
	require.Equal(t, "350.00", trade.Total)
	require.Equal(t, "9650.00", trade.NewBalance)

	w = doRequest(t, router, http.MethodGet, "/portfolios/0", token, nil)
	require.Equal(t, 200, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &portfolio))
	require.Len(t, portfolio.Holdings, 1)
	require.Equal(t, "AAPL", portfolio.Holdings[0].Ticker)
	require.Equal(t, int32(2), portfolio.Holdings[0].Quantity)

	// an over-sized sell maps to 422 with the stable code
	w = doRequest(t, router, http.MethodPost, "/portfolios/0/sell", token, tradeRequest{Ticker: "AAPL", Quantity: 5})
	require.Equal(t, 422, w.Code)
	var errBody map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	require.Equal(t, "INSUFFICIENT_SHARES", errBody["code"])

	w = doRequest(t, router, http.MethodGet, "/transactions", token, nil)
	require.Equal(t, 200, w.Code)
	var records []service.TransactionRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)

	w = doRequest(t, router, http.MethodGet, "/transactions/export", token, nil)
	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	require.Contains(t, w.Body.String(), "AAPL")
}

func Test_errorStatusMapping(t *testing.T) {
	handler := newTestHandler(t)
	router := handler.Router()
	token := loginAs(t, router, "admin", "admin")

	t.Run("missing portfolio is 404", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/portfolios/42", token, nil)
		require.Equal(t, 404, w.Code)
	})

	t.Run("duplicate user is 409", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/users", token, createUserRequest{
			Username: "admin",
			Password: "pw",
			Role:     "user",
		})
		require.Equal(t, 409, w.Code)
	})

	t.Run("unknown symbol is 404", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/portfolios", token, createPortfolioRequest{Name: "scratch"})
		require.Equal(t, 201, w.Code)

		w = doRequest(t, router, http.MethodPost, "/portfolios/0/buy", token, tradeRequest{Ticker: "ZZZZ", Quantity: 1})
		require.Equal(t, 404, w.Code)
	})

	t.Run("liquidating with no holdings is 422", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/users/admin/liquidate", token, nil)
		require.Equal(t, 422, w.Code)
		var errBody map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
		require.Equal(t, "NO_HOLDINGS", errBody["code"])
	})
}
