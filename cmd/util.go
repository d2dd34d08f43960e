package cmd

import (
	"database/sql"
	"fmt"

	"kiwiledger/api"
	"kiwiledger/internal"
	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/logger"
	"kiwiledger/internal/repository"
	"kiwiledger/internal/service"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// InitializeDependencies builds the full service graph from secrets. The
// returned cleanup closes the database connection when the postgres
// backend is selected.
func InitializeDependencies() (*api.ApiHandler, func() error, error) {
	secrets, err := internal.LoadSecrets()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	var (
		txBeginner            repository.TxBeginner
		userRepository        repository.UserRepository
		portfolioRepository   repository.PortfolioRepository
		securityRepository    repository.SecurityRepository
		investmentRepository  repository.InvestmentRepository
		transactionRepository repository.TransactionRepository
	)
	cleanup := func() error { return nil }

	switch secrets.Directory.Backend {
	case "postgres":
		dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to db: %w", err)
		}
		cleanup = dbConn.Close

		txBeginner = repository.NewPostgresTxBeginner(dbConn)
		userRepository = repository.NewUserRepository(dbConn)
		portfolioRepository = repository.NewPortfolioRepository(dbConn)
		securityRepository = repository.NewSecurityRepository(dbConn)
		investmentRepository = repository.NewInvestmentRepository(dbConn)
		transactionRepository = repository.NewTransactionRepository(dbConn)
	default:
		path := secrets.Directory.JsonPath
		if path == "" {
			path = "ledger.json"
		}
		dir, err := repository.NewJSONDirectory(path)
		if err != nil {
			return nil, nil, err
		}

		txBeginner = dir
		userRepository = repository.NewJSONUserRepository(dir)
		portfolioRepository = repository.NewJSONPortfolioRepository(dir)
		securityRepository = repository.NewJSONSecurityRepository(dir)
		investmentRepository = repository.NewJSONInvestmentRepository(dir)
		transactionRepository = repository.NewJSONTransactionRepository(dir)
	}

	var priceService service.PriceService
	if secrets.Prices.Source == "live" {
		priceService = service.NewLivePriceService()
	} else {
		priceService = service.NewStaticPriceService()
	}

	lg := logger.New()
	credentialService := service.NewCredentialService(userRepository, lg)
	accountService := service.NewAccountService(txBeginner, userRepository, credentialService)
	portfolioService := service.NewPortfolioService(txBeginner, userRepository, portfolioRepository, investmentRepository)
	tradingService := service.NewTradingService(
		txBeginner,
		userRepository,
		portfolioRepository,
		securityRepository,
		investmentRepository,
		transactionRepository,
		priceService,
	)
	liquidationService := service.NewLiquidationService(
		userRepository,
		portfolioRepository,
		investmentRepository,
		tradingService,
	)
	statementService := service.NewStatementService(userRepository, securityRepository, transactionRepository)

	handler := &api.ApiHandler{
		JwtSigningKey:      secrets.JwtSigningKey,
		CredentialService:  credentialService,
		AccountService:     accountService,
		PortfolioService:   portfolioService,
		TradingService:     tradingService,
		LiquidationService: liquidationService,
		StatementService:   statementService,
		PriceService:       priceService,
	}

	if err := seedDefaults(userRepository, securityRepository, accountService, priceService); err != nil {
		return nil, nil, fmt.Errorf("failed to seed directory: %w", err)
	}

	return handler, cleanup, nil
}

// seedDefaults bootstraps an empty directory with the default admin and the
// reference securities. A directory with any users at all is left alone.
func seedDefaults(
	userRepository repository.UserRepository,
	securityRepository repository.SecurityRepository,
	accountService service.AccountService,
	priceService service.PriceService,
) error {
	users, err := userRepository.List(nil)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	_, err = accountService.CreateUser(service.CreateUserInput{
		Username:        "admin",
		Password:        "admin",
		FirstName:       "Default",
		LastName:        "Admin",
		Role:            model.UserRole_Admin,
		StartingBalance: decimal.NewFromInt(10000),
	})
	if err != nil {
		return err
	}

	pm, err := priceService.PriceMap()
	if err != nil {
		return err
	}
	for ticker, price := range pm {
		if _, err := securityRepository.FindOrCreate(nil, ticker, ticker, price); err != nil {
			return err
		}
	}

	return nil
}
