package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"nft-market.backend/internal/config"
	"nft-market.backend/internal/domain/entities"
	"nft-market.backend/internal/infrastructure/batching"
	"nft-market.backend/internal/infrastructure/blockchain"
	"nft-market.backend/internal/infrastructure/catalog"
	"nft-market.backend/internal/infrastructure/models"
	"nft-market.backend/internal/infrastructure/repositories"
	"nft-market.backend/internal/infrastructure/walletauth"
	"nft-market.backend/internal/interfaces/http/handlers"
	"nft-market.backend/internal/interfaces/http/middleware"
	"nft-market.backend/internal/observability"
	"nft-market.backend/internal/usecases"
	"nft-market.backend/pkg/jwt"
	"nft-market.backend/pkg/logger"
	"nft-market.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	newSessionStore = redis.NewSessionStore
	loadCatalog     = catalog.LoadFile
	newMetrics      = func() *observability.Metrics { return observability.New(prometheus.DefaultRegisterer) }
	runServer       = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB        = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("database not available: %v (attempt history will return errors)", err)
	} else {
		if err := db.AutoMigrate(&models.TransactionAttempt{}); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Println("connected to PostgreSQL via GORM")
	}

	// Load the catalog. The marketplace inventory is a static file, not a
	// database table.
	fileCatalog, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize Session Store
	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	// Initialize repositories
	attemptRepo := repositories.NewAttemptRepository(db)

	// Initialize blockchain layer
	clientFactory := blockchain.NewClientFactory()
	contractReader := usecases.NewContractReader(clientFactory, cfg.Blockchain.RPCURL, cfg.Contract.Address)
	batcher := batching.NewEVMBatcher(clientFactory, cfg.Blockchain.RPCURL, batching.PaymasterConfig{
		URL:    cfg.Paymaster.URL,
		APIKey: cfg.Paymaster.APIKey,
		Mode:   cfg.Paymaster.Mode,
	})

	// Initialize metrics
	metrics := newMetrics()

	// Initialize wallet auth provider
	walletProvider := walletauth.NewWeb3AuthProvider(cfg.Web3Auth.ClientID, cfg.Web3Auth.JWKSURL)
	loginConfigs := map[string]entities.LoginProviderConfig{
		"google": {
			Name:        "google",
			Verifier:    cfg.Web3Auth.GoogleVerifier,
			TypeOfLogin: "google",
			ClientID:    cfg.Web3Auth.GoogleClientID,
		},
	}

	// Initialize usecases
	resolver := usecases.NewOwnershipResolver(contractReader, metrics)
	authUsecase := usecases.NewAuthUsecase(walletProvider, jwtService, sessionStore, loginConfigs, cfg.JWT.RefreshExpiry)
	catalogUsecase := usecases.NewCatalogUsecase(fileCatalog, resolver, cfg.Catalog.IPFSGateway)
	purchaseUsecase := usecases.NewPurchaseUsecase(fileCatalog, attemptRepo, batcher, resolver, metrics,
		cfg.Contract.Address, cfg.Contract.CustodianAddress, cfg.Contract.CustodianPrivateKey)
	transferUsecase := usecases.NewTransferUsecase(fileCatalog, attemptRepo, batcher, resolver, metrics,
		cfg.Contract.Address, cfg.Contract.CustodianPrivateKey)
	checkoutUsecase := usecases.NewCheckoutUsecase(fileCatalog, resolver, metrics, usecases.CheckoutConfig{
		PartnerID:  cfg.Wert.PartnerID,
		Origin:     cfg.Wert.Origin,
		Commodity:  cfg.Wert.Commodity,
		Network:    cfg.Wert.Network,
		SigningKey: cfg.Wert.SigningKey,
		Width:      cfg.Wert.Width,
		Height:     cfg.Wert.Height,
	}, cfg.Contract.Address, cfg.Contract.CustodianAddress, cfg.Catalog.IPFSGateway)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	catalogHandler := handlers.NewCatalogHandler(catalogUsecase)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseUsecase)
	transferHandler := handlers.NewTransferHandler(transferUsecase)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutUsecase)
	attemptHandler := handlers.NewAttemptHandler(attemptRepo, contractReader)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:     authHandler,
		catalogHandler:  catalogHandler,
		purchaseHandler: purchaseHandler,
		transferHandler: transferHandler,
		checkoutHandler: checkoutHandler,
		attemptHandler:  attemptHandler,
		authMiddleware:  middleware.AuthMiddleware(jwtService),
		optionalAuth:    middleware.OptionalAuthMiddleware(jwtService),
	})

	log.Printf("NFT market backend starting on port %s", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
