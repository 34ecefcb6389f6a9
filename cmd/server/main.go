// Package main is the entry point for the Greeting Card Service.
// @title Greeting Card Service API
// @version 1.0
// @description Generates greeting card text and image variants, holds them in short-lived sessions and delivers the chosen card.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/unifiedui/card-service/docs"
	"github.com/unifiedui/card-service/internal/api/handlers"
	"github.com/unifiedui/card-service/internal/api/middleware"
	"github.com/unifiedui/card-service/internal/api/routes"
	"github.com/unifiedui/card-service/internal/config"
	"github.com/unifiedui/card-service/internal/core/cache"
	"github.com/unifiedui/card-service/internal/core/docdb"
	"github.com/unifiedui/card-service/internal/core/vault"
	rediscache "github.com/unifiedui/card-service/internal/infrastructure/cache/redis"
	"github.com/unifiedui/card-service/internal/infrastructure/docdb/mongodb"
	dotenvvault "github.com/unifiedui/card-service/internal/infrastructure/vault/dotenv"
	"github.com/unifiedui/card-service/internal/pkg/encryption"
	"github.com/unifiedui/card-service/internal/services/audit"
	"github.com/unifiedui/card-service/internal/services/card"
	"github.com/unifiedui/card-service/internal/services/delivery/webhook"
	"github.com/unifiedui/card-service/internal/services/generation/openai"
	"github.com/unifiedui/card-service/internal/services/receipts"
	"github.com/unifiedui/card-service/internal/services/recipients"
	"github.com/unifiedui/card-service/internal/services/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogger(cfg.Log)

	ctx := context.Background()

	vaultClient, err := createVault(cfg.Vault)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize vault")
	}
	defer vaultClient.Close()

	secrets, err := resolveSecrets(ctx, cfg, vaultClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve secrets")
	}

	var cacheClient cache.Client
	if cfg.Cache.Enabled {
		cacheClient, err = createCacheClient(cfg.Cache, secrets.redisPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize cache client")
		}
		defer cacheClient.Close()
	}

	var docDBClient docdb.Client
	if cfg.DocDB.Enabled {
		docDBClient, err = createDocDBClient(ctx, cfg.DocDB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize document db client")
		}
		defer docDBClient.Close(context.Background())

		if err := docDBClient.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure indexes")
		}
	}

	var (
		auditQueue *audit.Queue
		history    audit.History
	)
	if docDBClient != nil {
		auditQueue = audit.NewQueue(audit.QueueConfig{
			Collection:   docDBClient.Events(),
			BufferSize:   cfg.Audit.BufferSize,
			Workers:      cfg.Audit.Workers,
			WriteTimeout: cfg.Audit.WriteTimeout,
		})
		auditQueue.Start()
		history = audit.NewHistory(docDBClient.Events())
	}

	var receiptService receipts.Service
	if cacheClient != nil {
		receiptService, err = receipts.NewService(&receipts.Config{
			CacheClient: cacheClient,
			Sealer:      createSealer(secrets.receiptsKey),
			TTL:         cfg.Receipts.TTL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize receipts service")
		}
	}

	store, err := session.NewStore(&session.Config{
		TTL:              cfg.Session.TTL,
		MaxRegenerations: cfg.Session.MaxRegenerations,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize session store")
	}
	store.StartJanitor(cfg.Session.CleanupInterval)

	directory, err := recipients.NewDirectory(&recipients.Config{FilePath: cfg.Recipients.FilePath})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load recipient directory")
	}
	log.Info().Int("recipients", directory.Count()).Str("file", cfg.Recipients.FilePath).Msg("recipient directory loaded")

	openaiCfg := &openai.Config{
		APIKey:      secrets.openaiKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		ChatModel:   cfg.OpenAI.ChatModel,
		ImageModel:  cfg.OpenAI.ImageModel,
		ImageSize:   cfg.OpenAI.ImageSize,
		MaxRetries:  cfg.OpenAI.MaxRetries,
		RetryDelay:  cfg.OpenAI.RetryDelay,
		RetryAfter:  cfg.OpenAI.RetryAfter,
		Timeout:     cfg.OpenAI.Timeout,
		Temperature: float32(cfg.OpenAI.Temperature),
	}
	textGenerator, err := openai.NewTextGenerator(openaiCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize text generator")
	}
	imageGenerator, err := openai.NewImageGenerator(openaiCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize image generator")
	}

	deliveryClient, err := webhook.NewClient(&webhook.Config{
		URL:     cfg.Delivery.URL,
		Token:   secrets.deliveryToken,
		Timeout: cfg.Delivery.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize delivery client")
	}

	cardCfg := &card.Config{
		Store:           store,
		Recipients:      directory,
		TextGenerator:   textGenerator,
		ImageGenerator:  imageGenerator,
		Delivery:        deliveryClient,
		VariantCount:    cfg.Generation.VariantCount,
		DefaultGreeting: cfg.Generation.DefaultGreeting,
	}
	if receiptService != nil {
		cardCfg.Receipts = receiptService
	}
	if auditQueue != nil {
		cardCfg.Audit = auditQueue
	}
	cardService, err := card.NewService(cardCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize card service")
	}

	gin.SetMode(cfg.Server.GinMode)

	router := setupRouter(cfg, routerDeps{
		store:       store,
		directory:   directory,
		cards:       cardService,
		receipts:    receiptService,
		history:     history,
		cacheClient: cacheClient,
		docDBClient: docDBClient,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address()).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range signals {
		if sig != syscall.SIGHUP {
			break
		}
		reloadDirectory(directory)
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	_ = store.Close()
	if auditQueue != nil {
		_ = auditQueue.Close()
	}

	log.Info().Msg("server exited")
}

// setupLogger configures the global zerolog logger.
func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("service", "card-service").Logger()
}

// createVault creates a vault based on the configuration.
func createVault(cfg config.VaultConfig) (vault.Vault, error) {
	switch vault.Type(cfg.Type) {
	case vault.TypeDotEnv:
		return dotenvvault.NewVault(cfg.SecretsFile)
	default:
		return nil, errors.New("unsupported vault type: " + cfg.Type)
	}
}

type resolvedSecrets struct {
	openaiKey     string
	deliveryToken string
	receiptsKey   string
	redisPassword string
}

// resolveSecrets replaces vault URIs in the configuration with secret values.
func resolveSecrets(ctx context.Context, cfg *config.Config, v vault.Vault) (*resolvedSecrets, error) {
	var (
		s   resolvedSecrets
		err error
	)
	if s.openaiKey, err = vault.Resolve(ctx, v, cfg.OpenAI.APIKey); err != nil {
		return nil, err
	}
	if s.deliveryToken, err = vault.Resolve(ctx, v, cfg.Delivery.Token); err != nil {
		return nil, err
	}
	if s.receiptsKey, err = vault.Resolve(ctx, v, cfg.Receipts.EncryptionKey); err != nil {
		return nil, err
	}
	if s.redisPassword, err = vault.Resolve(ctx, v, cfg.Cache.Password); err != nil {
		return nil, err
	}
	return &s, nil
}

// createCacheClient creates a cache client based on the configuration.
func createCacheClient(cfg config.CacheConfig, password string) (cache.Client, error) {
	switch cache.Type(cfg.Type) {
	case cache.TypeRedis:
		return rediscache.NewClient(rediscache.Config{
			Host:       cfg.Host,
			Port:       cfg.Port,
			Password:   password,
			DB:         cfg.DB,
			DefaultTTL: cfg.TTL,
			KeyPrefix:  cfg.KeyPrefix,
		})
	default:
		return nil, errors.New("unsupported cache type: " + cfg.Type)
	}
}

// createDocDBClient creates a document database client based on the configuration.
func createDocDBClient(ctx context.Context, cfg config.DocDBConfig) (docdb.Client, error) {
	switch docdb.Type(cfg.Type) {
	// CosmosDB speaks the MongoDB protocol
	case docdb.TypeMongoDB, docdb.TypeCosmosDB:
		return mongodb.NewClient(ctx, &mongodb.ClientConfig{
			URI:          cfg.URI,
			DatabaseName: cfg.Database,
		})
	default:
		return nil, errors.New("unsupported docdb type: " + cfg.Type)
	}
}

// createSealer returns an AES sealer, or a NoOp sealer when no key is configured.
func createSealer(key string) encryption.Sealer {
	if key == "" {
		log.Warn().Msg("RECEIPTS_ENCRYPTION_KEY not set, receipts are stored unencrypted")
		return encryption.NewNoOpSealer()
	}
	sealer, err := encryption.NewAESSealer(key)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid receipts encryption key")
	}
	return sealer
}

// reloadDirectory re-reads the recipient file on SIGHUP.
func reloadDirectory(directory recipients.Directory) {
	reloader, ok := directory.(interface{ Reload() error })
	if !ok {
		return
	}
	if err := reloader.Reload(); err != nil {
		log.Error().Err(err).Msg("failed to reload recipient directory")
		return
	}
	log.Info().Int("recipients", directory.Count()).Msg("recipient directory reloaded")
}

type routerDeps struct {
	store       *session.MemoryStore
	directory   recipients.Directory
	cards       card.Service
	receipts    receipts.Service
	history     audit.History
	cacheClient cache.Client
	docDBClient docdb.Client
}

// setupRouter creates and configures the Gin router.
func setupRouter(cfg *config.Config, deps routerDeps) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	loggingMw := middleware.NewLoggingMiddleware()
	errorMw := middleware.NewErrorMiddleware()
	corsMw := middleware.NewCORSMiddleware(middleware.DefaultCORSConfig(cfg.Server.AllowedOrigins))

	components := map[string]handlers.Pinger{}
	if deps.cacheClient != nil {
		components["cache"] = deps.cacheClient
	}
	if deps.docDBClient != nil {
		components["docdb"] = deps.docDBClient
	}

	routesCfg := &routes.Config{
		HealthHandler:  handlers.NewHealthHandler(deps.store, components),
		CatalogHandler: handlers.NewCatalogHandler(deps.directory),
		CardsHandler: handlers.NewCardsHandler(&handlers.CardsHandlerConfig{
			Cards:    deps.cards,
			Receipts: deps.receipts,
			History:  deps.history,
		}),
	}
	if cfg.RateLimit.Enabled {
		routesCfg.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw, corsMw)

	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
