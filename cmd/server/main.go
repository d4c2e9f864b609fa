package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/geo"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/identity/google"
	natsAdapter "github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/repository/cache"
	mongoRepo "github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/rest"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/security"
	s3Storage "github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/mailer"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/tracer"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.NewLogger()
	defer appLogger.Sync()

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	appLogger.Info("Application starting...", zap.String("service_name", cfg.ServiceName))

	tp := tracer.InitTracer(cfg.ServiceName, cfg.OTExporterOTLPEndpoint, appLogger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	metricsManager := metrics.NewMetricsManager(cfg.ServiceName)
	go func() {
		if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Prometheus metrics server failed", zap.Error(err))
		}
	}()

	// MongoDB
	mongoClient, err := mongoRepo.NewMongoDBConnection(context.Background(), cfg.MongoURI, 10*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	appLogger.Info("Successfully connected and pinged MongoDB.")
	db := mongoClient.Database(cfg.MongoDatabase)

	userRepo, err := mongoRepo.NewUserRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize UserRepository", zap.Error(err))
	}
	walletRepo, err := mongoRepo.NewWalletRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize WalletRepository", zap.Error(err))
	}
	followRepo, err := mongoRepo.NewFollowRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize FollowRepository", zap.Error(err))
	}
	likeRepo, err := mongoRepo.NewLikeRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LikeRepository", zap.Error(err))
	}
	notificationRepo, err := mongoRepo.NewNotificationRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize NotificationRepository", zap.Error(err))
	}
	productRepo, err := mongoRepo.NewProductRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize ProductRepository", zap.Error(err))
	}
	otpRepo, err := mongoRepo.NewOTPRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize OTPRepository", zap.Error(err))
	}
	txManager := mongoRepo.NewTxManager(mongoClient, appLogger)

	// Redis
	redisClient, err := cache.NewClient(context.Background(), cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("address", cfg.RedisAddress))
	}
	defer redisClient.Close()
	productCache := cache.NewProductCache(redisClient, cfg.ProductCacheTTL)

	// MinIO
	storage, err := s3Storage.NewS3Storage(context.Background(), cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// NATS
	natsPublisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
	if err != nil {
		appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
	}
	defer natsPublisher.Close()
	pushDispatcher := natsAdapter.NewPushDispatcher(natsPublisher, cfg.PushSubject)

	var mail usecase.Mailer
	smtpMailer, err := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUsername,
		Password:    cfg.SMTPPassword,
		SenderEmail: cfg.SMTPSenderEmail,
		Encryption:  cfg.SMTPEncryption,
	}, appLogger)
	if err != nil {
		appLogger.Warn("SMTP is not configured, outgoing mail will only be logged", zap.Error(err))
		mail = mailer.NewLogMailer(appLogger)
	} else {
		mail = smtpMailer
	}

	var countries geo.CountryLookup
	if cfg.GeoIPDatabasePath != "" {
		countryDB, err := geo.OpenCountryDB(cfg.GeoIPDatabasePath)
		if err != nil {
			appLogger.Fatal("Failed to open GeoIP database", zap.Error(err))
		}
		defer countryDB.Close()
		countries = countryDB
	} else {
		appLogger.Info("GEOIP_DB_PATH not set, currency is inferred from proxy country headers only.")
	}

	// Usecases
	notificationUC := usecase.NewNotificationUsecase(notificationRepo, userRepo, pushDispatcher, txManager, metricsManager, appLogger)
	followUC := usecase.NewFollowUsecase(followRepo, userRepo, notificationUC, txManager, metricsManager, appLogger)
	likeUC := usecase.NewLikeUsecase(likeRepo, productRepo, userRepo, notificationUC, txManager, metricsManager, appLogger)
	productUC := usecase.NewProductUsecase(productRepo, userRepo, likeUC, storage, productCache,
		geo.NewCurrencyResolver(cfg.DefaultCurrency, countries), metricsManager, appLogger)
	otpUC := usecase.NewOTPUsecase(otpRepo, mail, appLogger)
	accountUC := usecase.NewAccountUsecase(
		userRepo, walletRepo, txManager,
		security.NewBcryptHasher(bcrypt.DefaultCost),
		security.NewJWTService(cfg.JWTSecret, cfg.ServiceName),
		otpUC, mail,
		[]usecase.IdentityProvider{google.NewProvider(cfg.GoogleUserInfoURL, nil)},
		metricsManager,
		usecase.AccountConfig{AccessTokenTTL: cfg.AccessTokenTTL, RefreshTokenTTL: cfg.RefreshTokenTTL},
		appLogger,
	)
	userUC := usecase.NewUserUsecase(userRepo, followUC, storage, appLogger)
	walletUC := usecase.NewWalletUsecase(walletRepo, userRepo, appLogger)

	router := rest.NewRouter(rest.Services{
		Accounts:      accountUC,
		OTP:           otpUC,
		Products:      productUC,
		Likes:         likeUC,
		Follows:       followUC,
		Users:         userUC,
		Notifications: notificationUC,
		Wallets:       walletUC,
	}, rest.Options{
		Health: func(ctx context.Context) error {
			return mongoRepo.Ping(ctx, mongoClient)
		},
		Metrics:   metricsManager,
		RateLimit: rest.RateLimit{Requests: cfg.RateLimitRequests, Window: cfg.RateLimitWindow},
	}, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Application shutting down...")
}
