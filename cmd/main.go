package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kalpajyotisaikia/sharpy-auth-service/config"
	"github.com/kalpajyotisaikia/sharpy-auth-service/db"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/domain"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/handler"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/repository/memory"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/repository/postgres"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/service"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/sms"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	userRepo := newUserRepository(cfg, logger)
	logger.Info("credential store ready",
		zap.String("driver", cfg.StoreDriver),
		zap.Bool("persistent", userRepo.Persistent()))

	var sender sms.Sender
	if cfg.DeliveryMode == config.DeliveryModeReal {
		sender = sms.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	}
	logger.Info("OTP delivery mode", zap.String("mode", cfg.DeliveryMode))

	hasher := service.NewPasswordHasher(cfg.PasswordScheme)
	otpService := service.NewOTPService(sender, cfg.OTP, cfg.DeliveryMode, logger)
	sessionService := service.NewSessionService(cfg.SessionTokenSecret, cfg.SessionExpiryMin)
	userService := service.NewUserService(userRepo, hasher, otpService, sessionService, logger)
	authHandler := handler.NewAuthHandler(userService, sessionService)

	go cleanupLoop(otpService, cfg.OTP.Expiry())

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	logger.Info("listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newUserRepository(cfg *config.Config, logger *zap.Logger) domain.UserRepository {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("using in-memory credential store, records will not survive a restart")
		return memory.NewMemoryRepository()
	}

	pool, err := db.NewPostgresPool(context.Background(), cfg.DBURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	return postgres.NewPostgresRepository(pool)
}

// cleanupLoop sweeps expired OTP challenges on an idle schedule. Verify
// already checks expiry lazily, so this is housekeeping only.
func cleanupLoop(otpService *service.OTPService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		otpService.Cleanup()
	}
}
