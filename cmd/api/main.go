package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yesbharath/spinwheel-backend/api/routes"
	"github.com/yesbharath/spinwheel-backend/internal/config"
	"github.com/yesbharath/spinwheel-backend/internal/handlers"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
	mongorepo "github.com/yesbharath/spinwheel-backend/internal/repositories/mongodb"
	"github.com/yesbharath/spinwheel-backend/internal/services"
	"github.com/yesbharath/spinwheel-backend/internal/utils"
	"github.com/yesbharath/spinwheel-backend/pkg/mongodb"
	"github.com/yesbharath/spinwheel-backend/pkg/session"
	"github.com/yesbharath/spinwheel-backend/pkg/smsgateway"
)

func main() {
	// Load .env if present; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogger(cfg.LogLevel)

	if cfg.Session.Secret == "" || cfg.AdminJWT.Secret == "" {
		log.Fatal("SESSION_SECRET and ADMINJWT_SECRET must be configured")
	}

	// Connect to MongoDB
	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Initialize repositories
	var contestRepo repositories.ContestRepository = mongorepo.NewContestRepository(db)
	var participantRepo repositories.ParticipantRepository = mongorepo.NewParticipantRepository(db)
	var redeemRepo repositories.RedeemRepository = mongorepo.NewRedeemRepository(db)
	var otpRepo repositories.OtpRepository = mongorepo.NewOtpRepository(db)
	var adminRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)
	var rateLimitRepo repositories.RateLimitRepository = mongorepo.NewRateLimitRepository(db)
	var storyRepo repositories.WinnerStoryRepository = mongorepo.NewWinnerStoryRepository(db)

	ensureIndexes(contestRepo, participantRepo, otpRepo, rateLimitRepo)

	// SMS gateway
	var gateway smsgateway.Gateway
	if cfg.SMS.MockSMSGateway {
		slog.Warn("using mock SMS gateway, OTPs will only be logged")
		gateway = smsgateway.NewMockGateway()
	} else {
		gateway = smsgateway.NewSendoxiGateway(cfg)
	}

	// Initialize services
	rateLimits := services.NewRateLimitService(rateLimitRepo)
	spinService := services.NewSpinService(contestRepo, participantRepo, redeemRepo, rateLimits, utils.GenerateRedeemCode)
	otpService := services.NewOtpService(otpRepo, participantRepo, rateLimits, gateway)
	authService := services.NewAuthService(adminRepo, rateLimits, cfg.AdminJWT.Secret, cfg.AdminJWT.ExpiresIn)
	participantService := services.NewParticipantService(participantRepo, redeemRepo, rateLimits)
	contestService := services.NewContestService(contestRepo, participantRepo, redeemRepo)
	redeemService := services.NewRedeemService(redeemRepo)
	storyService := services.NewWinnerStoryService(storyRepo)

	tokens := session.NewTokenService(cfg)

	// Initialize handlers
	h := routes.Handlers{
		Auth:        handlers.NewAuthHandler(otpService, tokens, cfg),
		Spin:        handlers.NewSpinHandler(spinService),
		Participant: handlers.NewParticipantHandler(participantService),
		Admin:       handlers.NewAdminHandler(authService, contestService, redeemService, participantRepo),
		WinnerStory: handlers.NewWinnerStoryHandler(storyService),
	}

	router := routes.SetupRouter(cfg, h, tokens, authService)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	slog.Info("server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

// ensureIndexes builds the indexes the engine's invariants rely on. A
// failure here is fatal: without the partial unique contest index or the
// TTL indexes the runtime guarantees do not hold.
func ensureIndexes(
	contestRepo repositories.ContestRepository,
	participantRepo repositories.ParticipantRepository,
	otpRepo repositories.OtpRepository,
	rateLimitRepo repositories.RateLimitRepository,
) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := contestRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create contest indexes: %v", err)
	}
	if err := participantRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create participant indexes: %v", err)
	}
	if err := otpRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create otp indexes: %v", err)
	}
	if err := rateLimitRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create rate limit indexes: %v", err)
	}
}
