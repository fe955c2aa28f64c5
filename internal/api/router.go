package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trekha/identity-service/internal/api/handler"
	"github.com/trekha/identity-service/internal/api/middleware"
	"github.com/trekha/identity-service/internal/core/domain"
	"github.com/trekha/identity-service/internal/core/ports"
	"github.com/trekha/identity-service/internal/core/service"
	"github.com/trekha/identity-service/internal/infrastructure/config"
	mongostore "github.com/trekha/identity-service/internal/infrastructure/db/mongo"
	redisstore "github.com/trekha/identity-service/internal/infrastructure/db/redis"
	"github.com/trekha/identity-service/internal/infrastructure/hash"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(client *mongo.Client, db *mongo.Database, rdb *redis.Client, cfg *config.Config, dispatcher ports.NotificationDispatcher, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	principals := mongostore.NewPrincipalRepository(db)
	profiles := mongostore.NewProfileRepository(db)
	verificationTokens := mongostore.NewVerificationTokenRepository(db)
	resetTokens := mongostore.NewPasswordResetTokenRepository(db)
	tx := mongostore.NewTxnRunner(client)
	limiter := redisstore.NewResendLimiter(rdb, cfg.Auth.ResendLimit, cfg.Auth.ResendWindow)

	hasher := hash.NewBcryptHasher(cfg.Auth.BcryptCost)
	codec := service.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	resolver := service.NewResolver(principals)

	authService := service.NewAuthService(service.AuthServiceParams{
		Principals: principals,
		Profiles:   profiles,
		Tokens:     verificationTokens,
		Resolver:   resolver,
		Hasher:     hasher,
		Codec:      codec,
		Dispatcher: dispatcher,
		Limiter:    limiter,
		Tx:         tx,
		BaseURL:    cfg.BaseURL,
		TokenTTL:   cfg.Auth.VerificationTTL,
		Logger:     log,
	})
	verificationService := service.NewVerificationService(principals, verificationTokens, tx)
	resetService := service.NewPasswordResetService(
		principals, resetTokens, resolver, hasher, dispatcher, tx, cfg.BaseURL, cfg.Auth.ResetTTL)

	authHandler := handler.NewAuthHandler(authService)
	verificationHandler := handler.NewVerificationHandler(verificationService)
	resetHandler := handler.NewPasswordResetHandler(resetService)

	authenticate := middleware.Authenticate(codec, resolver)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register/passenger/email", authHandler.RegisterByEmail)
	auth.POST("/register/passenger/mobile", authHandler.RegisterByMobile)
	auth.POST("/login", authHandler.Login)
	auth.GET("/verify/email", verificationHandler.VerifyEmail)
	auth.POST("/verify/mobile", verificationHandler.VerifyMobile)
	auth.POST("/verify/resend", authHandler.ResendVerification)
	auth.POST("/password/forgot", resetHandler.Forgot)
	auth.POST("/password/reset", resetHandler.Reset)
	auth.GET("/me", authHandler.Me, authenticate, middleware.RequireRoles(domain.RolePassenger))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
