package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/fomongole/User-Management-Api/docs"
	"github.com/fomongole/User-Management-Api/internal/auth"
	"github.com/fomongole/User-Management-Api/internal/cache"
	"github.com/fomongole/User-Management-Api/internal/config"
	"github.com/fomongole/User-Management-Api/internal/db"
	"github.com/fomongole/User-Management-Api/internal/handler"
	"github.com/fomongole/User-Management-Api/internal/logging"
	"github.com/fomongole/User-Management-Api/internal/mail"
	"github.com/fomongole/User-Management-Api/internal/middleware"
	"github.com/fomongole/User-Management-Api/internal/repository"
	"github.com/fomongole/User-Management-Api/internal/router"
	"github.com/fomongole/User-Management-Api/internal/service"
)

// @title User Auth API
// @version 1.0
// @description Registration with email verification, JWT login, profile management and admin user management.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.New("info").WithError(err).Fatal("load config")
	}
	log := logging.New(cfg.LogLevel)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}
	if err := db.Migrate(context.Background(), gormDB, cfg.DBDriver); err != nil {
		log.WithError(err).Fatal("migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	defer cacheClient.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.WithError(err).Warn("redis unreachable, user lookups will hit the database")
	}
	cancel()

	mailer, err := mail.NewSender(cfg.Mail, log)
	if err != nil {
		log.WithError(err).Fatal("mail init")
	}

	userRepo := repository.NewUserRepository(gormDB)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	userCache := service.NewUserCache(userRepo, cacheClient, cfg.UserCacheTTL, log)

	authService := service.NewAuthService(userRepo, userCache, jwtService, mailer, service.SystemClock(), log)
	userService := service.NewUserService(userRepo, userCache, jwtService, log)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}

	e := echo.New()
	router.Register(e, cfg, log, router.Handlers{
		Auth:  handler.NewAuthHandler(authService, cfg.AppBaseURL),
		Users: handler.NewUserHandler(userService),
		Guard: middleware.NewGuard(jwtService, userCache, log),
	})

	go func() {
		addr := ":" + cfg.ServerPort
		log.WithField("addr", addr).WithField("env", cfg.Environment).Info("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	log.Info("server stopped")
}
