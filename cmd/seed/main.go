package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/fomongole/User-Management-Api/internal/auth"
	"github.com/fomongole/User-Management-Api/internal/config"
	"github.com/fomongole/User-Management-Api/internal/db"
	"github.com/fomongole/User-Management-Api/internal/logging"
	"github.com/fomongole/User-Management-Api/internal/model"
	"github.com/fomongole/User-Management-Api/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.New("info").WithError(err).Fatal("load config")
	}
	log := logging.New(cfg.LogLevel)
	log.Info("starting seed script")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("connect to database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.Migrate(ctx, gormDB, cfg.DBDriver); err != nil {
		log.WithError(err).Fatal("run migrations")
	}

	created, err := seedAdmin(ctx, repository.NewUserRepository(gormDB), cfg.Seed)
	if err != nil {
		log.WithError(err).Fatal("seed admin")
	}
	if !created {
		log.WithField("email", cfg.Seed.AdminEmail).Info("admin user already exists")
		return
	}
	log.WithField("email", cfg.Seed.AdminEmail).Info("admin user created")
}

// seedAdmin creates a verified administrator unless the email is taken.
func seedAdmin(ctx context.Context, repo repository.UserRepository, seed config.SeedConfig) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(seed.AdminEmail))
	_, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	hash, err := auth.HashPassword(seed.AdminPassword)
	if err != nil {
		return false, err
	}

	admin := &model.User{
		ID:           uuid.NewString(),
		Name:         seed.AdminName,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsVerified:   true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
