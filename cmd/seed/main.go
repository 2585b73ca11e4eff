package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"auth-api/internal/config"
	"auth-api/internal/db"
	"auth-api/internal/repository"
	"auth-api/internal/service"
)

func main() {
	email := flag.String("email", "admin@example.com", "email of the seeded user")
	password := flag.String("password", "12345678!", "plain password of the seeded user")
	name := flag.String("name", "Admin", "display name of the seeded user")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userSvc := service.NewUserService(logger, repository.NewPgUserRepository(pool), service.NewBcryptHasher(cfg.BcryptCost), nil)
	user, err := userSvc.Register(ctx, service.SignupInput{Email: *email, Password: *password, Name: name})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			logger.Info("user already exists", zap.String("email", *email))
			return
		}
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seeded user", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
}
