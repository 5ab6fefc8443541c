package server

import (
	"context"
	"os"

	"task-service/config"
	"task-service/database"
	"task-service/store"

	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// CreateSuperuser is the administrative path for creating a staff/superuser
// account. It runs the same validation as registration.
func CreateSuperuser(email, password string) {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err))
		os.Exit(1)
	}

	dbConn := database.InitializeDatabase(cfg.Database)
	defer dbConn.Close()

	users := store.NewUserStore(dbConn, cfg.Auth.BcryptCost)

	user, err := users.CreateSuperuser(context.Background(), email, password)
	if err != nil {
		logger.Error("Failed to create superuser", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Superuser created", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
}
