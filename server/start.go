package server

import (
	"context"
	"net/http"
	"os"

	"task-service/auth"
	cachepackage "task-service/cache"
	"task-service/config"
	"task-service/database"
	"task-service/handlers"
	"task-service/middleware"
	"task-service/store"

	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// noAuth satisfies the server's auth hook. Authentication happens in
// middleware.TokenAuth so that the gate and the identity it injects are
// testable in isolation; no route uses the hook-based auth types.
func noAuth(r *http.Request) (bool, httpserver.RequestAuth) {
	return false, httpserver.RequestAuth{}
}

func StartServer() {
	// Initialize logger
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	logger.Info("Starting Task Service...")

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err))
		os.Exit(1)
	}

	// Initialize database
	dbConn := database.InitializeDatabase(cfg.Database)
	defer dbConn.Close()

	// Initialize cache
	cache := cachepackage.InitializeCache(cfg.Cache)
	defer cache.Close()

	// Stores and services
	userStore := store.NewUserStore(dbConn, cfg.Auth.BcryptCost)
	taskStore := store.NewTaskStore(dbConn)
	tokenStore := store.NewTokenStore(dbConn)
	authService := auth.NewService(userStore, tokenStore)

	// Handlers
	userHandler := handlers.NewUserHandler(userStore, authService, cache)
	taskHandler := handlers.NewTaskHandler(taskStore, cache)

	// Every route below marked with protect() resolves the bearer token to
	// a user before any handler logic runs; register and login stay public.
	protect := middleware.TokenAuth(tokenStore)

	server := httpserver.New(cfg.Server.Port, noAuth)

	// Register routes
	server.Register(httpserver.Route{
		Name:     "HealthCheck",
		Method:   "GET",
		Path:     "/health",
		AuthType: "none",
	}, httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "task-service"}`))
	}))

	// Public user routes
	server.Register(httpserver.Route{
		Name:     "RegisterUser",
		Method:   "POST",
		Path:     "/user/register",
		AuthType: "none",
	}, httpserver.HandlerFunc(userHandler.Register))

	server.Register(httpserver.Route{
		Name:     "LoginUser",
		Method:   "POST",
		Path:     "/user/login",
		AuthType: "none",
	}, httpserver.HandlerFunc(userHandler.Login))

	// Profile routes
	server.Register(httpserver.Route{
		Name:     "GetProfile",
		Method:   "GET",
		Path:     "/user/profile",
		AuthType: "none",
	}, protect(httpserver.HandlerFunc(userHandler.GetProfile)))

	server.Register(httpserver.Route{
		Name:     "UpdateProfile",
		Method:   "PUT",
		Path:     "/user/profile",
		AuthType: "none",
	}, protect(httpserver.HandlerFunc(userHandler.UpdateProfile)))

	server.Register(httpserver.Route{
		Name:     "PatchProfile",
		Method:   "PATCH",
		Path:     "/user/profile",
		AuthType: "none",
	}, protect(httpserver.HandlerFunc(userHandler.UpdateProfile)))

	// Profile is never created through this route
	server.Register(httpserver.Route{
		Name:     "CreateProfileNotAllowed",
		Method:   "POST",
		Path:     "/user/profile",
		AuthType: "none",
	}, protect(httpserver.HandlerFunc(userHandler.ProfileNotAllowed)))

	// Task routes, all owner-scoped
	server.Register(httpserver.Route{
		Name:     "ListTasks",
		Method:   "GET",
		Path:     "/task",
		AuthType: "none",
	}, protect(httpserver.HandlerFunc(taskHandler.ListTasks)))

	server.Register(httpserver.Route{
		Name:     "CreateTask",
		Method:   "POST",
		Path:     "/task",
		AuthType: "none",
	}, protect(httpserver.HandlerFunc(taskHandler.CreateTask)))

	server.Register(httpserver.Route{
		Name:     "GetTask",
		Method:   "GET",
		Path:     "/task/{id}",
		AuthType: "none",
	}, protect(httpserver.HandlerFunc(taskHandler.GetTask)))

	server.Register(httpserver.Route{
		Name:     "UpdateTask",
		Method:   "PUT",
		Path:     "/task/{id}",
		AuthType: "none",
	}, protect(httpserver.HandlerFunc(taskHandler.UpdateTask)))

	server.Register(httpserver.Route{
		Name:     "PatchTask",
		Method:   "PATCH",
		Path:     "/task/{id}",
		AuthType: "none",
	}, protect(httpserver.HandlerFunc(taskHandler.UpdateTask)))

	server.Register(httpserver.Route{
		Name:     "DeleteTask",
		Method:   "DELETE",
		Path:     "/task/{id}",
		AuthType: "none",
	}, protect(httpserver.HandlerFunc(taskHandler.DeleteTask)))

	logger.Info("Task Service started on port " + cfg.Server.Port)
	logger.Info("Health check: GET /health")
	logger.Info("API endpoints: /user/register, /user/login, /user/profile, /task")

	// Start server
	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}
