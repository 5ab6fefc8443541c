package handlers

import (
	"context"
	"time"

	"task-service/authcontext"

	"github.com/umakantv/go-utils/httpserver"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// logRequest logs the request with the route, method and path from the
// request context, plus any custom fields (e.g. zap.Error for errors).
// Shared between UserHandler and TaskHandler.
func logRequest(ctx context.Context, level string, message string, fields ...zap.Field) {
	routeName := httpserver.GetRouteName(ctx)
	method := httpserver.GetRouteMethod(ctx)
	path := httpserver.GetRoutePath(ctx)

	logMsg := time.Now().Format("2006-01-02 15:04:05") + " - " + routeName + " - " + method + " - " + path
	if identity, ok := authcontext.IdentityFrom(ctx); ok {
		logMsg += " - user:" + identity.Email
	}
	if message != "" {
		logMsg += " - " + message
	}

	allFields := append([]zap.Field{
		zap.String("route", routeName),
		zap.String("method", method),
		zap.String("path", path),
	}, fields...)

	switch level {
	case "info":
		logger.Info(logMsg, allFields...)
	case "error":
		logger.Error(logMsg, allFields...)
	case "debug":
		logger.Debug(logMsg, allFields...)
	}
}

// currentUserID extracts the authenticated user's id from the identity the
// auth gate injected into the request context. Handlers trust this identity
// for every ownership check and never re-validate the token.
func currentUserID(ctx context.Context) (int64, bool) {
	identity, ok := authcontext.IdentityFrom(ctx)
	if !ok {
		return 0, false
	}
	return identity.UserID, true
}
