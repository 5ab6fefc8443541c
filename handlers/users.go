package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"task-service/auth"
	"task-service/models"
	"task-service/store"

	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/errs"
	"go.uber.org/zap"
)

const profileCacheTTL = 10 * time.Minute

// UserHandler handles registration, login and profile operations
type UserHandler struct {
	users *store.UserStore
	auth  *auth.Service
	cache cache.Cache
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *store.UserStore, authService *auth.Service, cache cache.Cache) *UserHandler {
	return &UserHandler{
		users: users,
		auth:  authService,
		cache: cache,
	}
}

func profileCacheKey(userID int64) string {
	return "profile:" + strconv.FormatInt(userID, 10)
}

func profileResponse(user models.User) models.ProfileResponse {
	return models.ProfileResponse{
		Name:           user.Name,
		Email:          user.Email,
		PreferredTheme: user.PreferredTheme,
	}
}

// writeUserError maps domain errors to the response shapes of this API.
// Storage detail never reaches the client.
func writeUserError(ctx context.Context, w http.ResponseWriter, err error) {
	var validationErr *store.ValidationError
	switch {
	case errors.As(err, &validationErr):
		logRequest(ctx, "info", "Validation failed", zap.String("field", validationErr.Field))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errs.NewValidationError(validationErr.Error()))
	case errors.Is(err, store.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errs.NewNotFoundError("User not found"))
	default:
		logRequest(ctx, "error", "Unexpected error", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Server error"))
	}
}

// Register handles POST /user/register - create a new user account.
// Public route; the response never includes the password in any form.
func (h *UserHandler) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid JSON"))
		return
	}

	logRequest(ctx, "info", "Registering user", zap.String("email", req.Email))

	user, err := h.users.Create(ctx, store.CreateUserParams{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		PreferredTheme: req.PreferredTheme,
	})
	if err != nil {
		writeUserError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "User registered successfully", zap.Int64("user_id", user.ID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(profileResponse(user))
}

// Login handles POST /user/login - verify credentials and return the
// user's bearer token. Bad credentials are a 400 and never say which part
// was wrong; a blank password fails before any hash comparison.
func (h *UserHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid JSON"))
		return
	}

	token, err := h.auth.Login(ctx, req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		logRequest(ctx, "info", "Login failed", zap.String("email", req.Email))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errs.NewValidationError("Unable to authenticate with provided credentials"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Login error", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Server error"))
		return
	}

	logRequest(ctx, "info", "Login successful", zap.String("email", req.Email))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.TokenResponse{Token: token})
}

// GetProfile handles GET /user/profile - return the authenticated user
func (h *UserHandler) GetProfile(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(ctx)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(errs.NewAuthenticationError("Authentication required"))
		return
	}

	cacheKey := profileCacheKey(userID)
	if cached, err := h.cache.Get(cacheKey); err == nil {
		// A non-[]byte value (possible with the redis backend) falls
		// through to the database instead of panicking the handler.
		if body, ok := cached.([]byte); ok {
			logRequest(ctx, "debug", "Serving profile from cache", zap.Int64("user_id", userID))
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		writeUserError(ctx, w, err)
		return
	}

	response, _ := json.Marshal(profileResponse(user))
	h.cache.Set(cacheKey, response, profileCacheTTL)

	logRequest(ctx, "info", "Profile retrieved", zap.Int64("user_id", userID))

	w.Header().Set("Content-Type", "application/json")
	w.Write(response)
}

// UpdateProfile handles PUT/PATCH /user/profile - partial profile update.
// Only provided fields change; a provided password is re-hashed.
func (h *UserHandler) UpdateProfile(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(ctx)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(errs.NewAuthenticationError("Authentication required"))
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid JSON"))
		return
	}

	user, err := h.users.Update(ctx, userID, store.UpdateUserParams{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		PreferredTheme: req.PreferredTheme,
	})
	if err != nil {
		writeUserError(ctx, w, err)
		return
	}

	h.cache.Delete(profileCacheKey(userID))

	logRequest(ctx, "info", "Profile updated", zap.Int64("user_id", userID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profileResponse(user))
}

// ProfileNotAllowed handles POST /user/profile - profile resources are
// retrieved and updated, never created through this route.
func (h *UserHandler) ProfileNotAllowed(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Method not allowed on profile")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	json.NewEncoder(w).Encode(map[string]string{"detail": `Method "POST" not allowed.`})
}
