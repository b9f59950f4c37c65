package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Bekarys2104/Task_Planner/internal/config"
	"github.com/Bekarys2104/Task_Planner/internal/models"
	"github.com/Bekarys2104/Task_Planner/internal/services"
	jwtutil "github.com/Bekarys2104/Task_Planner/pkg/jwt"
	"github.com/Bekarys2104/Task_Planner/pkg/middleware"
	log "github.com/sirupsen/logrus"
)

// UserHandler handles HTTP requests related to user operations.
type UserHandler struct {
	Service *services.UserService
	Config  *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Service: service,
		Config:  cfg,
	}
}

// RegisterUserHandler handles user registration.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("RegisterUserHandler called")
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode user registration request")
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	createdUser, err := h.Service.RegisterUser(r.Context(), &req)
	if err != nil {
		log.WithError(err).Warn("Failed to register user")
		handleServiceError(w, err)
		return
	}

	log.WithField("userID", createdUser.ID).Info("User registered successfully")
	respondJSON(w, http.StatusCreated, createdUser.Public())
}

// LoginUserHandler handles user login.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("LoginUserHandler called")
	var credentials models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	user, err := h.Service.AuthenticateUser(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		log.WithFields(log.Fields{
			"email": credentials.Email,
			"error": err,
		}).Warn("Authentication failed")
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	// Generate a JWT token
	token, err := jwtutil.GenerateToken(user.ID, user.Email, user.Role, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	log.WithField("userID", user.ID).Info("User logged in successfully")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user.Public(),
	})
}

// AdminGetAllUsersHandler lists every registered account. The admin
// role requirement is enforced by the route's middleware.
func (h *UserHandler) AdminGetAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	users, err := h.Service.GetAllUsers(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	public := make([]models.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}

	log.WithField("count", len(public)).Info("Admin fetched user list")
	respondJSON(w, http.StatusOK, public)
}

// GetMeHandler returns the profile of the authenticated user.
func (h *UserHandler) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.Service.GetUser(r.Context(), claims.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user.Public())
}
