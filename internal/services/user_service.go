package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Bekarys2104/Task_Planner/internal/apperrors"
	"github.com/Bekarys2104/Task_Planner/internal/models"
	"github.com/Bekarys2104/Task_Planner/internal/repository"
	"github.com/sirupsen/logrus"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserService encapsulates the business logic for user operations.
type UserService struct {
	repo *repository.UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// RegisterUser registers a new user after hashing their password.
func (s *UserService) RegisterUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	logrus.Info("Registering new user")

	if strings.TrimSpace(req.Username) == "" {
		return nil, apperrors.NewValidationError("username", "is required")
	}
	if req.Email == "" {
		return nil, apperrors.NewValidationError("email", "is required")
	}
	if req.Password == "" {
		return nil, apperrors.NewValidationError("password", "is required")
	}

	if !emailRegex.MatchString(req.Email) {
		logrus.WithField("email", req.Email).Warn("Invalid email format during registration")
		return nil, apperrors.NewValidationError("email", "invalid email format")
	}

	// Check if the email is already registered
	existingUser, _ := s.repo.GetUserByEmail(ctx, req.Email)
	if existingUser != nil {
		logrus.WithField("email", req.Email).Warn("Email already in use")
		return nil, apperrors.NewValidationError("email", "already in use")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: string(hashedPwd),
		Role:           "user",
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"userID": createdUser.ID,
		"role":   createdUser.Role,
	}).Info("User registered successfully")

	return createdUser, nil
}

// AuthenticateUser verifies the email and password and returns the user if credentials are valid.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	logrus.WithField("email", email).Info("Authenticating user")

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		logrus.WithField("email", email).Warn("User not found")
		return nil, fmt.Errorf("invalid credentials")
	}

	// Compare the provided password with the hashed password.
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", email).Warn("Invalid credentials")
		return nil, fmt.Errorf("invalid credentials")
	}

	logrus.WithField("userID", user.ID).Info("User authenticated successfully")
	return user, nil
}

// GetUser retrieves a user by their ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		logrus.WithField("userID", id).WithError(err).Warn("Failed to retrieve user")
		return nil, err
	}
	return user, nil
}

// GetAllUsers returns every registered user. Intended for admin use.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch users")
		return nil, err
	}
	return users, nil
}

// UpdateLastActive records that the user was just seen.
func (s *UserService) UpdateLastActive(ctx context.Context, id string) error {
	return s.repo.UpdateLastActive(ctx, id)
}

// DeleteUser deletes a user account. Owned tasks, reminders and
// conversations disappear with it through the schema's cascades.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	logrus.WithField("userID", id).Info("Deleting user")
	return s.repo.DeleteUser(ctx, id)
}
