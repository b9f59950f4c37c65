package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Bekarys2104/Task_Planner/internal/apperrors"
	"github.com/Bekarys2104/Task_Planner/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Timestamps are stored as RFC3339 strings in UTC.
const timeFormat = time.RFC3339

// UserRepository handles database operations related to users.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user into the database.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, hashed_password, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.HashedPassword, user.Role,
		user.CreatedAt.Format(timeFormat), user.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert user into database")
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	logrus.WithField("userID", user.ID).Info("User inserted successfully")
	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, hashed_password, role, last_active, created_at, updated_at
		 FROM users WHERE email = ?`, email)

	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		logrus.WithField("email", email).WithError(err).Warn("Failed to find user by email")
		return nil, fmt.Errorf("failed to find user by email: %v", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, hashed_password, role, last_active, created_at, updated_at
		 FROM users WHERE id = ?`, id)

	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		logrus.WithField("userID", id).WithError(err).Warn("Failed to find user by ID")
		return nil, fmt.Errorf("failed to find user by id: %v", err)
	}
	return user, nil
}

// GetAllUsers returns every registered user, newest first.
func (r *UserRepository) GetAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, email, hashed_password, role, last_active, created_at, updated_at
		 FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %v", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %v", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UpdateLastActive stamps the user's last activity time.
func (r *UserRepository) UpdateLastActive(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_active = ? WHERE id = ?`,
		time.Now().UTC().Format(timeFormat), id)
	if err != nil {
		return fmt.Errorf("failed to update last active: %v", err)
	}
	return nil
}

// DeleteUser deletes a user from the database. Tasks, reminders and
// conversations owned by the user are cascade-deleted by the schema.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		logrus.WithField("userID", id).WithError(err).Error("Failed to delete user")
		return fmt.Errorf("failed to delete user: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var lastActive sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword,
		&user.Role, &lastActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if lastActive.Valid {
		if t, err := time.Parse(timeFormat, lastActive.String); err == nil {
			user.LastActive = &t
		}
	}
	user.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	user.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
	return &user, nil
}
