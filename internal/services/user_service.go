package services

import (
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-be/internal/apperr"
	"github.com/taskhive/taskhive-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(name, email, password string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
	UpdateProfile(id string, name, email *string) (models.User, error)
	ListUsers() ([]models.User, error)
}

// UserService provides business logic for user accounts.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a new user with a bcrypt-hashed password. Email is a
// uniqueness key; a taken address is a conflict.
func (s *UserService) Register(name, email, password string) (models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))

	if name == "" {
		return models.User{}, apperr.Validation("Name is required")
	}
	if !strings.Contains(email, "@") {
		return models.User{}, apperr.Validation("Invalid email address")
	}
	if len(password) < 6 {
		return models.User{}, apperr.Validation("Password must be at least 6 characters")
	}

	if _, err := s.getUserByEmail(email); err == nil {
		return models.User{}, apperr.Conflict("User already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, name, email, password_hash) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.ID, user.Name, user.Email, user.PasswordHash); err != nil {
		return models.User{}, apperr.Internal(err)
	}

	return s.GetUserByID(user.ID)
}

// Authenticate verifies a user's credentials. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	user, err := s.getUserByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return models.User{}, apperr.Authentication("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, apperr.Authentication("Invalid credentials")
	}

	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID, without the password hash.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, name, email, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, apperr.Internal(err)
	}
	return user, nil
}

// UpdateProfile updates a user's name and/or email. Omitted fields keep
// their prior values. A new email must not belong to another user.
func (s *UserService) UpdateProfile(id string, name, email *string) (models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return models.User{}, apperr.Validation("Name is required")
		}
		user.Name = trimmed
	}
	if email != nil {
		normalized := strings.TrimSpace(strings.ToLower(*email))
		if !strings.Contains(normalized, "@") {
			return models.User{}, apperr.Validation("Invalid email address")
		}
		if existing, err := s.getUserByEmail(normalized); err == nil && existing.ID != id {
			return models.User{}, apperr.Conflict("Email already in use")
		}
		user.Email = normalized
	}

	if _, err := s.db.Exec("UPDATE users SET name = ?, email = ? WHERE id = ?", user.Name, user.Email, id); err != nil {
		return models.User{}, apperr.Internal(err)
	}
	return s.GetUserByID(id)
}

// ListUsers returns every user, sanitized, for the assignee picker.
func (s *UserService) ListUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT id, name, email, created_at FROM users ORDER BY name")
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt); err != nil {
			return nil, apperr.Internal(err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// getUserByEmail retrieves a user by email, including the password hash.
func (s *UserService) getUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, apperr.Internal(err)
	}
	return user, nil
}
