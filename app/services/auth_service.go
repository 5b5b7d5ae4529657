package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/sweetshop/app/models"
	"github.com/shashiranjanraj/sweetshop/app/repositories"
	"github.com/shashiranjanraj/sweetshop/pkg/auth"
	"github.com/shashiranjanraj/sweetshop/pkg/logger"
)

// AuthService implements registration and credential verification.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// Register creates a user account. Emails are normalised to lower case so
// uniqueness is case-insensitive. New accounts are never admins.
func (s *AuthService) Register(email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: email, Password: hash, IsAdmin: false}
	if err := s.users.Create(user); err != nil {
		// A concurrent registration can slip past the lookup; the unique
		// index is the real guard.
		if isDuplicateErr(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	logger.Info("auth: user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies credentials and mints an access token.
func (s *AuthService) Login(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !auth.CheckPassword(user.Password, password) {
		return "", ErrInvalidCredentials
	}

	return auth.GenerateToken(user.ID, user.Email, user.IsAdmin)
}

// Me returns the account for the given user ID.
func (s *AuthService) Me(userID uint) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GrantAdmin promotes the account with the given email. Used by the
// admin:grant CLI command; there is deliberately no API route for this.
func (s *AuthService) GrantAdmin(email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.IsAdmin = true
	if err := s.users.Update(&user); err != nil {
		return nil, err
	}

	logger.Info("auth: admin granted", "user_id", user.ID, "email", user.Email)
	return &user, nil
}

// isDuplicateErr detects unique-constraint violations across the supported
// SQL drivers without importing each driver's error type.
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
