package user

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/sebuszqo/FinanceLedger/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxEmailLength    = 255
	minEmailLength    = 3
	maxLoginLength    = 30
	minLoginLength    = 5
	minPasswordLength = 8
	bcryptCost        = 12
)

var (
	ErrInvalidEmail       = errors.New("email address is not valid")
	ErrEmailLength        = fmt.Errorf("email address is too long or too short, max length: %d, min length: %d", maxEmailLength, minEmailLength)
	ErrLoginLength        = fmt.Errorf("login is too long or too short, max length: %d, min length: %d", maxLoginLength, minLoginLength)
	ErrPasswordLength     = fmt.Errorf("password is too short, min length: %d", minPasswordLength)
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrLoginAlreadyExists = errors.New("login already exists")
	ErrInternalError      = errors.New("internal Server Error")
	ErrInvalidOldPassword = errors.New("invalid old password")
)

type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Login            string    `json:"login"`
	PasswordHash     string    `json:"-"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	TwoFactorMethod  string    `json:"two_factor_method"`
	HashToken        string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	IsActive         bool      `json:"is_active"`
}

type Service interface {
	Register(ctx context.Context, email, login, password string) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByLoginOrEmail(ctx context.Context, loginOrEmail string) (*User, error)
	ChangePasswordWithOldPassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

type service struct {
	repo Repository
	cost int
}

func NewUserService(repo Repository) Service {
	return &service{
		repo: repo,
		cost: bcryptCost,
	}
}

func (s *service) hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	return string(hashedPasswordBytes), err
}

// generateHashToken returns the per-user secret mixed into refresh tokens.
// Rotating it invalidates every refresh token issued before.
func generateHashToken() (string, error) {
	token := make([]byte, 32)
	_, err := rand.Read(token)
	if err != nil {
		return "", fmt.Errorf("could not generate hash token: %w", err)
	}
	return hex.EncodeToString(token), nil
}

func validateEmailAddress(email string) error {
	if len(email) > maxEmailLength || len(email) <= minEmailLength {
		return ErrEmailLength
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func (s *service) Register(ctx context.Context, email, login, password string) (*User, error) {
	log := logger.FromContext(ctx)

	email = strings.TrimSpace(email)
	login = strings.TrimSpace(login)

	if err := validateEmailAddress(email); err != nil {
		return nil, err
	}

	if len(login) == 0 {
		parts := strings.Split(email, "@")
		if len(parts) < 2 {
			return nil, ErrInvalidEmail
		}
		login = parts[0]
	}
	if len(login) > maxLoginLength || len(login) < minLoginLength {
		return nil, ErrLoginLength
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordLength
	}

	existingUser, err := s.repo.userExistsByLoginOrEmail(ctx, login, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		log.Error().Err(err).Msg("could not check for an existing user")
		return nil, ErrInternalError
	}
	if existingUser != nil {
		if existingUser.Login == login {
			return nil, ErrLoginAlreadyExists
		}
		return nil, ErrEmailAlreadyExists
	}

	passwordHash, err := s.hashPassword(password)
	if err != nil {
		log.Error().Err(err).Msg("could not hash password")
		return nil, ErrInternalError
	}

	hashToken, err := generateHashToken()
	if err != nil {
		log.Error().Err(err).Msg("could not generate hash token")
		return nil, ErrInternalError
	}

	user := &User{
		Email:        email,
		Login:        login,
		PasswordHash: passwordHash,
		HashToken:    hashToken,
		IsActive:     true,
	}

	if err := s.repo.createUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) || errors.Is(err, ErrLoginAlreadyExists) {
			return nil, err
		}
		log.Error().Err(err).Msg("could not create user")
		return nil, ErrInternalError
	}

	log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (s *service) ChangePasswordWithOldPassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.repo.getUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if !DoPasswordsMatch(user.PasswordHash, oldPassword) {
		return ErrInvalidOldPassword
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordLength
	}

	return s.changePassword(ctx, userID, newPassword)
}

func (s *service) changePassword(ctx context.Context, userID, newPassword string) error {
	newPasswordHash, err := s.hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("could not hash password: %w", err)
	}

	newHashToken, err := generateHashToken()
	if err != nil {
		return err
	}

	if err := s.repo.updateUserPasswordAndHashToken(ctx, userID, newPasswordHash, newHashToken); err != nil {
		return fmt.Errorf("could not update user password: %w", err)
	}
	return nil
}

// DoPasswordsMatch compares a bcrypt hash with a plain text password.
func DoPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(currPassword))
	return err == nil
}

func (s *service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	return s.repo.getUserByID(ctx, userID)
}

func (s *service) GetUserByLoginOrEmail(ctx context.Context, loginOrEmail string) (*User, error) {
	return s.repo.getUserByLoginOrEmail(ctx, strings.TrimSpace(loginOrEmail))
}
