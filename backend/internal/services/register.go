package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/Nienta-PK/taskmanager/backend/internal/clock"
	"github.com/Nienta-PK/taskmanager/backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

const passwordSymbols = "!#$&@*"

type RegistrationRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type RegisterService interface {
	RegisterUser(ctx context.Context, req RegistrationRequest) (*models.User, error)
}

type RegisterServiceImpl struct {
	users UserStore
	clock clock.Clock
}

func NewRegisterService(users UserStore, clk clock.Clock) *RegisterServiceImpl {
	return &RegisterServiceImpl{users: users, clock: clk}
}

func (s *RegisterServiceImpl) RegisterUser(ctx context.Context, req RegistrationRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already exists", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username already exists", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:  username,
		Email:     req.Email,
		Password:  hashed,
		CreatedAt: s.clock.Now(),
		IsActive:  true,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// ValidatePassword requires at least eight characters with an upper-case
// letter, a lower-case letter, a digit and one of !#$&@*.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters long", ErrValidation)
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	switch {
	case !symbol:
		return fmt.Errorf("%w: password must contain at least one special character (%s)", ErrValidation, passwordSymbols)
	case !upper:
		return fmt.Errorf("%w: password must contain at least one uppercase letter", ErrValidation)
	case !lower:
		return fmt.Errorf("%w: password must contain at least one lowercase letter", ErrValidation)
	case !digit:
		return fmt.Errorf("%w: password must contain at least one digit", ErrValidation)
	}
	return nil
}

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 50 {
		return fmt.Errorf("%w: username must be between 3 and 50 characters", ErrValidation)
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func VerifyPassword(hashedPassword, plainPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword)) == nil
}
