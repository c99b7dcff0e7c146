package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Nienta-PK/taskmanager/backend/internal/models"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	tokenIssuer      = "taskmanager-backend"
)

// Identity is the caller attached to an authenticated request.
type Identity struct {
	UserID  int64 `json:"user_id"`
	IsAdmin bool  `json:"is_admin"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserInfo struct {
	UserID      int64  `json:"user_id"`
	IsAdmin     bool   `json:"is_admin"`
	AccessToken string `json:"access_token"`
}

type AuthSettings struct {
	SecretKey       string
	Algorithm       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type AuthService interface {
	Login(ctx context.Context, identifier, password string) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Revoke(ctx context.Context, refreshToken string) error
	UserInfoByEmail(ctx context.Context, email string) (UserInfo, error)
	ParseAccessToken(token string) (Identity, error)
}

type tokenClaims struct {
	UserID  int64  `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
	Type    string `json:"type"`
	jwt.RegisteredClaims
}

type loginRecorder interface {
	Stamp(ctx context.Context, userID int64) (models.LoginHistory, error)
}

type AuthServiceImpl struct {
	users    UserStore
	tokens   TokenStore
	history  loginRecorder
	settings AuthSettings
	method   jwt.SigningMethod
	now      func() time.Time
}

// NewAuthService fails when the signing algorithm is not an HMAC method
// known to jwt.
func NewAuthService(users UserStore, tokens TokenStore, history loginRecorder, settings AuthSettings) (*AuthServiceImpl, error) {
	if settings.SecretKey == "" {
		return nil, errors.New("auth secret key is required")
	}

	method, ok := jwt.GetSigningMethod(settings.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", settings.Algorithm)
	}

	if settings.AccessTokenTTL <= 0 {
		settings.AccessTokenTTL = 30 * time.Minute
	}
	if settings.RefreshTokenTTL <= 0 {
		settings.RefreshTokenTTL = 24 * time.Hour
	}

	return &AuthServiceImpl{
		users:    users,
		tokens:   tokens,
		history:  history,
		settings: settings,
		method:   method,
		now:      time.Now,
	}, nil
}

// Login accepts a username or, when identifier contains '@', an email.
func (s *AuthServiceImpl) Login(ctx context.Context, identifier, password string) (TokenPair, error) {
	var (
		user models.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.users.GetByEmail(ctx, identifier)
	} else {
		user, err = s.users.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, fmt.Errorf("%w: incorrect username or password", ErrUnauthorized)
		}
		return TokenPair{}, err
	}

	if !user.IsActive || !VerifyPassword(user.Password, password) {
		return TokenPair{}, fmt.Errorf("%w: incorrect username or password", ErrUnauthorized)
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return TokenPair{}, err
	}

	if s.history != nil {
		if _, err := s.history.Stamp(ctx, user.UserID); err != nil {
			log.Printf("⚠️ Failed to record login for user %d: %v", user.UserID, err)
		}
	}

	return pair, nil
}

func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	if _, err := s.tokens.FindActive(ctx, claims.ID, claims.UserID, s.now()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, fmt.Errorf("%w: refresh token not found or expired", ErrUnauthorized)
		}
		return TokenPair{}, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
		}
		return TokenPair{}, err
	}
	if !user.IsActive {
		return TokenPair{}, fmt.Errorf("%w: user is inactive", ErrUnauthorized)
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate new tokens: %w", err)
	}

	if err := s.tokens.DeleteByJTI(ctx, claims.ID); err != nil {
		return TokenPair{}, fmt.Errorf("failed to delete old token: %w", err)
	}

	return pair, nil
}

func (s *AuthServiceImpl) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return err
	}
	return s.tokens.DeleteByJTI(ctx, claims.ID)
}

func (s *AuthServiceImpl) UserInfoByEmail(ctx context.Context, email string) (UserInfo, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return UserInfo{}, fmt.Errorf("%w: user not found, please register", ErrNotFound)
		}
		return UserInfo{}, err
	}

	access, err := s.signAccess(user, s.now())
	if err != nil {
		return UserInfo{}, err
	}

	return UserInfo{UserID: user.UserID, IsAdmin: user.IsAdmin, AccessToken: access}, nil
}

func (s *AuthServiceImpl) ParseAccessToken(token string) (Identity, error) {
	claims, err := s.parse(token, tokenTypeAccess)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: claims.UserID, IsAdmin: claims.IsAdmin}, nil
}

func (s *AuthServiceImpl) parse(raw, wantType string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.settings.SecretKey), nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: could not validate credentials", ErrUnauthorized)
	}

	if claims.Type != wantType {
		return nil, fmt.Errorf("%w: invalid token type", ErrUnauthorized)
	}
	if wantType == tokenTypeRefresh && claims.ID == "" {
		return nil, fmt.Errorf("%w: missing jti in token", ErrUnauthorized)
	}

	return claims, nil
}

func (s *AuthServiceImpl) signAccess(user models.User, now time.Time) (string, error) {
	claims := tokenClaims{
		UserID:  user.UserID,
		IsAdmin: user.IsAdmin,
		Type:    tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.settings.AccessTokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString([]byte(s.settings.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (s *AuthServiceImpl) issue(ctx context.Context, user models.User) (TokenPair, error) {
	now := s.now()

	access, err := s.signAccess(user, now)
	if err != nil {
		return TokenPair{}, err
	}

	jti, err := uuid.NewV4()
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate jti: %w", err)
	}

	refreshExpiry := now.Add(s.settings.RefreshTokenTTL)
	refreshClaims := tokenClaims{
		UserID: user.UserID,
		Type:   tokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			Subject:   user.Email,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExpiry),
		},
	}

	refresh, err := jwt.NewWithClaims(s.method, refreshClaims).SignedString([]byte(s.settings.SecretKey))
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	record := models.Token{
		UserID:       user.UserID,
		JTI:          jti.String(),
		RefreshToken: refresh,
		ExpiresAt:    refreshExpiry,
		CreatedAt:    now,
	}
	if err := s.tokens.Create(ctx, &record); err != nil {
		return TokenPair{}, fmt.Errorf("failed to create token record: %w", err)
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.settings.AccessTokenTTL / time.Second),
	}, nil
}
