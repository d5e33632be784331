package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"poll-service/internal/cache"
	"poll-service/internal/models"
	"poll-service/internal/repositories/postgres"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AdminStore interface {
	FindByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	SaveByUsername(ctx context.Context, admin *models.AdminUser) error
}

type AuthStatus int

const (
	AuthAuthorized AuthStatus = iota
	AuthMissingToken
	AuthInvalidToken
	AuthRevoked
	AuthUnavailable
)

func (s AuthStatus) String() string {
	switch s {
	case AuthAuthorized:
		return "authorized"
	case AuthMissingToken:
		return "missing_token"
	case AuthInvalidToken:
		return "invalid_token"
	case AuthRevoked:
		return "revoked"
	case AuthUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// AuthResult is the verdict on a bearer token. Only AuthAuthorized carries
// the admin identity.
type AuthResult struct {
	Status    AuthStatus
	AdminID   uint
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

func (r AuthResult) Authorized() bool { return r.Status == AuthAuthorized }

type adminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthService struct {
	admins    AdminStore
	counter   cache.Counter
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(admins AdminStore, counter cache.Counter, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		admins:    admins,
		counter:   counter,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Login checks the admin's password and issues a token whose liveness entry
// lives in the cache. No token is issued if that entry cannot be written.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	admin, err := s.admins.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeError("login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("Admin login rejected", "username", req.Username)
		return nil, ErrInvalidCredentials
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.tokenTTL)
	tokenID := uuid.NewString()

	token, err := s.generateJWT(admin, tokenID, issuedAt, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.counter.SetWithExpiry(ctx, cache.TokenKey(tokenID), strconv.FormatUint(uint64(admin.ID), 10), s.tokenTTL); err != nil {
		slog.Error("Failed to register admin token", "username", admin.Username, "error", err)
		return nil, fmt.Errorf("login: %w: %w", ErrTransient, err)
	}

	slog.Info("Admin logged in", "adminID", admin.ID, "tokenID", tokenID)
	return &models.LoginResponse{Token: token, ExpiresAt: expiresAt.UTC()}, nil
}

func (s *AuthService) generateJWT(admin *models.AdminUser, tokenID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := adminClaims{
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(admin.ID), 10),
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// Authorize validates an Authorization header value. A token must be
// correctly signed, unexpired and still present in the cache; when the
// cache cannot answer the request is refused.
func (s *AuthService) Authorize(ctx context.Context, header string) AuthResult {
	raw := strings.TrimSpace(header)
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	if raw == "" {
		return AuthResult{Status: AuthMissingToken}
	}

	claims := &adminClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		slog.Debug("Rejected admin token", "error", err)
		return AuthResult{Status: AuthInvalidToken}
	}

	adminID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || claims.ID == "" {
		return AuthResult{Status: AuthInvalidToken}
	}

	live, err := s.counter.Exists(ctx, cache.TokenKey(claims.ID))
	if err != nil {
		slog.Error("Cannot verify admin token, refusing", "tokenID", claims.ID, "error", err)
		return AuthResult{Status: AuthUnavailable}
	}
	if !live {
		return AuthResult{Status: AuthRevoked}
	}

	return AuthResult{
		Status:    AuthAuthorized,
		AdminID:   uint(adminID),
		Username:  claims.Username,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
}

// Logout revokes a token by dropping its liveness entry.
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return fmt.Errorf("logout: %w", ErrValidation)
	}
	if err := s.counter.Delete(ctx, cache.TokenKey(tokenID)); err != nil {
		return fmt.Errorf("logout: %w: %w", ErrTransient, err)
	}
	slog.Info("Admin token revoked", "tokenID", tokenID)
	return nil
}

// EnsureAdmin creates the bootstrap admin or resets its password.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return fmt.Errorf("ensure admin: username and password are required: %w", ErrValidation)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.AdminUser{Username: strings.TrimSpace(username), PasswordHash: string(hashedPassword)}
	if err := s.admins.SaveByUsername(ctx, admin); err != nil {
		return storeError("ensure admin", err)
	}

	slog.Info("Admin account ready", "username", admin.Username, "adminID", admin.ID)
	return nil
}
