// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jpcardenas/heladeria-pos/internal/config"
	"github.com/jpcardenas/heladeria-pos/internal/domain"
	"github.com/jpcardenas/heladeria-pos/internal/repository"
)

// ErrBadCredentials covers both unknown usernames and wrong passwords,
// deliberately indistinguishable to the caller.
var ErrBadCredentials = errors.New("invalid username or password")

// AuthService issues and verifies the bearer tokens that gate every
// mutating endpoint.
type AuthService struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
}

func NewAuthService(users repository.UserRepository, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(cfg.TokenTTLMins) * time.Minute,
	}
}

type authClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Login verifies credentials and returns a signed token plus the user
// record. Inactive accounts cannot log in.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, ErrBadCredentials
		}
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrBadCredentials
	}

	now := time.Now()
	claims := authClaims{
		Username: user.Username,
		Role:     user.RoleName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("username", user.Username).Str("role", user.RoleName).Msg("user logged in")
	return token, user, nil
}

// Verify parses a bearer token and returns the principal it encodes.
func (s *AuthService) Verify(tokenString string) (*domain.Principal, error) {
	var claims authClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	var userID int64
	fmt.Sscanf(claims.Subject, "%d", &userID)
	return &domain.Principal{UserID: userID, Username: claims.Username, Role: claims.Role}, nil
}

// CreateUser hashes the password and stores the account.
func (s *AuthService) CreateUser(ctx context.Context, u *domain.User, password string) (int64, error) {
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return 0, fmt.Errorf("username is required: %w", domain.ErrInvalidInput)
	}
	if len(password) < 6 {
		return 0, fmt.Errorf("password must be at least 6 characters: %w", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	u.PasswordHash = string(hash)
	u.IsActive = true

	return s.users.Create(ctx, u)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *AuthService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.users.ListRoles(ctx)
}
