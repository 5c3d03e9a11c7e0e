package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/guttosm/sash-quote-service/config"
	"github.com/guttosm/sash-quote-service/internal/domain/dto"
)

var (
	// ErrInvalidCredentials is returned when the admin password is incorrect.
	ErrInvalidCredentials = errors.New("invalid password")
	// ErrInvalidToken is returned when token is invalid or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
)

const (
	defaultAdminSubject = "admin"
	tokenIssuer         = "sash-quote-service"
)

// ClaimsWithJWT extends dto.Claims with JWT RegisteredClaims for token generation.
type ClaimsWithJWT struct {
	dto.Claims
	jwt.RegisteredClaims
}

// AdminAuthService guards the price administration with a single password.
type AdminAuthService interface {
	// Login checks password against the configured bcrypt hash and issues an
	// access token for name, or "admin" when name is empty.
	Login(ctx context.Context, name, password string) (*dto.LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*dto.Claims, error)
}

// AdminAuthServiceImpl implements AdminAuthService.
type AdminAuthServiceImpl struct {
	passwordHash []byte
	secretKey    []byte
	tokenTTL     time.Duration
}

// NewAdminAuthService creates an admin auth service from the auth configuration.
func NewAdminAuthService(cfg config.AuthConfig) AdminAuthService {
	return &AdminAuthServiceImpl{
		passwordHash: []byte(cfg.AdminPasswordHash),
		secretKey:    []byte(cfg.JWTSecretKey),
		tokenTTL:     cfg.AccessTokenTTL,
	}
}

// Login implements AdminAuthService.
func (s *AdminAuthServiceImpl) Login(ctx context.Context, name, password string) (*dto.LoginResponse, error) {
	if len(s.passwordHash) == 0 {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	subject := strings.TrimSpace(name)
	if subject == "" {
		subject = defaultAdminSubject
	}

	token, err := s.generateAccessToken(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.tokenTTL.Seconds()),
	}, nil
}

// ValidateToken implements AdminAuthService.
func (s *AdminAuthServiceImpl) ValidateToken(ctx context.Context, tokenString string) (*dto.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ClaimsWithJWT{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ClaimsWithJWT)
	if !ok || !token.Valid || claims.Role != dto.AdminRole {
		return nil, ErrInvalidToken
	}
	return &claims.Claims, nil
}

func (s *AdminAuthServiceImpl) generateAccessToken(subject string) (string, error) {
	now := time.Now()

	claims := &ClaimsWithJWT{
		Claims: dto.Claims{
			Subject: subject,
			Role:    dto.AdminRole,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}
