package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/token-portfolio/internal/logging"
	"github.com/token-portfolio/internal/models"
	"github.com/token-portfolio/internal/types"
)

// AuthService exchanges an external identity token for a service session
// token. The external token's subject is taken as the stable identity; the
// user row is created on first login.
type AuthService struct {
	userRepo UserRepository
	secret   []byte
	tokenTTL time.Duration
	logger   *logging.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, secret string, tokenTTL time.Duration, logger *logging.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// LoginResult is the outcome of a successful login
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login resolves the subject of an external identity token, upserts the
// matching user, and issues a signed session token.
func (s *AuthService) Login(ctx context.Context, identityToken string) (*LoginResult, error) {
	privyID, err := subjectOf(identityToken)
	if err != nil {
		return nil, types.NewUnauthorizedError("invalid identity token")
	}

	user, err := s.userRepo.UpsertByPrivyID(ctx, privyID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     user.ID,
		"privyId": user.PrivyID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	s.logger.WithField("userId", user.ID).Info("User logged in")

	return &LoginResult{Token: token, User: user}, nil
}

// VerifyToken validates a session token and returns the user id it was
// issued for.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", types.NewUnauthorizedError("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", types.NewUnauthorizedError("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", types.NewUnauthorizedError("token has no subject")
	}

	return sub, nil
}

// subjectOf extracts the subject claim without verifying the signature.
// The external provider's signature is assumed to be checked upstream.
func subjectOf(identityToken string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(identityToken, claims); err != nil {
		return "", fmt.Errorf("failed to parse identity token: %w", err)
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("identity token has no subject")
	}

	return sub, nil
}
