package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/platform/ctxutil"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

type AuthMode string

const (
	AuthModeJWT AuthMode = "jwt"
	// AuthModeDev also accepts a bare user UUID as the bearer token.
	AuthModeDev AuthMode = "dev"
)

func ParseAuthMode(raw string) (AuthMode, error) {
	switch AuthMode(strings.TrimSpace(strings.ToLower(raw))) {
	case "", AuthModeJWT:
		return AuthModeJWT, nil
	case AuthModeDev:
		return AuthModeDev, nil
	default:
		return "", fmt.Errorf("invalid AUTH_MODE %q (expected jwt|dev)", raw)
	}
}

type JWTClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// SetContextFromToken verifies tokenString and attaches the caller's
	// identity to ctx.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	IssueToken(userID uuid.UUID, role types.Role, ttl time.Duration) (string, error)
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey []byte
	mode         AuthMode
	now          func() time.Time
}

func NewAuthService(log *logger.Logger, jwtSecretKey string, mode AuthMode) AuthService {
	return &authService{
		log:          log.With("service", "AuthService"),
		jwtSecretKey: []byte(jwtSecretKey),
		mode:         mode,
		now:          time.Now,
	}
}

func (as *authService) IssueToken(userID uuid.UUID, role types.Role, ttl time.Duration) (string, error) {
	if len(as.jwtSecretKey) == 0 {
		return "", errors.New("JWT_SECRET_KEY is not configured")
	}
	if role == "" {
		role = types.RolePatient
	}
	now := as.now()
	claims := JWTClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecretKey)
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, errors.New("missing token")
	}
	if as.mode == AuthModeDev {
		if id, err := uuid.Parse(tokenString); err == nil {
			return ctxutil.WithIdentity(ctx, &ctxutil.Identity{UserID: id, Role: string(types.RolePatient)}), nil
		}
	}
	if len(as.jwtSecretKey) == 0 {
		return ctx, errors.New("token verification is not configured")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return as.jwtSecretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, errors.New("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}
	role := types.Role(strings.ToLower(strings.TrimSpace(claims.Role)))
	switch role {
	case "":
		role = types.RolePatient
	case types.RolePatient, types.RoleClinician, types.RoleAdmin:
	default:
		return ctx, fmt.Errorf("unknown role %q", claims.Role)
	}
	return ctxutil.WithIdentity(ctx, &ctxutil.Identity{UserID: userID, Role: string(role)}), nil
}
