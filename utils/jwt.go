package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ewhacare/accessdesk/config"
)

const tokenIssuer = "accessdesk"

// AdminClaims identifies the admin session carried by a token.
type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateAdminToken issues a signed session token for username.
func GenerateAdminToken(username string, ttl time.Duration) (string, time.Time, error) {
	cfg := config.Get()
	now := time.Now()
	expires := now.Add(ttl)

	claims := AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	return signed, expires, err
}

// ParseAdminToken validates tokenStr and returns its claims. Tokens signed
// for another username than the configured admin are rejected.
func ParseAdminToken(tokenStr string) (*AdminClaims, error) {
	cfg := config.Get()
	parsed, err := jwt.ParseWithClaims(tokenStr, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*AdminClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Username != cfg.AdminUsername {
		return nil, errors.New("token subject is not the admin")
	}
	return claims, nil
}
