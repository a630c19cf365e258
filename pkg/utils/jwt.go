package utils

import (
	"fmt"
	"time"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/golang-jwt/jwt/v4"
)

type ServiceClaims struct {
	Service string `json:"service"`
	jwt.RegisteredClaims
}

// GenerateServiceToken mints a token for a trusted caller (bot, uploader UI,
// internal cron). Mutating API routes require one.
func GenerateServiceToken(service string, cfg *config.Config) (string, error) {
	claims := &ServiceClaims{
		Service: service,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Server.JwtSecretKey))
}

func ValidateServiceToken(tokenString string, cfg *config.Config) (*ServiceClaims, error) {
	claims := &ServiceClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Server.JwtSecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
