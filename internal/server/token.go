package server

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/emberapp/ember/internal/config"
)

// issueToken signs a short-lived HS256 token whose subject is the user id.
func issueToken(cfg *config.Config, userID uint64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.Auth.TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Auth.JWTSecret))
}
