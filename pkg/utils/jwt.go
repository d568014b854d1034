package utils

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"garage_backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// TokenClaims represents the custom JWT claims
type TokenClaims struct {
	OperatorID string `json:"operator_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// TokenTTL parses JWT_EXPIRES_IN. Day suffixes ("7d") are accepted on top
// of time.ParseDuration units.
func TokenTTL(expiresIn string) time.Duration {
	expiresIn = strings.TrimSpace(expiresIn)
	if days, ok := strings.CutSuffix(expiresIn, "d"); ok {
		n, err := strconv.Atoi(days)
		if err == nil && n > 0 {
			return time.Duration(n) * 24 * time.Hour
		}
		return defaultTokenTTL
	}
	d, err := time.ParseDuration(expiresIn)
	if err != nil || d <= 0 {
		return defaultTokenTTL
	}
	return d
}

// GenerateToken signs a token for an operator
func GenerateToken(operatorID, email string) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		OperatorID: operatorID,
		Email:      email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operatorID,
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL(config.AppConfig.JWTExpiresIn))),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// VerifyToken verifies and parses a JWT token
func VerifyToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.OperatorID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
