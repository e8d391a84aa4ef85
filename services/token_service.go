package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/marwah-tailors/marwah-tailors-api/config"
	"github.com/marwah-tailors/marwah-tailors-api/models"
)

// TokenTTL is how long an issued access token stays valid.
const TokenTTL = 24 * time.Hour

// IssueToken signs an HS256 access token for the given user. The claims match
// what middleware.EnsureValidToken expects: numeric user id as subject plus
// email and role custom claims.
func IssueToken(cfg *config.Config, user *models.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"iss":   cfg.JWTIssuer,
		"aud":   cfg.JWTAudience,
		"sub":   strconv.FormatUint(uint64(user.ID), 10),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(TokenTTL).Unix(),
		"jti":   uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
