package testutil

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/marwah-tailors/marwah-tailors-api/config"
	"github.com/marwah-tailors/marwah-tailors-api/middleware"
	"github.com/marwah-tailors/marwah-tailors-api/models"
	"github.com/marwah-tailors/marwah-tailors-api/services"
)

// TestJWTConfig returns a config with the JWT fields filled in for signing and
// validating tokens in tests.
func TestJWTConfig() *config.Config {
	return &config.Config{
		JWTSecret:   "integration-test-secret",
		JWTIssuer:   "https://api.marwahtailors.com/",
		JWTAudience: "marwah-tailors-portal",
	}
}

// IssueTestToken signs a real access token for a user, using the same path as
// the login endpoint.
func IssueTestToken(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()

	token, err := services.IssueToken(cfg, user)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}

// AuthorizedRequest attaches a bearer token for the given user to a request.
func AuthorizedRequest(t *testing.T, cfg *config.Config, req *http.Request, user *models.User) {
	t.Helper()

	req.Header.Set("Authorization", "Bearer "+IssueTestToken(t, cfg, user))
}

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, issuer, email, role string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  issuer,
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Email: email,
			Role:  role,
		},
	}
}

// SetMockAuthContext sets up a mock authenticated context the way the real
// middleware does, without going through token validation.
func SetMockAuthContext(c *gin.Context, userID uint, email, role string) {
	subject := strconv.FormatUint(uint64(userID), 10)
	c.Set("user_id", subject)
	c.Set("user_email", email)
	c.Set("user_role", role)
	c.Set("validated_claims", MockValidatedClaims(subject, "https://api.marwahtailors.com/", email, role))
}
