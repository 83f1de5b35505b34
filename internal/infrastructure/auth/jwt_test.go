package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/infrastructure/config"
)

const testSecret = "test-secret-key-with-enough-length"

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{Secret: testSecret, Issuer: "shop-backend"})
}

func signToken(t *testing.T, claims *Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims(userID uuid.UUID) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "shop-backend",
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID.String(),
		Email:  "ana@example.com",
	}
}

func TestValidateAcceptsSignedToken(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()
	token := signToken(t, validClaims(userID), testSecret)

	claims, err := svc.Validate(token)

	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	svc := newTestService()
	token := signToken(t, validClaims(uuid.New()), "another-secret-entirely-for-testing")

	_, err := svc.Validate(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := newTestService()
	claims := validClaims(uuid.New())
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	token := signToken(t, claims, testSecret)

	_, err := svc.Validate(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	svc := newTestService()
	claims := validClaims(uuid.New())
	claims.Issuer = "someone-else"
	token := signToken(t, claims, testSecret)

	_, err := svc.Validate(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsMissingUserID(t *testing.T) {
	svc := newTestService()
	claims := validClaims(uuid.New())
	claims.UserID = ""
	token := signToken(t, claims, testSecret)

	_, err := svc.Validate(token)

	assert.ErrorIs(t, err, ErrMissingUserID)
}
