package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shop/backend/internal/infrastructure/auth"
	"github.com/shop/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey = "jwt_claims"
	JWTUserIDKey = "jwt_user_id"

	authHeaderKey = "Authorization"
	bearerPrefix  = "Bearer "
)

// JWTAuth rejects requests without a valid bearer token
func JWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := validateBearer(c, jwtService)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse("UNAUTHORIZED", "Authentication required", GetRequestID(c)))
			return
		}
		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Next()
	}
}

// OptionalJWTAuth attaches claims when a valid token is present but lets
// anonymous requests through. Guest checkout and carts rely on this.
func OptionalJWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := validateBearer(c, jwtService); ok {
			c.Set(JWTClaimsKey, claims)
			c.Set(JWTUserIDKey, claims.UserID)
		}
		c.Next()
	}
}

func validateBearer(c *gin.Context, jwtService *auth.JWTService) (*auth.Claims, bool) {
	header := c.GetHeader(authHeaderKey)
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, false
	}
	token := strings.TrimPrefix(header, bearerPrefix)
	if token == "" {
		return nil, false
	}
	claims, err := jwtService.Validate(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// StaffOnly rejects authenticated users without the staff flag. It must run
// after JWTAuth.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := c.Get(JWTClaimsKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse("UNAUTHORIZED", "Authentication required", GetRequestID(c)))
			return
		}
		if jwtClaims, ok := claims.(*auth.Claims); !ok || !jwtClaims.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse("FORBIDDEN", "Staff access required", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// GetAuthenticatedUserID returns the authenticated user's ID, or nil for
// anonymous requests
func GetAuthenticatedUserID(c *gin.Context) *uuid.UUID {
	raw := c.GetString(JWTUserIDKey)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
