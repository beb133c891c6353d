package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"region-feedback-server/models"
	"region-feedback-server/types"
	"region-feedback-server/utils"
)

const userContextKey = "user"

// AuthRequired validates the bearer token and stores the caller in the
// request context. Region assignments are read from the claims; a change to
// an admin's assignments takes effect when the token is next refreshed.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c)
		if !ok {
			utils.AbortError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		c.Set(userContextKey, claims.ToRequestUser())
		c.Next()
	}
}

// OptionalAuth resolves the caller when a valid bearer token is present and
// continues anonymously otherwise. Used on public endpoints whose response
// narrows for scoped admins.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c); ok {
			c.Set(userContextKey, claims.ToRequestUser())
		}
		c.Next()
	}
}

// RequireSuperAdmin gates an endpoint to unscoped administrators. Must run
// after AuthRequired.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || models.AdminRole(user.Role) != models.RoleSuperAdmin {
			utils.AbortError(c, http.StatusForbidden, "Access denied")
			return
		}
		c.Next()
	}
}

// WebSocketAuth validates the token passed as a query parameter, since
// browser WebSocket clients cannot set an Authorization header.
func WebSocketAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if tokenString == "" {
			utils.AbortError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := utils.VerifyAccessToken(tokenString)
		if err != nil {
			utils.AbortError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(userContextKey, claims.ToRequestUser())
		c.Next()
	}
}

// CurrentUser returns the authenticated caller, or nil for anonymous requests
func CurrentUser(c *gin.Context) *types.RequestUser {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*types.RequestUser)
	if !ok {
		return nil
	}
	return user
}

func bearerClaims(c *gin.Context) (*types.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, false
	}

	claims, err := utils.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, false
	}
	return claims, true
}
