package delivery

import (
	"net/http"
	"strings"

	authdomain "github.com/vivekshiftai/shiftAIOT-sub009/internal/auth/domain"
	"github.com/vivekshiftai/shiftAIOT-sub009/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// AuthMiddleware resolves the bearer token to an Identity and stores it on
// the request context. Requests without a valid token get 401.
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		identity, err := authUsecase.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Set("userID", identity.UserID)
		c.Set("orgID", identity.OrganizationID)
		c.Next()
	}
}

// RequirePermission rejects requests whose identity lacks the permission.
func RequirePermission(perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFromContext(c)
		if identity == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		if !identity.HasPermission(perm) {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// IdentityFromContext returns the authenticated identity, or nil.
func IdentityFromContext(c *gin.Context) *authdomain.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*authdomain.Identity)
	return identity
}
