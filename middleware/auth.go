package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resort-backend/services"
	"resort-backend/utils"
)

const claimsKey = "staff_claims"

type TokenParser interface {
	ParseToken(raw string) (*services.StaffClaims, error)
}

// RequireStaff accepts "Authorization: Bearer <jwt>" and tags the request
// context with the staff username for auditing.
func RequireStaff(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			utils.AbortError(c, http.StatusUnauthorized, "error.unauthorized", "missing bearer token")
			return
		}
		claims, err := parser.ParseToken(strings.TrimSpace(raw))
		if err != nil {
			utils.AbortError(c, http.StatusUnauthorized, "error.unauthorized", "invalid or expired token")
			return
		}
		c.Set(claimsKey, claims)
		c.Request = c.Request.WithContext(services.WithActor(c.Request.Context(), claims.Username))
		c.Next()
	}
}

// RequirePermission must run after RequireStaff.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			utils.AbortError(c, http.StatusUnauthorized, "error.unauthorized", "missing bearer token")
			return
		}
		if !claims.Can(permission) {
			utils.AbortError(c, http.StatusForbidden, "error.forbidden", "missing permission "+permission)
			return
		}
		c.Next()
	}
}

func Claims(c *gin.Context) *services.StaffClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*services.StaffClaims)
	return claims
}
