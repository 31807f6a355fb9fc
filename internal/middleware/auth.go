package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/01moynul/taptosell-catalog/internal/auth"
	"github.com/01moynul/taptosell-catalog/internal/logger"
	"github.com/01moynul/taptosell-catalog/internal/metrics"
)

const (
	SubjectKey = "subject"
	RoleKey    = "role"
)

// AuthMiddleware checks the Bearer token and stores the caller's subject and role.
// m may be nil.
func AuthMiddleware(issuer *auth.Issuer, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromGin(c)
		reject := func(msg string) {
			if m != nil {
				m.AuthFailuresTotal.Inc()
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		}

		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			reject("Authorization header required")
			return
		}
		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			reject("Invalid token format (must be Bearer)")
			return
		}

		// 2. --- Validate Token ---
		claims, err := issuer.ValidateToken(strings.TrimSpace(tokenString))
		if err != nil {
			log.Warn("Rejected token", zap.Error(err))
			reject("Invalid or expired token")
			return
		}

		// 3. --- Success ---
		c.Set(SubjectKey, claims.Subject)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware. It only lets the listed roles through.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get(RoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Role not found in context (AuthMiddleware must run first)"})
			return
		}
		role, _ := raw.(auth.Role)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: " + string(roles[0]) + " role required"})
	}
}
