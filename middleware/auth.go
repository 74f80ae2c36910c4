package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"shortlet/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by RequireActor.
const (
	CtxActorID   = "actorID"
	CtxActorRole = "actorRole"
)

type actorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RequireActor unpacks the already-issued bearer token and exposes the actor
// identity to handlers. Token issuance and account management belong to the
// identity service; this middleware only trusts the shared signing secret.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := &actorClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(config.AppConfig.JWTSecret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(CtxActorID, claims.Subject)
		c.Set(CtxActorRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin gates admin-only routes. Must run after RequireActor.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxActorRole) != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

// RequireInternal guards service-to-service endpoints with the shared
// internal token instead of an actor identity. An unconfigured token denies
// everything.
func RequireInternal() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Internal-Token")
		secret := config.AppConfig.InternalAPIToken
		if secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid internal token"})
			return
		}
		c.Next()
	}
}
