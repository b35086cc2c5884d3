package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const principalKey = "principal"

// Claims is the accepted token payload. The subject identifies the
// principal; everything else is standard registered claims.
type Claims struct {
	jwt.RegisteredClaims
}

// requireAuth validates the bearer token and stores the principal on the
// request context. Tokens must be HMAC-signed with the shared secret.
func requireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{OK: false, Message: "missing bearer token"})
			return
		}

		claims := &Claims{}
		parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{OK: false, Message: "invalid token"})
			return
		}
		principal := strings.TrimSpace(claims.Subject)
		if principal == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{OK: false, Message: "token has no subject"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func principalFrom(c *gin.Context) string {
	return c.GetString(principalKey)
}
