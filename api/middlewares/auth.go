package middlewares

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/frvega/conversor-go/tool"
)

// Context keys set for handlers behind RequireToken.
const (
	ContextUserKey = "username"
	ContextRoleKey = "role"
)

// RequireToken validates the bearer token on every protected route. The token
// comes from the Authorization header, or from the ?token= query parameter
// for the event-stream transport that cannot set headers. Missing or invalid
// tokens answer 401, which the client treats as session expiry.
func RequireToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			tool.DefaultLogger.Warnf("Missing token for %s", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, tool.FastReturnError("Token requerido"))
			return
		}

		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !parsed.Valid {
			tool.DefaultLogger.Warnf("Invalid token for %s: %v", c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, tool.FastReturnError("Token invalido"))
			return
		}

		username, _ := claims[ContextUserKey].(string)
		role, _ := claims[ContextRoleKey].(string)
		if username == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, tool.FastReturnError("Token invalido"))
			return
		}
		c.Set(ContextUserKey, username)
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}
