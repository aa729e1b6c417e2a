package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/roomsense/occupancy-backend-go/pkg/response"
)

// ReadKey validates the public read-only credential the dashboard ships with:
// an HMAC-signed JWT whose role claim must be a read role. An empty secret
// disables the check entirely.
func ReadKey(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		token := c.GetHeader("apikey")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "Missing read key")
			c.Abort()
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
			response.Error(c, http.StatusUnauthorized, "Invalid read key")
			c.Abort()
			return
		}

		if role, _ := claims["role"].(string); role != "" && role != "anon" && role != "read_only" {
			response.Error(c, http.StatusForbidden, "Read key does not grant read access")
			c.Abort()
			return
		}

		c.Next()
	}
}
