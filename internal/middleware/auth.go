package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminAuth guards the endpoints that mutate overlay state (tracking cards,
// forcing a reset, uploading art). An empty key disables the check, which is
// the default for a server bound to localhost.
type AdminAuth struct {
	key string
}

func NewAdminAuth(key string) *AdminAuth {
	return &AdminAuth{key: key}
}

func (a *AdminAuth) Enabled() bool {
	return a.key != ""
}

type authFailure struct {
	message string
	code    string
}

// check validates an "Authorization: Bearer <key>" header.
func (a *AdminAuth) check(header string) *authFailure {
	if header == "" {
		return &authFailure{"Authorization header required", "AUTH_REQUIRED"}
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return &authFailure{"Invalid authorization format. Use: Bearer <admin_key>", "AUTH_INVALID_FORMAT"}
	}
	if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(a.key)) != 1 {
		return &authFailure{"Invalid admin key", "AUTH_INVALID_KEY"}
	}
	return nil
}

// Require aborts requests without a valid admin key.
func (a *AdminAuth) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled() {
			c.Next()
			return
		}
		if f := a.check(c.GetHeader("Authorization")); f != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": f.message,
				"code":  f.code,
			})
			return
		}
		c.Next()
	}
}

// Verify reports whether the caller's stored key is still valid.
func (a *AdminAuth) Verify(c *gin.Context) {
	if !a.Enabled() {
		c.JSON(http.StatusOK, gin.H{
			"valid":        true,
			"auth_enabled": false,
			"message":      "Authentication is not configured",
		})
		return
	}
	if f := a.check(c.GetHeader("Authorization")); f != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"valid": false,
			"error": f.message,
			"code":  f.code,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":        true,
		"auth_enabled": true,
	})
}

// Status is public and tells clients whether they need a key at all.
func (a *AdminAuth) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"auth_enabled": a.Enabled(),
	})
}
