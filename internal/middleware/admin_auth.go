package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xenz/backend/internal/services"
)

// AdminAuth guards the admin surface. It accepts a Bearer token from the
// admin login, or the raw admin credential in the X-Admin-Key header or the
// admin_key query parameter.
func AdminAuth(adminService *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token := strings.TrimPrefix(auth, "Bearer ")
			if err := adminService.ValidateAccessToken(token); err == nil {
				c.Next()
				return
			}
		}

		key := c.GetHeader("X-Admin-Key")
		if key == "" {
			key = c.Query("admin_key")
		}
		if key != "" && adminService.CheckCredential(key) {
			c.Next()
			return
		}

		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		c.Abort()
	}
}
