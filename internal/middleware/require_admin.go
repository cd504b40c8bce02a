package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopsphere_back_end/internal/models"
)

// RequireAdmin vérifie que l'utilisateur authentifié a le rôle ADMIN
func RequireAdmin(c *gin.Context) {
	role, exists := c.Get("role")
	if !exists {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	if r, ok := role.(models.Role); !ok || !r.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	c.Next()
}
