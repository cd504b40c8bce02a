package middleware

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"shopsphere_back_end/internal/models"
	"shopsphere_back_end/internal/services"
)

// Même secret (et même repli) que utils.GenerateJWT
func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return []byte(secret)
}

func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token manquant"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Format Authorization invalide"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
			}
			return jwtSecret(), nil
		})
		if err != nil {
			log.Printf("❌ Erreur parsing JWT: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token invalide"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token invalide"})
			c.Abort()
			return
		}

		if exp, ok := claims["exp"].(float64); ok {
			if time.Now().Unix() > int64(exp) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expiré"})
				c.Abort()
				return
			}
		}

		// Les claims numériques JWT arrivent toujours en float64
		uid, ok := claims["user_id"].(float64)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user_id manquant"})
			c.Abort()
			return
		}

		roleStr, _ := claims["role"].(string)
		role := models.Role(roleStr)
		if !role.Valid() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Rôle invalide"})
			c.Abort()
			return
		}

		c.Set("user_id", int64(uid))
		c.Set("email", claims["email"])
		c.Set("role", role)

		c.Next()
	}
}

// CurrentActor reconstruit l'acteur métier depuis le contexte Gin posé par
// AuthRequired. C'est le seul endroit où l'identité passe du transport au
// domaine : en dessous, tout est paramètre explicite
func CurrentActor(c *gin.Context) (services.Actor, bool) {
	uid, okID := c.Get("user_id")
	role, okRole := c.Get("role")
	if !okID || !okRole {
		return services.Actor{}, false
	}

	id, okID := uid.(int64)
	r, okRole := role.(models.Role)
	if !okID || !okRole {
		return services.Actor{}, false
	}
	return services.Actor{ID: id, Role: r}, true
}
