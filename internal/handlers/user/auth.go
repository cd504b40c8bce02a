package user

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shopsphere_back_end/internal/database"
	"shopsphere_back_end/internal/models"
	"shopsphere_back_end/internal/services"
	"shopsphere_back_end/internal/utils"
)

// Register crée un compte client (toujours rôle CUSTOMER)
func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	svc := services.NewUserService(database.DB)
	newUser, err := svc.Register(ctx, input.Name, input.Email, input.Password)
	if err != nil {
		status := services.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			c.JSON(status, gin.H{"error": "Erreur lors de la création du compte"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id": newUser.ID,
		"email":   newUser.Email,
		"role":    newUser.Role,
	})
}

// Login vérifie les identifiants et délivre un JWT valable 24h
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	svc := services.NewUserService(database.DB)
	u, err := svc.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		return
	}

	token, err := utils.GenerateJWT(*u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user_id": u.ID,
		"name":    u.Name,
		"email":   u.Email,
		"role":    u.Role,
	})
}

// Me renvoie le profil de l'utilisateur connecté
func Me(c *gin.Context) {
	userID := c.GetInt64("user_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	svc := services.NewUserService(database.DB)
	u, err := svc.GetByID(ctx, userID)
	if err != nil {
		c.JSON(services.HTTPStatus(err), gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, u)
}

// UpdateMe met à jour nom, téléphone et adresse de livraison par défaut
func UpdateMe(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var input struct {
		Name    string          `json:"name"`
		Phone   string          `json:"phone"`
		Address *models.Address `json:"address"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	svc := services.NewUserService(database.DB)
	u, err := svc.UpdateProfile(ctx, userID, input.Name, input.Phone, input.Address)
	if err != nil {
		status := services.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			c.JSON(status, gin.H{"error": "Erreur lors de la mise à jour du profil"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, u)
}
