package product

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shopsphere_back_end/internal/cache"
	"shopsphere_back_end/internal/database"
	"shopsphere_back_end/internal/services"
)

// GetInventory renvoie le stock courant d'un produit
func GetInventory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	svc := services.NewInventoryService(database.DB)
	inv, err := svc.Get(ctx, c.Param("productId"))
	if err != nil {
		c.JSON(services.HTTPStatus(err), gin.H{"error": "Inventaire introuvable"})
		return
	}

	c.JSON(http.StatusOK, inv)
}

// UpdateInventory écrase quantité et/ou seuil de réapprovisionnement
// (admin uniquement, la route est derrière RequireAdmin)
func UpdateInventory(c *gin.Context) {
	var input struct {
		Quantity  *int `json:"quantity"`
		Threshold *int `json:"threshold"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	svc := services.NewInventoryService(database.DB)
	inv, err := svc.Update(ctx, c.Param("productId"), input.Quantity, input.Threshold)
	if err != nil {
		status := services.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("❌ Erreur mise à jour inventaire %s: %v", c.Param("productId"), err)
			c.JSON(status, gin.H{"error": "Erreur lors de la mise à jour du stock"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	// Le catalogue expose les niveaux de stock : toute mutation invalide
	// le cache produits
	cache.InvalidateProducts(ctx)

	if inv.LowStock() {
		log.Printf("🚨 Stock faible pour %s : %d (seuil %d)", inv.ProductID, inv.Quantity, inv.ReorderThreshold)
	}

	c.JSON(http.StatusOK, inv)
}
