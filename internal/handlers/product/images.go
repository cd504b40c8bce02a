package product

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shopsphere_back_end/internal/database"
	"shopsphere_back_end/internal/services"
)

// UploadProductImage stocke l'image dans MinIO puis enregistre son URL sur
// le produit
func UploadProductImage(c *gin.Context) {
	productID := c.Param("id")

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier 'image' manquant"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	svc := services.NewProductService(database.DB)
	p, err := svc.GetByID(ctx, productID)
	if err != nil {
		c.JSON(services.HTTPStatus(err), gin.H{"error": "Produit non trouvé"})
		return
	}

	url, err := services.UploadProductImage(ctx, productID, file)
	if err != nil {
		log.Printf("❌ Erreur upload image produit %s: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'upload de l'image"})
		return
	}

	input := services.ProductInput{
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		ImageURL:      url,
		IsActive:      &p.IsActive,
		CustomOptions: p.CustomOptions,
	}
	if _, err := svc.Update(ctx, productID, input); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image uploadée mais produit non mis à jour"})
		return
	}

	log.Printf("🖼️ Image mise à jour pour le produit %s", productID)
	c.JSON(http.StatusOK, gin.H{"image_url": url})
}
