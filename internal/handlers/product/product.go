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

func CreateProduct(c *gin.Context) {
	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	svc := services.NewProductService(database.DB)
	p, err := svc.Create(ctx, input)
	if err != nil {
		status := services.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("❌ Erreur création produit: %v", err)
			c.JSON(status, gin.H{"error": "Erreur lors de la création du produit"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, p)
}

func GetAllProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	svc := services.NewProductService(database.DB)
	products, err := svc.GetAll(ctx)
	if err != nil {
		log.Printf("❌ Erreur lecture produits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}

	c.JSON(http.StatusOK, products)
}

func GetProductByID(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	svc := services.NewProductService(database.DB)
	p, err := svc.GetByID(ctx, c.Param("id"))
	if err != nil {
		c.JSON(services.HTTPStatus(err), gin.H{"error": "Produit non trouvé"})
		return
	}

	c.JSON(http.StatusOK, p)
}

func UpdateProduct(c *gin.Context) {
	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	svc := services.NewProductService(database.DB)
	p, err := svc.Update(ctx, c.Param("id"), input)
	if err != nil {
		status := services.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("❌ Erreur mise à jour produit %s: %v", c.Param("id"), err)
			c.JSON(status, gin.H{"error": "Erreur lors de la mise à jour du produit"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, p)
}

func DeleteProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	svc := services.NewProductService(database.DB)
	if err := svc.Delete(ctx, c.Param("id")); err != nil {
		status := services.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("❌ Erreur suppression produit %s: %v", c.Param("id"), err)
			c.JSON(status, gin.H{"error": "Erreur lors de la suppression du produit"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé avec succès"})
}
