package order

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"shopsphere_back_end/internal/database"
	"shopsphere_back_end/internal/middleware"
	"shopsphere_back_end/internal/models"
	"shopsphere_back_end/internal/services"
)

// CreateOrder passe une commande pour l'utilisateur connecté. La validation
// des produits, la réservation du stock et l'écriture de la commande se
// font dans une seule transaction côté service
func CreateOrder(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	svc := services.NewOrderService(database.DB)
	o, err := svc.CreateOrder(ctx, userID, input)
	if err != nil {
		status := services.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("❌ Erreur création commande: %v", err)
			c.JSON(status, gin.H{"error": "Erreur lors de la création de la commande"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	log.Printf("✅ Commande %d créée pour user %d (%d articles)", o.ID, userID, len(o.Items))
	c.JSON(http.StatusCreated, o)
}

// GetOrders liste les commandes. Un admin voit tout (ou filtre par
// ?userId=) ; un client ne voit que les siennes, quel que soit le filtre
func GetOrders(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	svc := services.NewOrderService(database.DB)

	if !actor.Role.IsAdmin() {
		orders, err := svc.GetOrdersByUser(ctx, actor.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
		return
	}

	if userIDStr := c.Query("userId"); userIDStr != "" {
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId invalide"})
			return
		}
		orders, err := svc.GetOrdersByUser(ctx, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
		return
	}

	orders, err := svc.GetAllOrders(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

// GetOrderByID renvoie une commande. Un client n'accède qu'aux siennes
func GetOrderByID(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	svc := services.NewOrderService(database.DB)
	o, err := svc.GetOrderByID(ctx, orderID)
	if err != nil {
		c.JSON(services.HTTPStatus(err), gin.H{"error": "Commande introuvable"})
		return
	}

	if !actor.Role.IsAdmin() && o.UserID != actor.ID {
		// Ne pas révéler l'existence d'une commande d'un autre client
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	c.JSON(http.StatusOK, o)
}

// UpdateOrder applique une mise à jour intégrale (admin uniquement, la
// route est derrière RequireAdmin)
func UpdateOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var input services.UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	svc := services.NewOrderService(database.DB)
	o, err := svc.UpdateOrder(ctx, orderID, input)
	if err != nil {
		status := services.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("❌ Erreur mise à jour commande %d: %v", orderID, err)
			c.JSON(status, gin.H{"error": "Erreur lors de la mise à jour de la commande"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, o)
}

// UpdateOrderStatus fait transiter une commande vers un nouveau statut au
// nom de l'acteur connecté. Les règles (client : annulation de ses propres
// commandes uniquement ; pas d'annulation après expédition) vivent dans le
// service
func UpdateOrderStatus(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var input struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	svc := services.NewOrderService(database.DB)
	o, err := svc.TransitionStatus(ctx, orderID, input.Status, actor)
	if err != nil {
		status := services.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("❌ Erreur transition commande %d: %v", orderID, err)
			c.JSON(status, gin.H{"error": "Erreur lors du changement de statut"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, o)
}
