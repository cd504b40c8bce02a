package routes

import (
	"github.com/gin-gonic/gin"

	"shopsphere_back_end/internal/handlers/order"
	"shopsphere_back_end/internal/handlers/product"
	"shopsphere_back_end/internal/handlers/user"
	"shopsphere_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	api.Use(middleware.APIRateLimit())

	// Auth
	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RegisterRateLimit(), user.Register)
		auth.POST("/login", middleware.LoginRateLimit(), user.Login)
	}

	// Profil
	users := api.Group("/users", middleware.AuthRequired())
	{
		users.GET("/me", user.Me)
		users.PUT("/me", user.UpdateMe)
	}

	// Catalogue (lecture publique, mutations admin)
	products := api.Group("/products")
	{
		products.GET("", product.GetAllProducts)
		products.GET("/:id", product.GetProductByID)

		admin := products.Group("", middleware.AuthRequired(), middleware.RequireAdmin)
		{
			admin.POST("", product.CreateProduct)
			admin.PUT("/:id", product.UpdateProduct)
			admin.DELETE("/:id", product.DeleteProduct)
			admin.POST("/:id/image", product.UploadProductImage)
		}
	}

	// Inventaire
	inventory := api.Group("/inventory", middleware.AuthRequired())
	{
		inventory.GET("/:productId", product.GetInventory)
		inventory.PUT("/:productId", middleware.RequireAdmin, product.UpdateInventory)
	}

	// Commandes
	orders := api.Group("/orders", middleware.AuthRequired())
	{
		orders.POST("", order.CreateOrder)
		orders.GET("", order.GetOrders)
		orders.GET("/:id", order.GetOrderByID)
		orders.PUT("/:id", middleware.RequireAdmin, order.UpdateOrder)
		orders.PATCH("/:id/status", order.UpdateOrderStatus)
	}
}
