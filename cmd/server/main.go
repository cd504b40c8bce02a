package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"shopsphere_back_end/internal/config"
	"shopsphere_back_end/internal/database"
	"shopsphere_back_end/internal/routes"
	"shopsphere_back_end/internal/services"
)

func main() {
	config.Load()

	database.ConnectDatabases()
	defer database.CloseMySQL()

	// Compte admin initial si absent
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := services.NewUserService(database.DB).EnsureAdmin(ctx); err != nil {
		log.Fatal("❌ Échec bootstrap admin:", err)
	}
	cancel()

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = []string{origins}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	routes.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur ShopSphere lancé sur le port", port)
	r.Run(":" + port)
}
