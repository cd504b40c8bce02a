package cache

import (
	"context"
	"encoding/json"
	"time"

	"shopsphere_back_end/internal/database"
	"shopsphere_back_end/internal/models"
)

const (
	ProductCacheTTL = 10 * time.Minute

	productsKey = "products:all"
)

// GetProducts récupère le catalogue depuis Redis. Un cache absent ou
// illisible est traité comme un miss, jamais comme une erreur
func GetProducts(ctx context.Context) ([]models.Product, bool) {
	data, err := database.Redis.Get(ctx, productsKey).Result()
	if err != nil {
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		return nil, false
	}
	return products, true
}

func SetProducts(ctx context.Context, products []models.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	database.Redis.Set(ctx, productsKey, data, ProductCacheTTL)
}

// InvalidateProducts purge le cache après toute mutation du catalogue ou
// de l'inventaire
func InvalidateProducts(ctx context.Context) {
	database.Redis.Del(ctx, productsKey)
}
