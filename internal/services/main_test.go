package services

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"shopsphere_back_end/internal/database"
	"shopsphere_back_end/internal/models"
)

func TestMain(m *testing.M) {
	// Le cache produits tolère un Redis absent (toute erreur = cache miss),
	// il faut juste un client construit
	addr := os.Getenv("REDIS_HOST")
	if addr == "" {
		addr = "localhost:6379"
	}
	database.Redis = redis.NewClient(&redis.Options{Addr: addr})

	os.Exit(m.Run())
}

// getTestDB ouvre la base de test ; les tests d'intégration sont ignorés
// si MySQL n'est pas disponible (schéma : scripts/mysql_init.sql)
func getTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/shopsphere?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, role models.Role) int64 {
	t.Helper()

	email := fmt.Sprintf("test-%s-%d@example.com", role, time.Now().UnixNano())
	result, err := db.ExecContext(context.Background(), `
		INSERT INTO users (name, email, password, role, created_at)
		VALUES ('Testeur', ?, 'x', ?, NOW())`, email, role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	id, _ := result.LastInsertId()

	t.Cleanup(func() {
		db.Exec(`DELETE FROM users WHERE id = ?`, id)
	})
	return id
}

// createTestProduct insère un produit et sa ligne d'inventaire, avec un id
// unique par appel
func createTestProduct(t *testing.T, db *sql.DB, stock, threshold int) string {
	t.Helper()

	productID := fmt.Sprintf("T%d", time.Now().UnixNano()%1e15)
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO products (product_id, name, description, price, image_url,
		                      is_active, custom_options, created_at, updated_at)
		VALUES (?, 'Produit de test', '', 19.99, '', TRUE, '[]', NOW(), NOW())`,
		productID)
	if err != nil {
		t.Fatalf("create test product: %v", err)
	}

	_, err = db.ExecContext(context.Background(), `
		INSERT INTO inventory (product_id, quantity, reorder_threshold, updated_at)
		VALUES (?, ?, ?, NOW())`, productID, stock, threshold)
	if err != nil {
		t.Fatalf("create test inventory: %v", err)
	}

	t.Cleanup(func() {
		db.Exec(`DELETE FROM inventory WHERE product_id = ?`, productID)
		db.Exec(`DELETE FROM products WHERE product_id = ?`, productID)
	})
	return productID
}

func stockOf(t *testing.T, db *sql.DB, productID string) int {
	t.Helper()

	var quantity int
	err := db.QueryRowContext(context.Background(),
		`SELECT quantity FROM inventory WHERE product_id = ?`, productID,
	).Scan(&quantity)
	if err != nil {
		t.Fatalf("read stock of %s: %v", productID, err)
	}
	return quantity
}

func cleanupOrder(t *testing.T, db *sql.DB, orderID int64) {
	t.Helper()
	t.Cleanup(func() {
		db.Exec(`DELETE FROM order_logistics WHERE order_id = ?`, orderID)
		db.Exec(`DELETE FROM order_items WHERE order_id = ?`, orderID)
		db.Exec(`DELETE FROM orders WHERE id = ?`, orderID)
	})
}
