package services

import (
	"context"
	"errors"
	"testing"

	"shopsphere_back_end/internal/models"
)

func TestCreateProduct_InitializesInventory(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	svc := NewProductService(db)

	stock, threshold := 12, 4
	p, err := svc.Create(ctx, ProductInput{
		Name:             "Mug personnalisable",
		Description:      "Mug céramique 350ml",
		Price:            14.5,
		StockLevel:       &stock,
		ReorderThreshold: &threshold,
		CustomOptions: []models.CustomOptionGroup{{
			Name: "couleur",
			Values: []models.CustomOption{
				{Value: "blanc", PriceAdjustment: 0},
				{Value: "noir", PriceAdjustment: 1.5},
			},
		}},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	t.Cleanup(func() {
		db.Exec(`DELETE FROM inventory WHERE product_id = ?`, p.ID)
		db.Exec(`DELETE FROM products WHERE product_id = ?`, p.ID)
	})

	if !p.IsActive {
		t.Error("expected product active by default")
	}
	if len(p.CustomOptions) != 1 || len(p.CustomOptions[0].Values) != 2 {
		t.Errorf("expected custom options round-trip, got %+v", p.CustomOptions)
	}
	if p.StockLevel == nil || *p.StockLevel != 12 {
		t.Errorf("expected stock level 12, got %v", p.StockLevel)
	}

	inv, err := NewInventoryService(db).Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("expected inventory row created: %v", err)
	}
	if inv.Quantity != 12 || inv.ReorderThreshold != 4 {
		t.Errorf("expected inventory (12, 4), got (%d, %d)", inv.Quantity, inv.ReorderThreshold)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := NewProductService(nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, ProductInput{Name: ""}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty name: expected ErrValidation, got: %v", err)
	}
	if _, err := svc.Create(ctx, ProductInput{Name: "X", Price: -1}); !errors.Is(err, ErrValidation) {
		t.Errorf("negative price: expected ErrValidation, got: %v", err)
	}
}

func TestDeleteProduct_RemovesInventory(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	svc := NewProductService(db)

	productID := createTestProduct(t, db, 5, 1)

	if err := svc.Delete(ctx, productID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := svc.GetByID(ctx, productID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected product gone, got: %v", err)
	}
	if _, err := NewInventoryService(db).Get(ctx, productID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected inventory gone, got: %v", err)
	}

	// Deuxième suppression : le produit n'existe plus
	if err := svc.Delete(ctx, productID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got: %v", err)
	}
}

func TestUpdateProduct_NotFound(t *testing.T) {
	db := getTestDB(t)
	svc := NewProductService(db)

	_, err := svc.Update(context.Background(), "nonexistent-product", ProductInput{Name: "X"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}
