package services

import (
	"context"
	"errors"
	"testing"
)

func TestReserve_DecrementsUntilExhausted(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	svc := NewInventoryService(db)

	productID := createTestProduct(t, db, 5, 2)

	if err := svc.Reserve(ctx, productID, 3); err != nil {
		t.Fatalf("first reserve failed: %v", err)
	}
	if got := stockOf(t, db, productID); got != 2 {
		t.Errorf("expected stock 2 after first reserve, got %d", got)
	}

	err := svc.Reserve(ctx, productID, 3)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}
	// Échec sans effet de bord : le stock reste inchangé
	if got := stockOf(t, db, productID); got != 2 {
		t.Errorf("expected stock unchanged at 2, got %d", got)
	}
}

func TestReserve_UnknownProduct(t *testing.T) {
	db := getTestDB(t)
	svc := NewInventoryService(db)

	err := svc.Reserve(context.Background(), "nonexistent-product", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestReserve_InvalidQuantity(t *testing.T) {
	svc := NewInventoryService(nil)

	for _, quantity := range []int{0, -3} {
		err := svc.Reserve(context.Background(), "whatever", quantity)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("quantity %d: expected ErrValidation, got: %v", quantity, err)
		}
	}
}

func TestInitialize_DuplicateIsConflict(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	svc := NewInventoryService(db)

	productID := createTestProduct(t, db, 10, 3)

	err := svc.Initialize(ctx, productID, 20, 5)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate initialize, got: %v", err)
	}
}

func TestUpdate_PartialOverwrite(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	svc := NewInventoryService(db)

	productID := createTestProduct(t, db, 10, 3)

	// Quantité seule
	quantity := 42
	inv, err := svc.Update(ctx, productID, &quantity, nil)
	if err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	if inv.Quantity != 42 || inv.ReorderThreshold != 3 {
		t.Errorf("expected (42, 3), got (%d, %d)", inv.Quantity, inv.ReorderThreshold)
	}

	// Seuil seul
	threshold := 7
	inv, err = svc.Update(ctx, productID, nil, &threshold)
	if err != nil {
		t.Fatalf("update threshold failed: %v", err)
	}
	if inv.Quantity != 42 || inv.ReorderThreshold != 7 {
		t.Errorf("expected (42, 7), got (%d, %d)", inv.Quantity, inv.ReorderThreshold)
	}

	// Idempotence : rejouer la même mise à jour ne change rien et ne
	// renvoie pas d'erreur
	inv, err = svc.Update(ctx, productID, nil, &threshold)
	if err != nil {
		t.Fatalf("idempotent update failed: %v", err)
	}
	if inv.ReorderThreshold != 7 {
		t.Errorf("expected threshold 7, got %d", inv.ReorderThreshold)
	}
}

func TestUpdate_NegativeQuantityRejected(t *testing.T) {
	svc := NewInventoryService(nil)

	quantity := -1
	_, err := svc.Update(context.Background(), "whatever", &quantity, nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got: %v", err)
	}
}

func TestUpdate_UnknownProduct(t *testing.T) {
	db := getTestDB(t)
	svc := NewInventoryService(db)

	quantity := 5
	_, err := svc.Update(context.Background(), "nonexistent-product", &quantity, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	svc := NewInventoryService(db)

	productID := createTestProduct(t, db, 5, 1)

	if err := svc.Delete(ctx, productID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	// Deuxième suppression : pas d'erreur non plus
	if err := svc.Delete(ctx, productID); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}

	_, err := svc.Get(ctx, productID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got: %v", err)
	}
}
