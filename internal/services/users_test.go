package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"shopsphere_back_end/internal/models"
)

func TestRegister_HashesPasswordAndDefaultsToCustomer(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	svc := NewUserService(db)

	email := fmt.Sprintf("register-%d@example.com", time.Now().UnixNano())
	u, err := svc.Register(ctx, "Alice", email, "motdepasse123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	t.Cleanup(func() {
		db.Exec(`DELETE FROM users WHERE id = ?`, u.ID)
	})

	if u.Role != models.RoleCustomer {
		t.Errorf("expected role CUSTOMER, got %s", u.Role)
	}

	// Jamais de mot de passe en clair en base
	var stored string
	db.QueryRowContext(ctx, `SELECT password FROM users WHERE id = ?`, u.ID).Scan(&stored)
	if stored == "motdepasse123" {
		t.Error("password stored in plain text")
	}

	// Les bons identifiants passent, les mauvais non
	if _, err := svc.Authenticate(ctx, email, "motdepasse123"); err != nil {
		t.Errorf("Authenticate with valid credentials failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, email, "mauvais"); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for wrong password, got: %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	svc := NewUserService(db)

	email := fmt.Sprintf("dup-%d@example.com", time.Now().UnixNano())
	u, err := svc.Register(ctx, "Bob", email, "motdepasse123")
	if err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	t.Cleanup(func() {
		db.Exec(`DELETE FROM users WHERE id = ?`, u.ID)
	})

	_, err = svc.Register(ctx, "Bob encore", email, "autremotdepasse")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got: %v", err)
	}
}

func TestUpdateProfile_UpsertsAddress(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	svc := NewUserService(db)

	userID := createTestUser(t, db, models.RoleCustomer)

	u, err := svc.UpdateProfile(ctx, userID, "Charlie", "0601020304", &models.Address{
		Street: "3 rue des Lilas", City: "Nantes", PostalCode: "44000", Country: "France",
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if u.Address == nil || u.Address.City != "Nantes" {
		t.Fatalf("expected address created, got %+v", u.Address)
	}

	// Deuxième appel : écrase l'adresse existante
	u, err = svc.UpdateProfile(ctx, userID, "Charlie", "0601020304", &models.Address{
		Street: "4 rue des Roses", City: "Rennes", PostalCode: "35000", Country: "France",
	})
	if err != nil {
		t.Fatalf("second UpdateProfile failed: %v", err)
	}
	if u.Address == nil || u.Address.City != "Rennes" {
		t.Fatalf("expected address overwritten, got %+v", u.Address)
	}
}
