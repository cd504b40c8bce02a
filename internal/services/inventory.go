package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"shopsphere_back_end/internal/models"
)

// InventoryService gère le stock disponible par produit. La table inventory
// est indépendante de products : une ligne par produit, créée à la création
// du produit et supprimée avec lui
type InventoryService struct {
	db *sql.DB
}

func NewInventoryService(db *sql.DB) *InventoryService {
	return &InventoryService{db: db}
}

func (s *InventoryService) Get(ctx context.Context, productID string) (*models.Inventory, error) {
	var inv models.Inventory
	err := s.db.QueryRowContext(ctx, `
		SELECT product_id, quantity, reorder_threshold, updated_at
		FROM inventory WHERE product_id = ?`, productID,
	).Scan(&inv.ProductID, &inv.Quantity, &inv.ReorderThreshold, &inv.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: inventaire du produit %s", ErrNotFound, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("lecture inventaire: %w", err)
	}
	return &inv, nil
}

// Initialize crée la ligne de stock d'un nouveau produit
func (s *InventoryService) Initialize(ctx context.Context, productID string, quantity, threshold int) error {
	return initializeInventory(ctx, s.db, productID, quantity, threshold)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func initializeInventory(ctx context.Context, ex execer, productID string, quantity, threshold int) error {
	if quantity < 0 || threshold < 0 {
		return fmt.Errorf("%w: quantité et seuil doivent être positifs", ErrValidation)
	}

	_, err := ex.ExecContext(ctx, `
		INSERT INTO inventory (product_id, quantity, reorder_threshold, updated_at)
		VALUES (?, ?, ?, NOW())`,
		productID, quantity, threshold,
	)
	if isDuplicateKey(err) {
		return fmt.Errorf("%w: inventaire déjà initialisé pour %s", ErrConflict, productID)
	}
	if err != nil {
		return fmt.Errorf("création inventaire: %w", err)
	}
	return nil
}

// Update écrase quantité et/ou seuil. Chaque champ est optionnel
// indépendamment de l'autre ; l'opération est idempotente
func (s *InventoryService) Update(ctx context.Context, productID string, quantity, threshold *int) (*models.Inventory, error) {
	if quantity != nil && *quantity < 0 {
		return nil, fmt.Errorf("%w: la quantité ne peut pas être négative", ErrValidation)
	}
	if threshold != nil && *threshold < 0 {
		return nil, fmt.Errorf("%w: le seuil ne peut pas être négatif", ErrValidation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var inv models.Inventory
	err = tx.QueryRowContext(ctx, `
		SELECT product_id, quantity, reorder_threshold
		FROM inventory WHERE product_id = ? FOR UPDATE`, productID,
	).Scan(&inv.ProductID, &inv.Quantity, &inv.ReorderThreshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: inventaire du produit %s", ErrNotFound, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("lecture inventaire: %w", err)
	}

	if quantity != nil {
		inv.Quantity = *quantity
	}
	if threshold != nil {
		inv.ReorderThreshold = *threshold
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE inventory SET quantity = ?, reorder_threshold = ?, updated_at = NOW()
		WHERE product_id = ?`,
		inv.Quantity, inv.ReorderThreshold, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("mise à jour inventaire: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.Get(ctx, productID)
}

// Delete supprime la ligne de stock. Idempotent : pas d'erreur si absente
func (s *InventoryService) Delete(ctx context.Context, productID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM inventory WHERE product_id = ?`, productID)
	if err != nil {
		return fmt.Errorf("suppression inventaire: %w", err)
	}
	return nil
}

// Reserve décrémente atomiquement le stock d'un produit. Échoue sans rien
// modifier si le stock passerait en négatif
func (s *InventoryService) Reserve(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: la quantité réservée doit être strictement positive", ErrValidation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := reserveStock(ctx, tx, productID, quantity); err != nil {
		return err
	}
	return tx.Commit()
}

// reserveStock est la primitive partagée avec la création de commande : le
// décrément conditionnel pose un verrou de ligne InnoDB, ce qui sérialise
// deux réservations concurrentes sur le même produit. rows == 0 signifie
// soit un stock insuffisant, soit une ligne absente — on distingue les deux
// dans la même transaction
func reserveStock(ctx context.Context, tx *sql.Tx, productID string, quantity int) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE inventory
		SET quantity = quantity - ?, updated_at = NOW()
		WHERE product_id = ? AND quantity >= ?`,
		quantity, productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("réservation stock: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		var one int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM inventory WHERE product_id = ?`, productID,
		).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: inventaire du produit %s", ErrNotFound, productID)
		}
		if err != nil {
			return fmt.Errorf("vérification inventaire: %w", err)
		}
		return fmt.Errorf("%w: produit %s (demandé: %d)", ErrInsufficientStock, productID, quantity)
	}
	return nil
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
