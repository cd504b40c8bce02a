package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"shopsphere_back_end/internal/cache"
	"shopsphere_back_end/internal/models"
)

// ProductService gère le catalogue. Les identifiants produits sont des
// jetons temporels (P<millisecondes unix>), comme partout dans le système
type ProductService struct {
	db *sql.DB
}

func NewProductService(db *sql.DB) *ProductService {
	return &ProductService{db: db}
}

type ProductInput struct {
	Name             string                     `json:"name"`
	Description      string                     `json:"description"`
	Price            float64                    `json:"price"`
	ImageURL         string                     `json:"image_url"`
	IsActive         *bool                      `json:"is_active"`
	CustomOptions    []models.CustomOptionGroup `json:"custom_options"`
	StockLevel       *int                       `json:"stock_level"`
	ReorderThreshold *int                       `json:"reorder_threshold"`
}

// Create insère le produit et initialise sa ligne d'inventaire dans la même
// transaction : pas de produit sans stock suivi
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: le nom du produit est obligatoire", ErrValidation)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: le prix ne peut pas être négatif", ErrValidation)
	}

	productID := fmt.Sprintf("P%d", time.Now().UnixMilli())

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	optionsJSON, err := marshalOptions(in.CustomOptions)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (product_id, name, description, price, image_url,
		                      is_active, custom_options, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		productID, in.Name, in.Description, in.Price, in.ImageURL, isActive, optionsJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("insertion produit: %w", err)
	}

	stock, threshold := 0, 0
	if in.StockLevel != nil {
		stock = *in.StockLevel
	}
	if in.ReorderThreshold != nil {
		threshold = *in.ReorderThreshold
	}
	if err := initializeInventory(ctx, tx, productID, stock, threshold); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit produit: %w", err)
	}

	cache.InvalidateProducts(ctx)
	log.Printf("✅ Produit créé : %s (%s)", in.Name, productID)
	return s.GetByID(ctx, productID)
}

// GetAll liste le catalogue enrichi des niveaux de stock, via le cache Redis
func (s *ProductService) GetAll(ctx context.Context) ([]models.Product, error) {
	if cached, ok := cache.GetProducts(ctx); ok {
		return cached, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.product_id, p.name, p.description, p.price, p.image_url,
		       p.is_active, p.custom_options, p.created_at, p.updated_at,
		       i.quantity, i.reorder_threshold
		FROM products p
		LEFT JOIN inventory i ON i.product_id = p.product_id
		ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("lecture produits: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("itération produits: %w", err)
	}

	cache.SetProducts(ctx, products)
	return products, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT p.product_id, p.name, p.description, p.price, p.image_url,
		       p.is_active, p.custom_options, p.created_at, p.updated_at,
		       i.quantity, i.reorder_threshold
		FROM products p
		LEFT JOIN inventory i ON i.product_id = p.product_id
		WHERE p.product_id = ?`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: produit %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update écrase les champs du produit. Par commodité pour la page d'édition,
// stock et seuil peuvent être mis à jour dans la foulée
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: le prix ne peut pas être négatif", ErrValidation)
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	optionsJSON, err := marshalOptions(in.CustomOptions)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, description = ?, price = ?, image_url = ?, is_active = ?,
		    custom_options = ?, updated_at = NOW()
		WHERE product_id = ?`,
		in.Name, in.Description, in.Price, in.ImageURL, isActive, optionsJSON, id,
	)
	if err != nil {
		return nil, fmt.Errorf("mise à jour produit: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		// RowsAffected vaut aussi 0 quand rien ne change : on tranche par
		// une lecture d'existence
		if _, err := s.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}

	if in.StockLevel != nil || in.ReorderThreshold != nil {
		inv := NewInventoryService(s.db)
		if _, err := inv.Update(ctx, id, in.StockLevel, in.ReorderThreshold); err != nil {
			return nil, err
		}
	}

	cache.InvalidateProducts(ctx)
	return s.GetByID(ctx, id)
}

// Delete retire le produit et sa ligne d'inventaire (cette dernière de
// façon idempotente)
func (s *ProductService) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM products WHERE product_id = ?`, id)
	if err != nil {
		return fmt.Errorf("suppression produit: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("%w: produit %s", ErrNotFound, id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory WHERE product_id = ?`, id); err != nil {
		return fmt.Errorf("suppression inventaire: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	cache.InvalidateProducts(ctx)
	log.Printf("🗑️ Produit supprimé : %s", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		p           models.Product
		optionsJSON []byte
		quantity    sql.NullInt64
		threshold   sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL,
		&p.IsActive, &optionsJSON, &p.CreatedAt, &p.UpdatedAt,
		&quantity, &threshold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan produit: %w", err)
	}

	if len(optionsJSON) > 0 {
		if err := json.Unmarshal(optionsJSON, &p.CustomOptions); err != nil {
			return nil, fmt.Errorf("décodage options: %w", err)
		}
	}
	if quantity.Valid {
		q := int(quantity.Int64)
		p.StockLevel = &q
	}
	if threshold.Valid {
		t := int(threshold.Int64)
		p.ReorderThreshold = &t
	}
	return &p, nil
}

func marshalOptions(options []models.CustomOptionGroup) ([]byte, error) {
	if options == nil {
		return []byte("[]"), nil
	}
	data, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("%w: options de personnalisation illisibles", ErrValidation)
	}
	return data, nil
}
