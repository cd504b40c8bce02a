package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"shopsphere_back_end/internal/models"
	"shopsphere_back_end/internal/utils"
)

// OrderService porte la transaction de passage de commande et le cycle de
// vie des statuts. Toutes les mutations s'exécutent dans une transaction
// MySQL unique : la réservation du stock et l'écriture de la commande
// committent ensemble ou pas du tout
type OrderService struct {
	db *sql.DB
}

func NewOrderService(db *sql.DB) *OrderService {
	return &OrderService{db: db}
}

type CreateOrderInput struct {
	Items             []models.OrderItem `json:"items"`
	DeliveryAddress   models.Address     `json:"delivery_address"`
	Total             float64            `json:"total"`
	EstimatedDelivery string             `json:"estimated_delivery"`
}

// CreateOrder valide chaque produit, réserve le stock ligne par ligne puis
// persiste la commande en statut Placed. Le moindre échec (produit inconnu,
// stock insuffisant) annule tout : aucune commande partielle, aucun
// décrément orphelin.
//
// Le total est repris tel quel de la requête : la tarification fait
// autorité côté client, le serveur ne recalcule rien
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: une commande doit contenir au moins un article", ErrValidation)
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantité invalide pour le produit %s", ErrValidation, item.ProductID)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, item := range in.Items {
		var one int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM products WHERE product_id = ?`, item.ProductID,
		).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: produit %s", ErrNotFound, item.ProductID)
		}
		if err != nil {
			return nil, fmt.Errorf("vérification produit: %w", err)
		}

		if err := reserveStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO orders (user_id, total, status, street, city, postal_code, country,
		                    estimated_delivery, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
		userID, in.Total, models.OrderStatusPlaced,
		in.DeliveryAddress.Street, in.DeliveryAddress.City,
		in.DeliveryAddress.PostalCode, in.DeliveryAddress.Country,
		in.EstimatedDelivery,
	)
	if err != nil {
		return nil, fmt.Errorf("insertion commande: %w", err)
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("id commande: %w", err)
	}

	if err := insertItems(ctx, tx, orderID, in.Items); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit commande: %w", err)
	}

	order, err := s.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Email de confirmation en best-effort : un échec SMTP ne doit jamais
	// faire échouer une commande déjà committée
	var email string
	if err := s.db.QueryRowContext(ctx,
		`SELECT email FROM users WHERE id = ?`, userID,
	).Scan(&email); err == nil {
		go func(o models.Order, to string) {
			if err := utils.SendOrderConfirmationEmail(to, o); err != nil {
				log.Printf("⚠️ Échec envoi email de confirmation commande %d: %v", o.ID, err)
			}
		}(*order, email)
	}

	return order, nil
}

// insertItems persiste les lignes d'une commande. Les champs nom / image /
// prix / options sont des instantanés figés au moment de l'achat
func insertItems(ctx context.Context, tx *sql.Tx, orderID int64, items []models.OrderItem) error {
	for _, item := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, image, price, quantity,
			                         color, size, material)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			orderID, item.ProductID, item.Name, item.Image, item.Price, item.Quantity,
			item.Color, item.Size, item.Material,
		)
		if err != nil {
			return fmt.Errorf("insertion article: %w", err)
		}
	}
	return nil
}

type UpdateOrderInput struct {
	Status            models.OrderStatus    `json:"status"`
	DeliveryAddress   models.Address        `json:"delivery_address"`
	EstimatedDelivery string                `json:"estimated_delivery"`
	Items             []models.OrderItem    `json:"items"`
	Logistics         *models.LogisticsInfo `json:"logistics"`
}

// UpdateOrder applique une mise à jour intégrale : statut, adresse, date
// estimée sont écrasés ; si des articles sont fournis l'ancienne collection
// est remplacée en bloc, sans re-réservation de stock (on édite un
// enregistrement, on ne re-passe pas commande) ; le sous-objet logistique
// est créé s'il n'existe pas
func (s *OrderService) UpdateOrder(ctx context.Context, id int64, in UpdateOrderInput) (*models.Order, error) {
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: statut inconnu %q", ErrValidation, in.Status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM orders WHERE id = ? FOR UPDATE`, id,
	).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: commande %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("lecture commande: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET status = ?, street = ?, city = ?, postal_code = ?, country = ?,
		    estimated_delivery = ?
		WHERE id = ?`,
		in.Status, in.DeliveryAddress.Street, in.DeliveryAddress.City,
		in.DeliveryAddress.PostalCode, in.DeliveryAddress.Country,
		in.EstimatedDelivery, id,
	)
	if err != nil {
		return nil, fmt.Errorf("mise à jour commande: %w", err)
	}

	if in.Items != nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM order_items WHERE order_id = ?`, id,
		); err != nil {
			return nil, fmt.Errorf("remplacement articles: %w", err)
		}
		if err := insertItems(ctx, tx, id, in.Items); err != nil {
			return nil, err
		}
	}

	if in.Logistics != nil {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_logistics (order_id, carrier, tracking_id, current_location)
			VALUES (?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE carrier = VALUES(carrier),
			                        tracking_id = VALUES(tracking_id),
			                        current_location = VALUES(current_location)`,
			id, in.Logistics.Carrier, in.Logistics.TrackingID, in.Logistics.CurrentLocation,
		)
		if err != nil {
			return nil, fmt.Errorf("mise à jour logistique: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetOrderByID(ctx, id)
}

// TransitionStatus fait passer une commande dans un nouveau statut au nom
// d'un acteur explicite. Le stock n'est pas restitué à l'annulation : le
// décrément est définitif une fois la commande passée
func (s *OrderService) TransitionStatus(ctx context.Context, orderID int64, requested models.OrderStatus, actor Actor) (*models.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var order models.Order
	err = tx.QueryRowContext(ctx,
		`SELECT id, user_id, status FROM orders WHERE id = ? FOR UPDATE`, orderID,
	).Scan(&order.ID, &order.UserID, &order.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: commande %d", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("lecture commande: %w", err)
	}

	if err := validateTransition(&order, requested, actor); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ?`, requested, orderID,
	); err != nil {
		return nil, fmt.Errorf("changement de statut: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	log.Printf("✅ Commande %d : %s → %s (acteur %d)", orderID, order.Status, requested, actor.ID)
	return s.GetOrderByID(ctx, orderID)
}

func (s *OrderService) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, total, status, street, city, postal_code, country,
		       estimated_delivery, created_at
		FROM orders WHERE id = ?`, id,
	).Scan(&o.ID, &o.UserID, &o.Total, &o.Status,
		&o.DeliveryAddress.Street, &o.DeliveryAddress.City,
		&o.DeliveryAddress.PostalCode, &o.DeliveryAddress.Country,
		&o.EstimatedDelivery, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: commande %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("lecture commande: %w", err)
	}

	if err := s.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	if err := s.loadLogistics(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderService) GetOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.queryOrders(ctx, `
		SELECT id, user_id, total, status, street, city, postal_code, country,
		       estimated_delivery, created_at
		FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.queryOrders(ctx, `
		SELECT id, user_id, total, status, street, city, postal_code, country,
		       estimated_delivery, created_at
		FROM orders ORDER BY created_at DESC`)
}

func (s *OrderService) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("lecture commandes: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.Status,
			&o.DeliveryAddress.Street, &o.DeliveryAddress.City,
			&o.DeliveryAddress.PostalCode, &o.DeliveryAddress.Country,
			&o.EstimatedDelivery, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan commande: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("itération commandes: %w", err)
	}

	for i := range orders {
		if err := s.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
		if err := s.loadLogistics(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *OrderService) loadItems(ctx context.Context, o *models.Order) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, name, image, price, quantity, color, size, material
		FROM order_items WHERE order_id = ? ORDER BY id`, o.ID)
	if err != nil {
		return fmt.Errorf("lecture articles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Name, &item.Image,
			&item.Price, &item.Quantity, &item.Color, &item.Size, &item.Material); err != nil {
			return fmt.Errorf("scan article: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

func (s *OrderService) loadLogistics(ctx context.Context, o *models.Order) error {
	var l models.LogisticsInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT carrier, tracking_id, current_location
		FROM order_logistics WHERE order_id = ?`, o.ID,
	).Scan(&l.Carrier, &l.TrackingID, &l.CurrentLocation)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lecture logistique: %w", err)
	}
	o.Logistics = &l
	return nil
}
