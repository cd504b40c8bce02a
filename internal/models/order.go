package models

import "time"

type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "Placed"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal : plus aucune transition possible depuis ces états
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type Order struct {
	ID                int64          `json:"id"`
	UserID            int64          `json:"user_id"`
	Total             float64        `json:"total"`
	Status            OrderStatus    `json:"status"`
	Items             []OrderItem    `json:"items"`
	DeliveryAddress   Address        `json:"delivery_address"`
	Logistics         *LogisticsInfo `json:"logistics,omitempty"`
	EstimatedDelivery string         `json:"estimated_delivery,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// OrderItem est un instantané du produit au moment de la commande :
// nom, image, prix et options restent figés même si le produit change ensuite
type OrderItem struct {
	ID        int64   `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Color     string  `json:"color,omitempty"`
	Size      string  `json:"size,omitempty"`
	Material  string  `json:"material,omitempty"`
}

type LogisticsInfo struct {
	Carrier         string `json:"carrier,omitempty"`
	TrackingID      string `json:"tracking_id,omitempty"`
	CurrentLocation string `json:"current_location,omitempty"`
}
