package models

import "time"

type Product struct {
	ID          string    `json:"product_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	IsActive    bool      `json:"is_active"`
	// Groupes d'options de personnalisation (couleur, taille, matière...),
	// sérialisés en JSON dans la colonne `custom_options`
	CustomOptions []CustomOptionGroup `json:"custom_options,omitempty"`
	// Enrichi depuis la table inventory, jamais stocké sur le produit
	StockLevel       *int      `json:"stock_level,omitempty"`
	ReorderThreshold *int      `json:"reorder_threshold,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type CustomOptionGroup struct {
	Name   string         `json:"name"`
	Values []CustomOption `json:"values"`
}

type CustomOption struct {
	Value           string  `json:"value"`
	PriceAdjustment float64 `json:"price_adjustment"`
}
