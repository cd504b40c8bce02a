package models

import "time"

type Inventory struct {
	ProductID        string    `json:"product_id"`
	Quantity         int       `json:"quantity"`
	ReorderThreshold int       `json:"reorder_threshold"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// LowStock indique si le stock est passé sous le seuil de réapprovisionnement
// (purement indicatif, aucun invariant dessus)
func (i Inventory) LowStock() bool {
	return i.Quantity <= i.ReorderThreshold
}
