package services

import (
	"fmt"

	"shopsphere_back_end/internal/models"
)

// validateTransition applique les règles du cycle de vie d'une commande.
// Chemin nominal : Placed → Processing → Shipped → Delivered, avec
// Cancelled accessible depuis tout état sauf Shipped et Delivered.
//
// Un client ne peut qu'annuler, et uniquement ses propres commandes. Un
// admin peut demander n'importe quel statut (seule la garde d'annulation
// s'applique à lui aussi)
func validateTransition(order *models.Order, requested models.OrderStatus, actor Actor) error {
	if !requested.Valid() {
		return fmt.Errorf("%w: statut inconnu %q", ErrValidation, requested)
	}

	if !actor.Role.IsAdmin() {
		if order.UserID != actor.ID {
			return fmt.Errorf("%w: cette commande appartient à un autre utilisateur", ErrForbidden)
		}
		if requested != models.OrderStatusCancelled {
			return fmt.Errorf("%w: un client ne peut qu'annuler sa commande", ErrForbidden)
		}
	}

	if requested == models.OrderStatusCancelled &&
		(order.Status == models.OrderStatusShipped || order.Status == models.OrderStatusDelivered) {
		return fmt.Errorf("%w: impossible d'annuler une commande déjà expédiée ou livrée", ErrInvalidTransition)
	}

	return nil
}
