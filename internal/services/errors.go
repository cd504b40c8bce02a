package services

import (
	"errors"
	"net/http"
)

// Taxonomie des erreurs métier. Tout ce qui sort des services est l'une de
// ces sentinelles (éventuellement enrichie via fmt.Errorf("%w: ...")) ;
// aucune erreur brute du driver SQL ne doit franchir cette frontière.
var (
	ErrNotFound          = errors.New("ressource introuvable")
	ErrInsufficientStock = errors.New("stock insuffisant")
	ErrInvalidTransition = errors.New("transition de statut interdite")
	ErrForbidden         = errors.New("accès refusé")
	ErrConflict          = errors.New("conflit de ressource")
	ErrValidation        = errors.New("données invalides")
)

// HTTPStatus traduit une erreur métier en statut HTTP. Les handlers ne
// doivent jamais faire ce mapping eux-mêmes
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
