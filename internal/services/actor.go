package services

import "shopsphere_back_end/internal/models"

// Actor identifie l'utilisateur à l'origine d'un appel métier. Il est
// toujours passé explicitement en paramètre : les services ne lisent jamais
// le contexte Gin ni un quelconque état ambiant de sécurité
type Actor struct {
	ID   int64
	Role models.Role
}
