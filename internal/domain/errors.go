package domain

import "errors"

// Erreurs de domaine (sans dépendances externes).
var (
	ErrNotFound             = errors.New("ressource non trouvée")
	ErrUnauthenticated      = errors.New("utilisateur non authentifié")
	ErrOrganizationNotFound = errors.New("organisation non trouvée")
	ErrEmailAlreadyExists   = errors.New("cet email est déjà enregistré")
	ErrInvalidInput         = errors.New("entrée invalide")
	ErrDuplicate            = errors.New("ressource dupliquée")
	ErrUnauthorized         = errors.New("non autorisé")
	ErrForbidden            = errors.New("accès refusé")
	ErrConflict             = errors.New("conflit avec l'état actuel")
)
