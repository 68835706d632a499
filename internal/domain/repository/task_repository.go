package repository

import "github.com/renovapro/crm-api/internal/domain/entity"

// TaskFilter critères optionnels de listing (vides = pas de filtre).
type TaskFilter struct {
	ProjectID string
	Type      string // Tâche | Mémo
}

// TaskRepository définit le port de persistance des tâches et mémos.
// Toutes les lectures excluent les lignes soft-deleted ; toutes les opérations
// sont scopées par organisation.
type TaskRepository interface {
	Create(task *entity.Task) error
	GetByID(organizationID, id string) (*entity.Task, error)
	ListByOrganization(organizationID string, filter TaskFilter) ([]*entity.Task, error)
	Patch(organizationID, id string, patch entity.TaskPatch) (*entity.Task, error)
	SoftDelete(organizationID, id string) error
}
