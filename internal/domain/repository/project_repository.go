package repository

import (
	"encoding/json"

	"github.com/renovapro/crm-api/internal/domain/entity"
)

// ProjectRepository définit le port de persistance des projets.
type ProjectRepository interface {
	Create(project *entity.Project) error
	GetByID(organizationID, id string) (*entity.Project, error)
	// GetDetails charge le projet avec ses jointures contact et référent.
	GetDetails(organizationID, id string) (*entity.ProjectDetails, error)
	ListByOrganization(organizationID string, limit, offset int) ([]*entity.Project, error)
	Patch(organizationID, id string, patch entity.ProjectPatch) (*entity.Project, error)
	// UpdateBlob remplace un sous-formulaire JSON (decouverte ou cuisine).
	UpdateBlob(organizationID, id, field string, blob json.RawMessage) error
	SoftDelete(organizationID, id string) error
}
