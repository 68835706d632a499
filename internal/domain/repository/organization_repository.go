package repository

import "github.com/renovapro/crm-api/internal/domain/entity"

// OrganizationRepository définit le port de persistance du profil entreprise.
type OrganizationRepository interface {
	Create(organization *entity.Organization) error
	GetByID(id string) (*entity.Organization, error)
	Patch(id string, patch entity.OrganizationPatch) (*entity.Organization, error)
}
