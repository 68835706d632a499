package repository

import "github.com/renovapro/crm-api/internal/domain/entity"

// MemberRepository définit le port de persistance des membres de l'équipe.
type MemberRepository interface {
	Create(member *entity.Member) error
	GetByID(organizationID, id string) (*entity.Member, error)
	// GetByEmail cherche sur toutes les organisations (login).
	GetByEmail(email string) (*entity.Member, error)
	ListByOrganization(organizationID string) ([]*entity.Member, error)
	Patch(organizationID, id string, patch entity.MemberPatch) (*entity.Member, error)
	SoftDelete(organizationID, id string) error
}

// RoleRepository définit le port de persistance des rôles.
type RoleRepository interface {
	Create(role *entity.Role) error
	GetByID(organizationID, id string) (*entity.Role, error)
	ListByOrganization(organizationID string) ([]*entity.Role, error)
}
