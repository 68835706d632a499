package repository

import "github.com/renovapro/crm-api/internal/domain/entity"

// ContactRepository définit le port de persistance des contacts.
type ContactRepository interface {
	Create(contact *entity.Contact) error
	GetByID(organizationID, id string) (*entity.Contact, error)
	// Search fait une recherche floue (ILIKE, insensible aux accents) sur
	// prénom, nom et email. q vide = liste simple.
	Search(organizationID, q string, limit int) ([]*entity.Contact, error)
	SoftDelete(organizationID, id string) error
}
