package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/renovapro/crm-api/internal/application/dto"
	"github.com/renovapro/crm-api/internal/domain"
	"github.com/renovapro/crm-api/internal/domain/entity"
	"github.com/renovapro/crm-api/internal/domain/repository"
	"github.com/renovapro/crm-api/pkg/validator"
)

// ContactUseCase cas d'usage des contacts : création et recherche floue.
type ContactUseCase struct {
	contacts repository.ContactRepository
	events   domain.EventPublisher
}

// NewContactUseCase construit le cas d'usage.
func NewContactUseCase(contacts repository.ContactRepository, events domain.EventPublisher) *ContactUseCase {
	if events == nil {
		events = domain.NopPublisher{}
	}
	return &ContactUseCase{contacts: contacts, events: events}
}

// Create crée un contact.
func (uc *ContactUseCase) Create(organizationID string, in dto.CreateContactRequest) (*dto.ContactResponse, error) {
	if in.Nom == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Email != "" && !validator.Email(in.Email) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	contact := &entity.Contact{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Prenom:         in.Prenom,
		Nom:            in.Nom,
		Email:          in.Email,
		Telephone:      in.Telephone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.contacts.Create(contact); err != nil {
		return nil, err
	}
	resp := contactToResponse(contact)
	uc.events.Publish(domain.ChangeEvent{
		Type:           domain.EventInsert,
		Table:          "contacts",
		OrganizationID: organizationID,
		New:            resp,
	})
	return resp, nil
}

// Search recherche floue sur prénom, nom et email (insensible aux accents).
// q vide renvoie les premiers contacts par ordre alphabétique.
func (uc *ContactUseCase) Search(organizationID, q string, limit int) (*dto.ContactListResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	list, err := uc.contacts.Search(organizationID, q, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ContactResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *contactToResponse(c))
	}
	return &dto.ContactListResponse{Items: items}, nil
}

func contactToResponse(c *entity.Contact) *dto.ContactResponse {
	if c == nil {
		return nil
	}
	return &dto.ContactResponse{
		ID:         c.ID,
		Prenom:     c.Prenom,
		Nom:        c.Nom,
		NomComplet: c.DisplayName(),
		Email:      c.Email,
		Telephone:  c.Telephone,
		CreatedAt:  c.CreatedAt,
	}
}
