package usecase

import (
	"github.com/renovapro/crm-api/internal/application/dto"
	"github.com/renovapro/crm-api/internal/domain"
	"github.com/renovapro/crm-api/internal/domain/entity"
	"github.com/renovapro/crm-api/internal/domain/repository"
	"github.com/renovapro/crm-api/pkg/validator"
)

// OrganizationUseCase cas d'usage du profil entreprise (une ligne par tenant).
type OrganizationUseCase struct {
	organizations repository.OrganizationRepository
	events        domain.EventPublisher
}

// NewOrganizationUseCase construit le cas d'usage.
func NewOrganizationUseCase(organizations repository.OrganizationRepository, events domain.EventPublisher) *OrganizationUseCase {
	if events == nil {
		events = domain.NopPublisher{}
	}
	return &OrganizationUseCase{organizations: organizations, events: events}
}

// Get charge le profil de l'organisation du token.
func (uc *OrganizationUseCase) Get(organizationID string) (*dto.OrganizationResponse, error) {
	org, err := uc.organizations.GetByID(organizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrOrganizationNotFound
	}
	return organizationToResponse(org), nil
}

// Update applique une mise à jour partielle du profil. Les identifiants
// légaux sont validés avant écriture ; une chaîne vide efface le champ.
func (uc *OrganizationUseCase) Update(organizationID string, in dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error) {
	if in.SIREN != nil && *in.SIREN != "" && !validator.SIREN(*in.SIREN) {
		return nil, domain.ErrInvalidInput
	}
	if in.SIRET != nil && *in.SIRET != "" && !validator.SIRET(*in.SIRET) {
		return nil, domain.ErrInvalidInput
	}
	if in.TVAIntracom != nil && *in.TVAIntracom != "" && !validator.TVAIntracom(*in.TVAIntracom) {
		return nil, domain.ErrInvalidInput
	}
	if in.IBAN != nil && *in.IBAN != "" && !validator.IBAN(*in.IBAN) {
		return nil, domain.ErrInvalidInput
	}
	if in.Email != nil && *in.Email != "" && !validator.Email(*in.Email) {
		return nil, domain.ErrInvalidInput
	}
	current, err := uc.organizations.GetByID(organizationID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrOrganizationNotFound
	}
	patched, err := uc.organizations.Patch(organizationID, entity.OrganizationPatch{
		Nom:         in.Nom,
		Adresse:     in.Adresse,
		CodePostal:  in.CodePostal,
		Ville:       in.Ville,
		SIREN:       in.SIREN,
		SIRET:       in.SIRET,
		TVAIntracom: in.TVAIntracom,
		IBAN:        in.IBAN,
		Email:       in.Email,
		Telephone:   in.Telephone,
	})
	if err != nil {
		return nil, err
	}
	resp := organizationToResponse(patched)
	uc.events.Publish(domain.ChangeEvent{
		Type:           domain.EventUpdate,
		Table:          "organisations",
		OrganizationID: organizationID,
		New:            resp,
		Old:            organizationToResponse(current),
	})
	return resp, nil
}

func organizationToResponse(o *entity.Organization) *dto.OrganizationResponse {
	return &dto.OrganizationResponse{
		ID:          o.ID,
		Nom:         o.Nom,
		Adresse:     o.Adresse,
		CodePostal:  o.CodePostal,
		Ville:       o.Ville,
		SIREN:       o.SIREN,
		SIRET:       o.SIRET,
		TVAIntracom: o.TVAIntracom,
		IBAN:        o.IBAN,
		Email:       o.Email,
		Telephone:   o.Telephone,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
