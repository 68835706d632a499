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

// TeamUseCase cas d'usage de l'équipe : invitation, mise à jour, changement
// de statut de compte, listing des rôles.
type TeamUseCase struct {
	members repository.MemberRepository
	roles   repository.RoleRepository
	events  domain.EventPublisher
}

// NewTeamUseCase construit le cas d'usage.
func NewTeamUseCase(members repository.MemberRepository, roles repository.RoleRepository, events domain.EventPublisher) *TeamUseCase {
	if events == nil {
		events = domain.NopPublisher{}
	}
	return &TeamUseCase{members: members, roles: roles, events: events}
}

// Invite crée un membre au statut "invite", sans mot de passe.
// Devient "actif" quand le compte pose son mot de passe.
func (uc *TeamUseCase) Invite(organizationID string, in dto.InviteMemberRequest) (*dto.MemberResponse, error) {
	if in.Prenom == "" || in.Nom == "" || !validator.Email(in.Email) {
		return nil, domain.ErrInvalidInput
	}
	if in.Telephone != "" && !validator.Phone(in.Telephone) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.members.GetByEmail(in.Email)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	now := time.Now()
	member := &entity.Member{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Prenom:         in.Prenom,
		Nom:            in.Nom,
		Email:          in.Email,
		Telephone:      in.Telephone,
		Statut:         entity.MemberStatusInvite,
		RoleID:         in.IDRole,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.members.Create(member); err != nil {
		return nil, err
	}
	resp := memberToResponse(member)
	uc.events.Publish(domain.ChangeEvent{
		Type:           domain.EventInsert,
		Table:          "salaries",
		OrganizationID: organizationID,
		New:            resp,
	})
	return resp, nil
}

// List liste les membres de l'organisation.
func (uc *TeamUseCase) List(organizationID string) (*dto.MemberListResponse, error) {
	list, err := uc.members.ListByOrganization(organizationID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MemberResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *memberToResponse(m))
	}
	return &dto.MemberListResponse{Items: items}, nil
}

// Update applique une mise à jour partielle d'un membre.
func (uc *TeamUseCase) Update(organizationID, id string, in dto.UpdateMemberRequest) (*dto.MemberResponse, error) {
	if in.Email != nil && !validator.Email(*in.Email) {
		return nil, domain.ErrInvalidInput
	}
	if in.Telephone != nil && *in.Telephone != "" && !validator.Phone(*in.Telephone) {
		return nil, domain.ErrInvalidInput
	}
	current, err := uc.members.GetByID(organizationID, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	patched, err := uc.members.Patch(organizationID, id, entity.MemberPatch{
		Prenom:    in.Prenom,
		Nom:       in.Nom,
		Email:     in.Email,
		Telephone: in.Telephone,
		RoleID:    in.IDRole,
	})
	if err != nil {
		return nil, err
	}
	if patched == nil {
		// Supprimé entre la lecture et l'écriture.
		return nil, domain.ErrNotFound
	}
	resp := memberToResponse(patched)
	uc.events.Publish(domain.ChangeEvent{
		Type:           domain.EventUpdate,
		Table:          "salaries",
		OrganizationID: organizationID,
		New:            resp,
		Old:            memberToResponse(current),
	})
	return resp, nil
}

// UpdateStatus change le statut de compte (actif, invite, desactive).
func (uc *TeamUseCase) UpdateStatus(organizationID, id string, in dto.UpdateMemberStatusRequest) (*dto.MemberResponse, error) {
	switch in.Statut {
	case entity.MemberStatusActif, entity.MemberStatusInvite, entity.MemberStatusDesactive:
	default:
		return nil, domain.ErrInvalidInput
	}
	current, err := uc.members.GetByID(organizationID, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	patched, err := uc.members.Patch(organizationID, id, entity.MemberPatch{Statut: &in.Statut})
	if err != nil {
		return nil, err
	}
	if patched == nil {
		return nil, domain.ErrNotFound
	}
	resp := memberToResponse(patched)
	uc.events.Publish(domain.ChangeEvent{
		Type:           domain.EventUpdate,
		Table:          "salaries",
		OrganizationID: organizationID,
		New:            resp,
		Old:            memberToResponse(current),
	})
	return resp, nil
}

// ListRoles liste les rôles attribuables.
func (uc *TeamUseCase) ListRoles(organizationID string) ([]dto.RoleResponse, error) {
	list, err := uc.roles.ListByOrganization(organizationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.RoleResponse{ID: r.ID, Nom: r.Nom, Description: r.Description})
	}
	return out, nil
}

func memberToResponse(m *entity.Member) *dto.MemberResponse {
	if m == nil {
		return nil
	}
	return &dto.MemberResponse{
		ID:         m.ID,
		Prenom:     m.Prenom,
		Nom:        m.Nom,
		NomComplet: m.DisplayName(),
		Email:      m.Email,
		Telephone:  m.Telephone,
		Statut:     m.Statut,
		IDRole:     m.RoleID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
