package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/renovapro/crm-api/internal/application/dto"
	"github.com/renovapro/crm-api/internal/domain"
	"github.com/renovapro/crm-api/internal/domain/entity"
	"github.com/renovapro/crm-api/internal/domain/repository"
)

// AppointmentUseCase cas d'usage des rendez-vous. La suppression est
// physique : seul cas du modèle, le reste passe par soft delete.
type AppointmentUseCase struct {
	appointments repository.AppointmentRepository
	events       domain.EventPublisher
}

// NewAppointmentUseCase construit le cas d'usage.
func NewAppointmentUseCase(appointments repository.AppointmentRepository, events domain.EventPublisher) *AppointmentUseCase {
	if events == nil {
		events = domain.NopPublisher{}
	}
	return &AppointmentUseCase{appointments: appointments, events: events}
}

// Create crée un rendez-vous. La fin doit suivre le début.
func (uc *AppointmentUseCase) Create(organizationID string, in dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if in.Titre == "" || in.DateDebut.IsZero() || in.DateFin.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if in.DateFin.Before(in.DateDebut) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	appointment := &entity.Appointment{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Titre:          in.Titre,
		ContactID:      in.IDContact,
		DateDebut:      in.DateDebut,
		DateFin:        in.DateFin,
		Lieu:           in.Lieu,
		Commentaires:   in.Commentaires,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.appointments.Create(appointment); err != nil {
		return nil, err
	}
	resp := appointmentToResponse(appointment)
	uc.events.Publish(domain.ChangeEvent{
		Type:           domain.EventInsert,
		Table:          "rendez_vous",
		OrganizationID: organizationID,
		New:            resp,
	})
	return resp, nil
}

// List liste les rendez-vous sur une fenêtre de dates (bornes nulles = sans borne).
func (uc *AppointmentUseCase) List(organizationID string, from, to time.Time) (*dto.AppointmentListResponse, error) {
	list, err := uc.appointments.ListByOrganization(organizationID, from, to)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AppointmentResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *appointmentToResponse(a))
	}
	return &dto.AppointmentListResponse{Items: items}, nil
}

// Update applique une mise à jour partielle.
func (uc *AppointmentUseCase) Update(organizationID, id string, in dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	current, err := uc.appointments.GetByID(organizationID, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	// La règle fin >= début s'applique aux dates fusionnées : une mise à jour
	// partielle ne peut pas faire passer date_fin avant date_debut.
	debut, fin := current.DateDebut, current.DateFin
	if in.DateDebut != nil {
		debut = *in.DateDebut
	}
	if in.DateFin != nil {
		fin = *in.DateFin
	}
	if fin.Before(debut) {
		return nil, domain.ErrInvalidInput
	}
	patch := entity.AppointmentPatch{
		Titre:        in.Titre,
		ContactID:    in.IDContact,
		DateDebut:    in.DateDebut,
		DateFin:      in.DateFin,
		Lieu:         in.Lieu,
		Commentaires: in.Commentaires,
	}
	patched, err := uc.appointments.Patch(organizationID, id, patch)
	if err != nil {
		return nil, err
	}
	if patched == nil {
		// Supprimé entre la lecture et l'écriture.
		return nil, domain.ErrNotFound
	}
	resp := appointmentToResponse(patched)
	uc.events.Publish(domain.ChangeEvent{
		Type:           domain.EventUpdate,
		Table:          "rendez_vous",
		OrganizationID: organizationID,
		New:            resp,
		Old:            appointmentToResponse(current),
	})
	return resp, nil
}

// Delete supprime physiquement le rendez-vous.
func (uc *AppointmentUseCase) Delete(organizationID, id string) error {
	current, err := uc.appointments.GetByID(organizationID, id)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrNotFound
	}
	if err := uc.appointments.Delete(organizationID, id); err != nil {
		return err
	}
	uc.events.Publish(domain.ChangeEvent{
		Type:           domain.EventDelete,
		Table:          "rendez_vous",
		OrganizationID: organizationID,
		Old:            appointmentToResponse(current),
	})
	return nil
}

func appointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	return &dto.AppointmentResponse{
		ID:           a.ID,
		Titre:        a.Titre,
		IDContact:    a.ContactID,
		DateDebut:    a.DateDebut,
		DateFin:      a.DateFin,
		Lieu:         a.Lieu,
		Commentaires: a.Commentaires,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
