package repository

import (
	"time"

	"github.com/renovapro/crm-api/internal/domain/entity"
)

// AppointmentRepository définit le port de persistance des rendez-vous.
// Delete est une suppression physique, seul cas du modèle ; le reste du
// système passe par soft delete.
type AppointmentRepository interface {
	Create(appointment *entity.Appointment) error
	GetByID(organizationID, id string) (*entity.Appointment, error)
	ListByOrganization(organizationID string, from, to time.Time) ([]*entity.Appointment, error)
	Patch(organizationID, id string, patch entity.AppointmentPatch) (*entity.Appointment, error)
	Delete(organizationID, id string) error
}
