package dto

import "time"

// CreateAppointmentRequest entrée de création d'un rendez-vous.
type CreateAppointmentRequest struct {
	Titre        string    `json:"titre" validate:"required,max=200"`
	IDContact    string    `json:"id_contact" validate:"omitempty,uuid"`
	DateDebut    time.Time `json:"date_debut" validate:"required"`
	DateFin      time.Time `json:"date_fin" validate:"required"`
	Lieu         string    `json:"lieu" validate:"omitempty,max=300"`
	Commentaires string    `json:"commentaires"`
}

// UpdateAppointmentRequest mise à jour partielle ; seuls les champs présents sont écrits.
type UpdateAppointmentRequest struct {
	Titre        *string    `json:"titre" validate:"omitempty,max=200"`
	IDContact    *string    `json:"id_contact" validate:"omitempty,uuid"`
	DateDebut    *time.Time `json:"date_debut"`
	DateFin      *time.Time `json:"date_fin"`
	Lieu         *string    `json:"lieu" validate:"omitempty,max=300"`
	Commentaires *string    `json:"commentaires"`
}

// AppointmentResponse sortie d'un rendez-vous.
type AppointmentResponse struct {
	ID           string    `json:"id"`
	Titre        string    `json:"titre"`
	IDContact    string    `json:"id_contact,omitempty"`
	DateDebut    time.Time `json:"date_debut"`
	DateFin      time.Time `json:"date_fin"`
	Lieu         string    `json:"lieu,omitempty"`
	Commentaires string    `json:"commentaires,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AppointmentListResponse listing de rendez-vous.
type AppointmentListResponse struct {
	Items []AppointmentResponse `json:"items"`
}
