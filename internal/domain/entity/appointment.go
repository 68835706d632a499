package entity

import "time"

// Appointment représente un rendez-vous avec un contact (visite, pose, SAV).
type Appointment struct {
	ID             string
	OrganizationID string
	Titre          string
	ContactID      string
	DateDebut      time.Time
	DateFin        time.Time
	Lieu           string
	Commentaires   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AppointmentPatch champs modifiables d'un rendez-vous ; nil = champ non touché.
type AppointmentPatch struct {
	Titre        *string
	ContactID    *string
	DateDebut    *time.Time
	DateFin      *time.Time
	Lieu         *string
	Commentaires *string
}
