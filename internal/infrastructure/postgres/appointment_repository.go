package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/renovapro/crm-api/internal/domain/entity"
	"github.com/renovapro/crm-api/internal/domain/repository"
)

var _ repository.AppointmentRepository = (*AppointmentRepo)(nil)

const appointmentColumns = `
	id, id_organisation, titre, COALESCE(id_contact::text, ''), date_debut, date_fin,
	COALESCE(lieu, ''), COALESCE(commentaires, ''), created_at, updated_at`

// AppointmentRepo implémentation de AppointmentRepository.
type AppointmentRepo struct {
	q Querier
}

// NewAppointmentRepository construit l'adaptateur.
func NewAppointmentRepository(q Querier) *AppointmentRepo {
	return &AppointmentRepo{q: q}
}

// Create persiste un nouveau rendez-vous.
func (r *AppointmentRepo) Create(appointment *entity.Appointment) error {
	query := `
		INSERT INTO rendez_vous (id, id_organisation, titre, id_contact, date_debut, date_fin,
			lieu, commentaires, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		appointment.ID, appointment.OrganizationID, appointment.Titre, nullIfEmpty(appointment.ContactID),
		appointment.DateDebut, appointment.DateFin, nullIfEmpty(appointment.Lieu),
		nullIfEmpty(appointment.Commentaires), appointment.CreatedAt, appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert rendez-vous: %w", err)
	}
	return nil
}

// GetByID lit un rendez-vous de l'organisation.
func (r *AppointmentRepo) GetByID(organizationID, id string) (*entity.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM rendez_vous WHERE id_organisation = $1 AND id = $2`
	a, err := scanAppointment(r.q.QueryRow(context.Background(), query, organizationID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rendez-vous: %w", err)
	}
	return a, nil
}

// ListByOrganization liste les rendez-vous sur une fenêtre de dates
// (bornes zéro = pas de borne), triés par date de début.
func (r *AppointmentRepo) ListByOrganization(organizationID string, from, to time.Time) ([]*entity.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM rendez_vous WHERE id_organisation = $1`
	args := []any{organizationID}
	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(" AND date_fin >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(" AND date_debut <= $%d", len(args))
	}
	query += " ORDER BY date_debut"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rendez-vous: %w", err)
	}
	defer rows.Close()
	var list []*entity.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rendez-vous: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Patch n'écrit que les champs non nil et renvoie la ligne mise à jour.
func (r *AppointmentRepo) Patch(organizationID, id string, patch entity.AppointmentPatch) (*entity.Appointment, error) {
	set := []string{"updated_at = now()"}
	args := []any{organizationID, id}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Titre != nil {
		add("titre", *patch.Titre)
	}
	if patch.ContactID != nil {
		add("id_contact", nullIfEmpty(*patch.ContactID))
	}
	if patch.DateDebut != nil {
		add("date_debut", *patch.DateDebut)
	}
	if patch.DateFin != nil {
		add("date_fin", *patch.DateFin)
	}
	if patch.Lieu != nil {
		add("lieu", nullIfEmpty(*patch.Lieu))
	}
	if patch.Commentaires != nil {
		add("commentaires", nullIfEmpty(*patch.Commentaires))
	}

	query := fmt.Sprintf(`UPDATE rendez_vous SET %s
		WHERE id_organisation = $1 AND id = $2
		RETURNING `+appointmentColumns, strings.Join(set, ", "))
	a, err := scanAppointment(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update rendez-vous: %w", err)
	}
	return a, nil
}

// Delete supprime physiquement le rendez-vous (seule suppression dure du modèle).
func (r *AppointmentRepo) Delete(organizationID, id string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM rendez_vous WHERE id_organisation = $1 AND id = $2`, organizationID, id)
	if err != nil {
		return fmt.Errorf("delete rendez-vous: %w", err)
	}
	return nil
}

func scanAppointment(row pgx.Row) (*entity.Appointment, error) {
	var a entity.Appointment
	err := row.Scan(
		&a.ID, &a.OrganizationID, &a.Titre, &a.ContactID, &a.DateDebut, &a.DateFin,
		&a.Lieu, &a.Commentaires, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
