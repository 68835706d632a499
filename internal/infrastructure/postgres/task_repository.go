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

var _ repository.TaskRepository = (*TaskRepo)(nil)

// taskColumns colonnes lues pour une tâche (les FK nulles reviennent en '').
const taskColumns = `
	id, id_organisation, ordre, type, titre, COALESCE(tag, ''),
	COALESCE(id_projet::text, ''), COALESCE(id_contact::text, ''), COALESCE(id_affecte_a::text, ''),
	statut, progression, date_echeance, COALESCE(note, ''), created_at, updated_at`

// TaskRepo implémentation de TaskRepository (utilisable avec pool ou tx).
type TaskRepo struct {
	q Querier
}

// NewTaskRepository construit l'adaptateur. Passer un pool ou une tx (Querier).
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

// Create persiste une nouvelle tâche.
func (r *TaskRepo) Create(task *entity.Task) error {
	query := `
		INSERT INTO taches (id, id_organisation, ordre, type, titre, tag, id_projet, id_contact,
			id_affecte_a, statut, progression, date_echeance, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		task.ID, task.OrganizationID, task.Ordre, task.Type, task.Titre, nullIfEmpty(task.Tag),
		nullIfEmpty(task.ProjectID), nullIfEmpty(task.ContactID), nullIfEmpty(task.AssigneeID),
		task.Statut, task.Progression, task.DateEcheance, nullIfEmpty(task.Note),
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tache: %w", err)
	}
	return nil
}

// GetByID lit une tâche non supprimée de l'organisation.
func (r *TaskRepo) GetByID(organizationID, id string) (*entity.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM taches WHERE id_organisation = $1 AND id = $2 AND deleted_at IS NULL`
	t, err := scanTask(r.q.QueryRow(context.Background(), query, organizationID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tache: %w", err)
	}
	return t, nil
}

// ListByOrganization liste les tâches non supprimées, triées par ordre kanban.
func (r *TaskRepo) ListByOrganization(organizationID string, filter repository.TaskFilter) ([]*entity.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM taches WHERE id_organisation = $1 AND deleted_at IS NULL`
	args := []any{organizationID}
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		query += fmt.Sprintf(" AND id_projet = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	query += " ORDER BY ordre, created_at"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list taches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tache: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Patch n'écrit que les champs non nil et renvoie la ligne mise à jour.
func (r *TaskRepo) Patch(organizationID, id string, patch entity.TaskPatch) (*entity.Task, error) {
	set := []string{"updated_at = now()"}
	args := []any{organizationID, id}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Ordre != nil {
		add("ordre", *patch.Ordre)
	}
	if patch.Titre != nil {
		add("titre", *patch.Titre)
	}
	if patch.Tag != nil {
		add("tag", nullIfEmpty(*patch.Tag))
	}
	if patch.ProjectID != nil {
		add("id_projet", nullIfEmpty(*patch.ProjectID))
	}
	if patch.ContactID != nil {
		add("id_contact", nullIfEmpty(*patch.ContactID))
	}
	if patch.AssigneeID != nil {
		add("id_affecte_a", nullIfEmpty(*patch.AssigneeID))
	}
	if patch.Statut != nil {
		add("statut", *patch.Statut)
	}
	if patch.Progression != nil {
		add("progression", *patch.Progression)
	}
	if patch.DateEcheance != nil {
		add("date_echeance", *patch.DateEcheance)
	}
	if patch.Note != nil {
		add("note", nullIfEmpty(*patch.Note))
	}

	query := fmt.Sprintf(`UPDATE taches SET %s
		WHERE id_organisation = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+taskColumns, strings.Join(set, ", "))
	t, err := scanTask(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update tache: %w", err)
	}
	return t, nil
}

// SoftDelete pose le timestamp de suppression ; la ligne sort des listings.
func (r *TaskRepo) SoftDelete(organizationID, id string) error {
	query := `UPDATE taches SET deleted_at = now(), updated_at = now()
		WHERE id_organisation = $1 AND id = $2 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query, organizationID, id)
	if err != nil {
		return fmt.Errorf("delete tache: %w", err)
	}
	return nil
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	var due *time.Time
	err := row.Scan(
		&t.ID, &t.OrganizationID, &t.Ordre, &t.Type, &t.Titre, &t.Tag,
		&t.ProjectID, &t.ContactID, &t.AssigneeID,
		&t.Statut, &t.Progression, &due, &t.Note, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.DateEcheance = due
	return &t, nil
}
