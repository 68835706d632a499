package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/renovapro/crm-api/internal/domain"
	"github.com/renovapro/crm-api/internal/domain/entity"
	"github.com/renovapro/crm-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

const projectColumns = `
	id, id_organisation, nom, statut, progression, budget,
	COALESCE(id_contact::text, ''), COALESCE(id_referent::text, ''),
	decouverte, cuisine, created_at, updated_at`

// ProjectRepo implémentation de ProjectRepository (utilisable avec pool ou tx).
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construit l'adaptateur.
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

// Create persiste un nouveau projet.
func (r *ProjectRepo) Create(project *entity.Project) error {
	query := `
		INSERT INTO projets (id, id_organisation, nom, statut, progression, budget,
			id_contact, id_referent, decouverte, cuisine, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		project.ID, project.OrganizationID, project.Nom, project.Statut, project.Progression,
		project.Budget, nullIfEmpty(project.ContactID), nullIfEmpty(project.ReferentID),
		project.Decouverte, project.Cuisine, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert projet: %w", err)
	}
	return nil
}

// GetByID lit un projet non supprimé de l'organisation.
func (r *ProjectRepo) GetByID(organizationID, id string) (*entity.Project, error) {
	query := `SELECT ` + projectColumns + `
		FROM projets WHERE id_organisation = $1 AND id = $2 AND deleted_at IS NULL`
	p, err := scanProject(r.q.QueryRow(context.Background(), query, organizationID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get projet: %w", err)
	}
	return p, nil
}

// GetDetails charge le projet avec ses jointures contact et référent
// (LEFT JOIN : les liaisons sont optionnelles).
func (r *ProjectRepo) GetDetails(organizationID, id string) (*entity.ProjectDetails, error) {
	query := `
		SELECT p.id, p.id_organisation, p.nom, p.statut, p.progression, p.budget,
			COALESCE(p.id_contact::text, ''), COALESCE(p.id_referent::text, ''),
			p.decouverte, p.cuisine, p.created_at, p.updated_at,
			c.id, c.prenom, c.nom, COALESCE(c.email, ''), COALESCE(c.telephone, ''),
			s.id, s.prenom, s.nom, s.email, COALESCE(s.telephone, '')
		FROM projets p
		LEFT JOIN contacts c ON c.id = p.id_contact AND c.deleted_at IS NULL
		LEFT JOIN salaries s ON s.id = p.id_referent AND s.deleted_at IS NULL
		WHERE p.id_organisation = $1 AND p.id = $2 AND p.deleted_at IS NULL`

	var p entity.Project
	var cID, cPrenom, cNom, cEmail, cTel *string
	var sID, sPrenom, sNom, sEmail, sTel *string
	err := r.q.QueryRow(context.Background(), query, organizationID, id).Scan(
		&p.ID, &p.OrganizationID, &p.Nom, &p.Statut, &p.Progression, &p.Budget,
		&p.ContactID, &p.ReferentID, &p.Decouverte, &p.Cuisine, &p.CreatedAt, &p.UpdatedAt,
		&cID, &cPrenom, &cNom, &cEmail, &cTel,
		&sID, &sPrenom, &sNom, &sEmail, &sTel,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get projet details: %w", err)
	}

	details := &entity.ProjectDetails{Project: p}
	if cID != nil {
		details.Contact = &entity.Contact{
			ID:             *cID,
			OrganizationID: organizationID,
			Prenom:         deref(cPrenom),
			Nom:            deref(cNom),
			Email:          deref(cEmail),
			Telephone:      deref(cTel),
		}
	}
	if sID != nil {
		details.Referent = &entity.Member{
			ID:             *sID,
			OrganizationID: organizationID,
			Prenom:         deref(sPrenom),
			Nom:            deref(sNom),
			Email:          deref(sEmail),
			Telephone:      deref(sTel),
		}
	}
	return details, nil
}

// ListByOrganization liste les projets non supprimés avec pagination.
func (r *ProjectRepo) ListByOrganization(organizationID string, limit, offset int) ([]*entity.Project, error) {
	query := `SELECT ` + projectColumns + `
		FROM projets WHERE id_organisation = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, organizationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list projets: %w", err)
	}
	defer rows.Close()
	var list []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan projet: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Patch n'écrit que les champs non nil et renvoie la ligne mise à jour.
func (r *ProjectRepo) Patch(organizationID, id string, patch entity.ProjectPatch) (*entity.Project, error) {
	set := []string{"updated_at = now()"}
	args := []any{organizationID, id}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Nom != nil {
		add("nom", *patch.Nom)
	}
	if patch.Statut != nil {
		add("statut", *patch.Statut)
	}
	if patch.Progression != nil {
		add("progression", *patch.Progression)
	}
	if patch.Budget != nil {
		add("budget", *patch.Budget)
	}
	if patch.ContactID != nil {
		add("id_contact", nullIfEmpty(*patch.ContactID))
	}
	if patch.ReferentID != nil {
		add("id_referent", nullIfEmpty(*patch.ReferentID))
	}

	query := fmt.Sprintf(`UPDATE projets SET %s
		WHERE id_organisation = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+projectColumns, strings.Join(set, ", "))
	p, err := scanProject(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update projet: %w", err)
	}
	return p, nil
}

// UpdateBlob remplace un sous-formulaire JSON (decouverte ou cuisine).
func (r *ProjectRepo) UpdateBlob(organizationID, id, field string, blob json.RawMessage) error {
	// field vient d'une liste fermée côté cas d'usage ; re-vérifié ici car
	// il est interpolé dans la requête.
	if field != entity.ProjectBlobDecouverte && field != entity.ProjectBlobCuisine {
		return domain.ErrInvalidInput
	}
	query := fmt.Sprintf(`UPDATE projets SET %s = $3, updated_at = now()
		WHERE id_organisation = $1 AND id = $2 AND deleted_at IS NULL`, field)
	_, err := r.q.Exec(context.Background(), query, organizationID, id, blob)
	if err != nil {
		return fmt.Errorf("update projet %s: %w", field, err)
	}
	return nil
}

// SoftDelete pose le timestamp de suppression.
func (r *ProjectRepo) SoftDelete(organizationID, id string) error {
	query := `UPDATE projets SET deleted_at = now(), updated_at = now()
		WHERE id_organisation = $1 AND id = $2 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query, organizationID, id)
	if err != nil {
		return fmt.Errorf("delete projet: %w", err)
	}
	return nil
}

func scanProject(row pgx.Row) (*entity.Project, error) {
	var p entity.Project
	err := row.Scan(
		&p.ID, &p.OrganizationID, &p.Nom, &p.Statut, &p.Progression, &p.Budget,
		&p.ContactID, &p.ReferentID, &p.Decouverte, &p.Cuisine, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
