package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/renovapro/crm-api/internal/domain"
	"github.com/renovapro/crm-api/internal/domain/entity"
	"github.com/renovapro/crm-api/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

const organizationColumns = `
	id, nom, COALESCE(adresse, ''), COALESCE(code_postal, ''), COALESCE(ville, ''),
	COALESCE(siren, ''), COALESCE(siret, ''), COALESCE(tva_intracom, ''), COALESCE(iban, ''),
	COALESCE(email, ''), COALESCE(telephone, ''), created_at, updated_at`

// OrganizationRepo implémentation de OrganizationRepository.
type OrganizationRepo struct {
	q Querier
}

// NewOrganizationRepository construit l'adaptateur.
func NewOrganizationRepository(q Querier) *OrganizationRepo {
	return &OrganizationRepo{q: q}
}

// Create persiste une nouvelle organisation (bootstrap).
func (r *OrganizationRepo) Create(org *entity.Organization) error {
	query := `
		INSERT INTO organisations (id, nom, adresse, code_postal, ville, siren, siret,
			tva_intracom, iban, email, telephone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		org.ID, org.Nom, nullIfEmpty(org.Adresse), nullIfEmpty(org.CodePostal), nullIfEmpty(org.Ville),
		nullIfEmpty(org.SIREN), nullIfEmpty(org.SIRET), nullIfEmpty(org.TVAIntracom),
		nullIfEmpty(org.IBAN), nullIfEmpty(org.Email), nullIfEmpty(org.Telephone),
		org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert organisation: %w", err)
	}
	return nil
}

// GetByID lit le profil de l'organisation.
func (r *OrganizationRepo) GetByID(id string) (*entity.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organisations WHERE id = $1`
	o, err := scanOrganization(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organisation: %w", err)
	}
	return o, nil
}

// Patch n'écrit que les champs non nil et renvoie la ligne mise à jour.
func (r *OrganizationRepo) Patch(id string, patch entity.OrganizationPatch) (*entity.Organization, error) {
	set := []string{"updated_at = now()"}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Nom != nil {
		add("nom", *patch.Nom)
	}
	if patch.Adresse != nil {
		add("adresse", nullIfEmpty(*patch.Adresse))
	}
	if patch.CodePostal != nil {
		add("code_postal", nullIfEmpty(*patch.CodePostal))
	}
	if patch.Ville != nil {
		add("ville", nullIfEmpty(*patch.Ville))
	}
	if patch.SIREN != nil {
		add("siren", nullIfEmpty(*patch.SIREN))
	}
	if patch.SIRET != nil {
		add("siret", nullIfEmpty(*patch.SIRET))
	}
	if patch.TVAIntracom != nil {
		add("tva_intracom", nullIfEmpty(*patch.TVAIntracom))
	}
	if patch.IBAN != nil {
		add("iban", nullIfEmpty(*patch.IBAN))
	}
	if patch.Email != nil {
		add("email", nullIfEmpty(*patch.Email))
	}
	if patch.Telephone != nil {
		add("telephone", nullIfEmpty(*patch.Telephone))
	}

	query := fmt.Sprintf(`UPDATE organisations SET %s WHERE id = $1
		RETURNING `+organizationColumns, strings.Join(set, ", "))
	o, err := scanOrganization(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update organisation: %w", err)
	}
	return o, nil
}

func scanOrganization(row pgx.Row) (*entity.Organization, error) {
	var o entity.Organization
	err := row.Scan(
		&o.ID, &o.Nom, &o.Adresse, &o.CodePostal, &o.Ville,
		&o.SIREN, &o.SIRET, &o.TVAIntracom, &o.IBAN,
		&o.Email, &o.Telephone, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
