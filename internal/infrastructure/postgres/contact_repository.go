package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/renovapro/crm-api/internal/domain/entity"
	"github.com/renovapro/crm-api/internal/domain/repository"
)

var _ repository.ContactRepository = (*ContactRepo)(nil)

const contactColumns = `
	id, id_organisation, prenom, nom, COALESCE(email, ''), COALESCE(telephone, ''),
	created_at, updated_at`

// ContactRepo implémentation de ContactRepository. La colonne recherche porte
// prénom, nom et email sans accents ni majuscules et est maintenue à l'écriture.
type ContactRepo struct {
	q Querier
}

// NewContactRepository construit l'adaptateur.
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

// Create persiste un nouveau contact et sa clé de recherche.
func (r *ContactRepo) Create(contact *entity.Contact) error {
	query := `
		INSERT INTO contacts (id, id_organisation, prenom, nom, email, telephone,
			recherche, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		contact.ID, contact.OrganizationID, contact.Prenom, contact.Nom,
		nullIfEmpty(contact.Email), nullIfEmpty(contact.Telephone),
		searchKey(contact), contact.CreatedAt, contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// GetByID lit un contact non supprimé de l'organisation.
func (r *ContactRepo) GetByID(organizationID, id string) (*entity.Contact, error) {
	query := `SELECT ` + contactColumns + `
		FROM contacts WHERE id_organisation = $1 AND id = $2 AND deleted_at IS NULL`
	c, err := scanContact(r.q.QueryRow(context.Background(), query, organizationID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

// Search recherche floue sur la clé normalisée (ILIKE, accents ignorés).
// q vide renvoie les premiers contacts par ordre alphabétique.
func (r *ContactRepo) Search(organizationID, q string, limit int) ([]*entity.Contact, error) {
	query := `SELECT ` + contactColumns + `
		FROM contacts WHERE id_organisation = $1 AND deleted_at IS NULL`
	args := []any{organizationID}
	if q != "" {
		args = append(args, "%"+escapeLike(foldAccents(q))+"%")
		query += fmt.Sprintf(" AND recherche ILIKE $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY nom, prenom LIMIT $%d", len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// SoftDelete pose le timestamp de suppression.
func (r *ContactRepo) SoftDelete(organizationID, id string) error {
	query := `UPDATE contacts SET deleted_at = now(), updated_at = now()
		WHERE id_organisation = $1 AND id = $2 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query, organizationID, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

func searchKey(c *entity.Contact) string {
	return foldAccents(c.Prenom + " " + c.Nom + " " + c.Email)
}

func scanContact(row pgx.Row) (*entity.Contact, error) {
	var c entity.Contact
	err := row.Scan(
		&c.ID, &c.OrganizationID, &c.Prenom, &c.Nom, &c.Email, &c.Telephone,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
