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

var _ repository.MemberRepository = (*MemberRepo)(nil)
var _ repository.RoleRepository = (*RoleRepo)(nil)

const memberColumns = `
	id, id_organisation, prenom, nom, email, COALESCE(telephone, ''),
	COALESCE(password_hash, ''), statut, COALESCE(id_role::text, ''), created_at, updated_at`

// MemberRepo implémentation de MemberRepository.
type MemberRepo struct {
	q Querier
}

// NewMemberRepository construit l'adaptateur.
func NewMemberRepository(q Querier) *MemberRepo {
	return &MemberRepo{q: q}
}

// Create persiste un nouveau membre. L'email est unique sur toute la plateforme.
func (r *MemberRepo) Create(member *entity.Member) error {
	query := `
		INSERT INTO salaries (id, id_organisation, prenom, nom, email, telephone,
			password_hash, statut, id_role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		member.ID, member.OrganizationID, member.Prenom, member.Nom, member.Email,
		nullIfEmpty(member.Telephone), nullIfEmpty(member.PasswordHash), member.Statut,
		nullIfEmpty(member.RoleID), member.CreatedAt, member.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert salarie: %w", err)
	}
	return nil
}

// GetByID lit un membre non supprimé de l'organisation.
func (r *MemberRepo) GetByID(organizationID, id string) (*entity.Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM salaries WHERE id_organisation = $1 AND id = $2 AND deleted_at IS NULL`
	m, err := scanMember(r.q.QueryRow(context.Background(), query, organizationID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get salarie: %w", err)
	}
	return m, nil
}

// GetByEmail cherche un membre par email sur toutes les organisations (login).
func (r *MemberRepo) GetByEmail(email string) (*entity.Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM salaries WHERE lower(email) = lower($1) AND deleted_at IS NULL`
	m, err := scanMember(r.q.QueryRow(context.Background(), query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get salarie par email: %w", err)
	}
	return m, nil
}

// ListByOrganization liste les membres non supprimés, triés par nom.
func (r *MemberRepo) ListByOrganization(organizationID string) ([]*entity.Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM salaries WHERE id_organisation = $1 AND deleted_at IS NULL ORDER BY nom, prenom`
	rows, err := r.q.Query(context.Background(), query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list salaries: %w", err)
	}
	defer rows.Close()
	var list []*entity.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan salarie: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Patch n'écrit que les champs non nil et renvoie la ligne mise à jour.
func (r *MemberRepo) Patch(organizationID, id string, patch entity.MemberPatch) (*entity.Member, error) {
	set := []string{"updated_at = now()"}
	args := []any{organizationID, id}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Prenom != nil {
		add("prenom", *patch.Prenom)
	}
	if patch.Nom != nil {
		add("nom", *patch.Nom)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Telephone != nil {
		add("telephone", nullIfEmpty(*patch.Telephone))
	}
	if patch.Statut != nil {
		add("statut", *patch.Statut)
	}
	if patch.RoleID != nil {
		add("id_role", nullIfEmpty(*patch.RoleID))
	}

	query := fmt.Sprintf(`UPDATE salaries SET %s
		WHERE id_organisation = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+memberColumns, strings.Join(set, ", "))
	m, err := scanMember(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("update salarie: %w", err)
	}
	return m, nil
}

// SoftDelete pose le timestamp de suppression.
func (r *MemberRepo) SoftDelete(organizationID, id string) error {
	query := `UPDATE salaries SET deleted_at = now(), updated_at = now()
		WHERE id_organisation = $1 AND id = $2 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query, organizationID, id)
	if err != nil {
		return fmt.Errorf("delete salarie: %w", err)
	}
	return nil
}

func scanMember(row pgx.Row) (*entity.Member, error) {
	var m entity.Member
	err := row.Scan(
		&m.ID, &m.OrganizationID, &m.Prenom, &m.Nom, &m.Email, &m.Telephone,
		&m.PasswordHash, &m.Statut, &m.RoleID, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// RoleRepo implémentation de RoleRepository.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construit l'adaptateur.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

// Create persiste un nouveau rôle.
func (r *RoleRepo) Create(role *entity.Role) error {
	query := `
		INSERT INTO roles (id, id_organisation, nom, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		role.ID, role.OrganizationID, role.Nom, nullIfEmpty(role.Description),
		role.CreatedAt, role.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

// GetByID lit un rôle de l'organisation.
func (r *RoleRepo) GetByID(organizationID, id string) (*entity.Role, error) {
	query := `
		SELECT id, id_organisation, nom, COALESCE(description, ''), created_at, updated_at
		FROM roles WHERE id_organisation = $1 AND id = $2`
	var role entity.Role
	err := r.q.QueryRow(context.Background(), query, organizationID, id).Scan(
		&role.ID, &role.OrganizationID, &role.Nom, &role.Description, &role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &role, nil
}

// ListByOrganization liste les rôles de l'organisation.
func (r *RoleRepo) ListByOrganization(organizationID string) ([]*entity.Role, error) {
	query := `
		SELECT id, id_organisation, nom, COALESCE(description, ''), created_at, updated_at
		FROM roles WHERE id_organisation = $1 ORDER BY nom`
	rows, err := r.q.Query(context.Background(), query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Role
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.OrganizationID, &role.Nom, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, &role)
	}
	return list, rows.Err()
}
