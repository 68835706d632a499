package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/renovapro/crm-api/internal/application/auth"
	"github.com/renovapro/crm-api/internal/domain/repository"
)

var _ auth.RegistrationTxRunner = (*TxRunner)(nil)

// TxRunner exécute des callbacks dans une transaction PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construit le runner avec le pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunRegistration ouvre une transaction, exécute fn avec des repos liés à la
// tx et fait Commit ou Rollback.
func (r *TxRunner) RunRegistration(ctx context.Context, fn func(
	orgs repository.OrganizationRepository,
	roles repository.RoleRepository,
	members repository.MemberRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orgRepo := NewOrganizationRepository(tx)
	roleRepo := NewRoleRepository(tx)
	memberRepo := NewMemberRepository(tx)

	if err := fn(orgRepo, roleRepo, memberRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
