package auth

import (
	"context"

	"github.com/renovapro/crm-api/internal/domain/repository"
)

// RegistrationTxRunner exécute le bootstrap (organisation + rôles + premier
// compte) dans une transaction : tout ou rien.
type RegistrationTxRunner interface {
	RunRegistration(ctx context.Context, fn func(
		orgs repository.OrganizationRepository,
		roles repository.RoleRepository,
		members repository.MemberRepository,
	) error) error
}
