package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/renovapro/crm-api/internal/application/dto"
	"github.com/renovapro/crm-api/internal/domain"
	"github.com/renovapro/crm-api/internal/domain/entity"
	"github.com/renovapro/crm-api/internal/domain/repository"
	"github.com/renovapro/crm-api/pkg/jwt"
	"github.com/renovapro/crm-api/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuration pour la génération des tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase cas d'usage d'authentification : bootstrap d'organisation et login.
// L'organisation est résolue au login et portée par le token ; aucune route
// protégée ne refait le lookup membre -> organisation.
type AuthUseCase struct {
	members       repository.MemberRepository
	organizations repository.OrganizationRepository
	roles         repository.RoleRepository
	tx            RegistrationTxRunner
	jwtCfg        JWTConfig
}

// NewAuthUseCase construit le cas d'usage.
func NewAuthUseCase(members repository.MemberRepository, organizations repository.OrganizationRepository, roles repository.RoleRepository, tx RegistrationTxRunner, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{members: members, organizations: organizations, roles: roles, tx: tx, jwtCfg: jwtCfg}
}

// Register bootstrap : crée l'organisation, ses trois rôles par défaut et le
// premier compte admin dans une même transaction, puis connecte ce compte.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	if in.OrganisationNom == "" || in.Prenom == "" || in.Nom == "" {
		return nil, domain.ErrInvalidInput
	}
	if !validator.Email(in.Email) || !validator.Password(in.Password) {
		return nil, domain.ErrInvalidInput
	}
	if in.SIREN != "" && !validator.SIREN(in.SIREN) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.members.GetByEmail(in.Email)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	org := &entity.Organization{
		ID:        uuid.New().String(),
		Nom:       in.OrganisationNom,
		SIREN:     in.SIREN,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var adminRoleID string
	member := &entity.Member{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		Prenom:         in.Prenom,
		Nom:            in.Nom,
		Email:          in.Email,
		PasswordHash:   string(hash),
		Statut:         entity.MemberStatusActif,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = uc.tx.RunRegistration(ctx, func(
		orgs repository.OrganizationRepository,
		roles repository.RoleRepository,
		members repository.MemberRepository,
	) error {
		if err := orgs.Create(org); err != nil {
			return err
		}
		for _, name := range []string{entity.RoleAdmin, entity.RoleManager, entity.RoleCommercial} {
			role := &entity.Role{
				ID:             uuid.New().String(),
				OrganizationID: org.ID,
				Nom:            name,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := roles.Create(role); err != nil {
				return err
			}
			if name == entity.RoleAdmin {
				adminRoleID = role.ID
			}
		}
		member.RoleID = adminRoleID
		return members.Create(member)
	})
	if err != nil {
		return nil, err
	}

	return uc.issueToken(member, entity.RoleAdmin)
}

// Login vérifie email/mot de passe, résout le rôle et génère le JWT.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	member, err := uc.members.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthenticated
	}
	if member.Statut != entity.MemberStatusActif {
		return nil, domain.ErrForbidden
	}
	org, err := uc.organizations.GetByID(member.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrOrganizationNotFound
	}

	roleName := entity.RoleCommercial
	if member.RoleID != "" {
		if role, err := uc.roles.GetByID(member.OrganizationID, member.RoleID); err == nil && role != nil {
			roleName = role.Nom
		}
	}
	return uc.issueToken(member, roleName)
}

func (uc *AuthUseCase) issueToken(member *entity.Member, roleName string) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, member.ID, member.OrganizationID, roleName, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		Member: dto.MemberResponse{
			ID:         member.ID,
			Prenom:     member.Prenom,
			Nom:        member.Nom,
			NomComplet: member.DisplayName(),
			Email:      member.Email,
			Telephone:  member.Telephone,
			Statut:     member.Statut,
			IDRole:     member.RoleID,
			CreatedAt:  member.CreatedAt,
			UpdatedAt:  member.UpdatedAt,
		},
	}, nil
}
