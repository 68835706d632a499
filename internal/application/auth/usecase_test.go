package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovapro/crm-api/internal/application/auth"
	"github.com/renovapro/crm-api/internal/application/dto"
	"github.com/renovapro/crm-api/internal/domain"
	"github.com/renovapro/crm-api/internal/domain/entity"
	"github.com/renovapro/crm-api/internal/domain/repository"
	pkgjwt "github.com/renovapro/crm-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en mémoire
// ──────────────────────────────────────────────────────────────────────────────

type fakeOrgRepo struct {
	orgs map[string]*entity.Organization
}

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{orgs: make(map[string]*entity.Organization)}
}

func (r *fakeOrgRepo) Create(o *entity.Organization) error {
	r.orgs[o.ID] = o
	return nil
}

func (r *fakeOrgRepo) GetByID(id string) (*entity.Organization, error) {
	return r.orgs[id], nil
}

func (r *fakeOrgRepo) Patch(id string, patch entity.OrganizationPatch) (*entity.Organization, error) {
	return r.orgs[id], nil
}

type fakeRoleRepo struct {
	roles map[string]*entity.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[string]*entity.Role)}
}

func (r *fakeRoleRepo) Create(role *entity.Role) error {
	r.roles[role.ID] = role
	return nil
}

func (r *fakeRoleRepo) GetByID(organizationID, id string) (*entity.Role, error) {
	role, ok := r.roles[id]
	if !ok || role.OrganizationID != organizationID {
		return nil, nil
	}
	return role, nil
}

func (r *fakeRoleRepo) ListByOrganization(organizationID string) ([]*entity.Role, error) {
	var list []*entity.Role
	for _, role := range r.roles {
		if role.OrganizationID == organizationID {
			list = append(list, role)
		}
	}
	return list, nil
}

type fakeMemberRepo struct {
	members map[string]*entity.Member
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[string]*entity.Member)}
}

func (r *fakeMemberRepo) Create(m *entity.Member) error {
	for _, existing := range r.members {
		if existing.Email == m.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.members[m.ID] = m
	return nil
}

func (r *fakeMemberRepo) GetByID(organizationID, id string) (*entity.Member, error) {
	m, ok := r.members[id]
	if !ok || m.OrganizationID != organizationID {
		return nil, nil
	}
	return m, nil
}

func (r *fakeMemberRepo) GetByEmail(email string) (*entity.Member, error) {
	for _, m := range r.members {
		if m.Email == email {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMemberRepo) ListByOrganization(organizationID string) ([]*entity.Member, error) {
	var list []*entity.Member
	for _, m := range r.members {
		if m.OrganizationID == organizationID {
			list = append(list, m)
		}
	}
	return list, nil
}

func (r *fakeMemberRepo) Patch(organizationID, id string, patch entity.MemberPatch) (*entity.Member, error) {
	return r.members[id], nil
}

func (r *fakeMemberRepo) SoftDelete(organizationID, id string) error {
	delete(r.members, id)
	return nil
}

// fakeTxRunner passe les fakes au callback ; failAfter simule un échec en
// cours de transaction pour vérifier qu'aucune écriture partielle ne survit.
type fakeTxRunner struct {
	orgs    *fakeOrgRepo
	roles   *fakeRoleRepo
	members *fakeMemberRepo
	err     error
}

func (r *fakeTxRunner) RunRegistration(_ context.Context, fn func(
	orgs repository.OrganizationRepository,
	roles repository.RoleRepository,
	members repository.MemberRepository,
) error) error {
	if r.err != nil {
		return r.err
	}
	return fn(r.orgs, r.roles, r.members)
}

const testSecret = "secret-de-test"

func newAuthUC() (*auth.AuthUseCase, *fakeTxRunner) {
	tx := &fakeTxRunner{
		orgs:    newFakeOrgRepo(),
		roles:   newFakeRoleRepo(),
		members: newFakeMemberRepo(),
	}
	uc := auth.NewAuthUseCase(tx.members, tx.orgs, tx.roles, tx, auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "renova-crm-test",
	})
	return uc, tx
}

func register(t *testing.T, uc *auth.AuthUseCase) *dto.LoginResponse {
	t.Helper()
	out, err := uc.Register(context.Background(), dto.RegisterRequest{
		OrganisationNom: "Cuisines Dumont",
		SIREN:           "732829320",
		Prenom:          "Claire",
		Nom:             "Dumont",
		Email:           "claire@cuisines-dumont.fr",
		Password:        "Secret123!",
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

// Cas 1 : le bootstrap crée l'organisation, les trois rôles par défaut et le
// compte admin actif ; le token porte l'organisation.
func TestRegister_BootstrapComplet(t *testing.T) {
	uc, tx := newAuthUC()
	out := register(t, uc)

	assert.Len(t, tx.orgs.orgs, 1)
	assert.Len(t, tx.roles.roles, 3)
	assert.Len(t, tx.members.members, 1)
	assert.Equal(t, entity.MemberStatusActif, out.Member.Statut)
	assert.Equal(t, "Claire Dumont", out.Member.NomComplet)

	member, err := tx.members.GetByEmail("claire@cuisines-dumont.fr")
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.NotEqual(t, "Secret123!", member.PasswordHash, "le mot de passe n'est jamais stocké en clair")

	userID, organizationID, role, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, member.ID, userID)
	assert.Equal(t, member.OrganizationID, organizationID)
	assert.Equal(t, entity.RoleAdmin, role)
}

// Cas 2 : email déjà pris → conflit, rien n'est créé en plus.
func TestRegister_EmailDejaPris(t *testing.T) {
	uc, tx := newAuthUC()
	register(t, uc)

	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		OrganisationNom: "Autre société",
		Prenom:          "Paul",
		Nom:             "Martin",
		Email:           "claire@cuisines-dumont.fr",
		Password:        "Secret123!",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Len(t, tx.orgs.orgs, 1)
}

// Cas 3 : champs invalides refusés avant toute écriture.
func TestRegister_EntreesInvalides(t *testing.T) {
	uc, tx := newAuthUC()

	cases := []dto.RegisterRequest{
		{Prenom: "Claire", Nom: "Dumont", Email: "c@d.fr", Password: "Secret123!"},                                                   // organisation manquante
		{OrganisationNom: "X", Prenom: "Claire", Nom: "Dumont", Email: "pas-un-email", Password: "Secret123!"},                       // email invalide
		{OrganisationNom: "X", Prenom: "Claire", Nom: "Dumont", Email: "c@d.fr", Password: "faible"},                                 // mot de passe faible
		{OrganisationNom: "X", SIREN: "123456789", Prenom: "Claire", Nom: "Dumont", Email: "c@d.fr", Password: "Secret123!"},         // clé SIREN fausse
	}
	for i, in := range cases {
		_, err := uc.Register(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "cas %d", i)
	}
	assert.Empty(t, tx.orgs.orgs)
}

// Cas 4 : un échec de la transaction remonte tel quel, sans token émis.
func TestRegister_EchecTransaction(t *testing.T) {
	uc, tx := newAuthUC()
	tx.err = errors.New("connexion perdue")

	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		OrganisationNom: "Cuisines Dumont",
		Prenom:          "Claire",
		Nom:             "Dumont",
		Email:           "claire@cuisines-dumont.fr",
		Password:        "Secret123!",
	})
	require.Error(t, err)
	assert.Empty(t, tx.members.members)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

// Cas 5 : identifiants corrects → token et rôle résolu.
func TestLogin_IdentifiantsValides(t *testing.T) {
	uc, _ := newAuthUC()
	register(t, uc)

	out, err := uc.Login(dto.LoginRequest{Email: "claire@cuisines-dumont.fr", Password: "Secret123!"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)

	_, _, role, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, role)
}

// Cas 6 : mauvais mot de passe ou email inconnu → même refus, sans indice.
func TestLogin_IdentifiantsInvalides(t *testing.T) {
	uc, _ := newAuthUC()
	register(t, uc)

	_, err := uc.Login(dto.LoginRequest{Email: "claire@cuisines-dumont.fr", Password: "Mauvais123!"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = uc.Login(dto.LoginRequest{Email: "inconnue@exemple.fr", Password: "Secret123!"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

// Cas 7 : un compte invité ou désactivé ne peut pas se connecter.
func TestLogin_CompteNonActif(t *testing.T) {
	uc, tx := newAuthUC()
	out := register(t, uc)

	m := tx.members.members[out.Member.ID]
	m.Statut = entity.MemberStatusDesactive

	_, err := uc.Login(dto.LoginRequest{Email: "claire@cuisines-dumont.fr", Password: "Secret123!"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
