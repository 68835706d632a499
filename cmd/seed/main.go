// seed crée le schéma et peuple une organisation de démonstration :
// un compte admin, deux contacts, un projet cuisine et quelques tâches.
//
// Usage : go run ./cmd/seed
// Le compte créé est admin@demo.renovapro.fr / Demo1234!
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/renovapro/crm-api/internal/application/auth"
	"github.com/renovapro/crm-api/internal/application/dto"
	"github.com/renovapro/crm-api/internal/domain"
	"github.com/renovapro/crm-api/internal/domain/entity"
	"github.com/renovapro/crm-api/internal/infrastructure/postgres"
	"github.com/renovapro/crm-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("chargement de la configuration : %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("connexion à PostgreSQL : %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		fail("migration du schéma : %v", err)
	}

	memberRepo := postgres.NewMemberRepository(pool)
	organizationRepo := postgres.NewOrganizationRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(memberRepo, organizationRepo, roleRepo, txRunner, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	out, err := authUC.Register(ctx, dto.RegisterRequest{
		OrganisationNom: "Cuisines Dumont",
		SIREN:           "732829320",
		Prenom:          "Claire",
		Nom:             "Dumont",
		Email:           "admin@demo.renovapro.fr",
		Password:        "Demo1234!",
	})
	if err == domain.ErrEmailAlreadyExists {
		fmt.Println("organisation de démonstration déjà présente, rien à faire")
		return
	}
	if err != nil {
		fail("création de l'organisation de démonstration : %v", err)
	}

	orgID := mustOrgID(memberRepo, out.Member.ID)
	now := time.Now()

	contactRepo := postgres.NewContactRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)

	contact := &entity.Contact{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Prenom:         "Jérôme",
		Nom:            "Lefèvre",
		Email:          "jerome.lefevre@example.fr",
		Telephone:      "06 12 34 56 78",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := contactRepo.Create(contact); err != nil {
		fail("création du contact : %v", err)
	}
	second := &entity.Contact{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Prenom:         "Anaïs",
		Nom:            "Bérard",
		Email:          "anais.berard@example.fr",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := contactRepo.Create(second); err != nil {
		fail("création du contact : %v", err)
	}

	budget := decimal.NewFromInt(18500)
	project := &entity.Project{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Nom:            "Cuisine Lefèvre — rénovation complète",
		Statut:         entity.StatusCodeInProgress,
		Progression:    40,
		Budget:         budget,
		ContactID:      contact.ID,
		ReferentID:     out.Member.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := projectRepo.Create(project); err != nil {
		fail("création du projet : %v", err)
	}

	echeance := now.AddDate(0, 0, 14)
	taches := []*entity.Task{
		{
			ID: uuid.New().String(), OrganizationID: orgID, Ordre: 1,
			Type: entity.TaskKindTache, Titre: "Relevé de mesures sur site",
			ProjectID: project.ID, ContactID: contact.ID, AssigneeID: out.Member.ID,
			Statut: entity.StatusCodeDone, Progression: 100,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: uuid.New().String(), OrganizationID: orgID, Ordre: 2,
			Type: entity.TaskKindTache, Titre: "Valider le plan d'implantation",
			ProjectID: project.ID, AssigneeID: out.Member.ID,
			Statut: entity.StatusCodeInProgress, Progression: 50, DateEcheance: &echeance,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: uuid.New().String(), OrganizationID: orgID, Ordre: 3,
			Type: entity.TaskKindMemo, Titre: "Le client préfère un plan de travail en quartz",
			ProjectID: project.ID,
			Statut:    entity.StatusCodeNotStarted, Progression: 0,
			CreatedAt: now, UpdatedAt: now,
		},
	}
	for _, t := range taches {
		if err := taskRepo.Create(t); err != nil {
			fail("création de la tâche : %v", err)
		}
	}

	fmt.Println("données de démonstration créées")
	fmt.Println("compte : admin@demo.renovapro.fr / Demo1234!")
}

func mustOrgID(members interface {
	GetByEmail(email string) (*entity.Member, error)
}, memberID string) string {
	m, err := members.GetByEmail("admin@demo.renovapro.fr")
	if err != nil || m == nil || m.ID != memberID {
		fail("relecture du compte admin de démonstration")
	}
	return m.OrganizationID
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
