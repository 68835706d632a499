package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovapro/crm-api/internal/application/dto"
	"github.com/renovapro/crm-api/internal/application/usecase"
	"github.com/renovapro/crm-api/internal/domain"
	"github.com/renovapro/crm-api/internal/domain/entity"
	"github.com/renovapro/crm-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en mémoire
// ──────────────────────────────────────────────────────────────────────────────

const orgA = "org-a"
const orgB = "org-b"

type fakeTaskRepo struct {
	tasks map[string]*entity.Task

	// vanishOnPatch simule une suppression concurrente : la ligne existe à la
	// lecture mais a disparu au moment de l'écriture.
	vanishOnPatch bool
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*entity.Task)}
}

func (r *fakeTaskRepo) Create(t *entity.Task) error {
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) GetByID(organizationID, id string) (*entity.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.OrganizationID != organizationID || t.DeletedAt != nil {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) ListByOrganization(organizationID string, filter repository.TaskFilter) ([]*entity.Task, error) {
	var list []*entity.Task
	for _, t := range r.tasks {
		if t.OrganizationID != organizationID || t.DeletedAt != nil {
			continue
		}
		if filter.ProjectID != "" && t.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		cp := *t
		list = append(list, &cp)
	}
	return list, nil
}

func (r *fakeTaskRepo) Patch(organizationID, id string, patch entity.TaskPatch) (*entity.Task, error) {
	if r.vanishOnPatch {
		return nil, nil
	}
	t, ok := r.tasks[id]
	if !ok || t.OrganizationID != organizationID || t.DeletedAt != nil {
		return nil, nil
	}
	if patch.Titre != nil {
		t.Titre = *patch.Titre
	}
	if patch.Statut != nil {
		t.Statut = *patch.Statut
	}
	if patch.Progression != nil {
		t.Progression = *patch.Progression
	}
	if patch.Note != nil {
		t.Note = *patch.Note
	}
	if patch.Ordre != nil {
		t.Ordre = *patch.Ordre
	}
	if patch.AssigneeID != nil {
		t.AssigneeID = *patch.AssigneeID
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) SoftDelete(organizationID, id string) error {
	if t, ok := r.tasks[id]; ok && t.OrganizationID == organizationID {
		now := t.UpdatedAt
		t.DeletedAt = &now
	}
	return nil
}

type fakeMemberRepo struct {
	members map[string]*entity.Member
}

func newFakeMemberRepo(members ...*entity.Member) *fakeMemberRepo {
	r := &fakeMemberRepo{members: make(map[string]*entity.Member)}
	for _, m := range members {
		r.members[m.ID] = m
	}
	return r
}

func (r *fakeMemberRepo) Create(m *entity.Member) error {
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
	m, ok := r.members[id]
	if !ok || m.OrganizationID != organizationID {
		return nil, nil
	}
	return m, nil
}

func (r *fakeMemberRepo) SoftDelete(organizationID, id string) error {
	delete(r.members, id)
	return nil
}

// capturePublisher enregistre les événements publiés.
type capturePublisher struct {
	events []domain.ChangeEvent
}

func (p *capturePublisher) Publish(evt domain.ChangeEvent) {
	p.events = append(p.events, evt)
}

func newTaskUC() (*usecase.TaskUseCase, *fakeTaskRepo, *capturePublisher) {
	tasks := newFakeTaskRepo()
	members := newFakeMemberRepo(&entity.Member{
		ID:             "salarie-1",
		OrganizationID: orgA,
		Prenom:         "Claire",
		Nom:            "Dumont",
		Email:          "claire@example.fr",
	})
	events := &capturePublisher{}
	return usecase.NewTaskUseCase(tasks, members, events), tasks, events
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// Cas 1 : la réponse de création est enrichie du nom du salarié affecté,
// plus riche que la ligne insérée.
func TestTaskCreate_ResoutLeNomDuSalarie(t *testing.T) {
	uc, _, events := newTaskUC()

	out, err := uc.Create(orgA, dto.CreateTaskRequest{
		Titre:      "Relevé de mesures",
		IDAffecteA: "salarie-1",
		Statut:     entity.StatusLabelInProgress,
	})
	require.NoError(t, err)
	require.NotNil(t, out.SalarieName)
	assert.Equal(t, "Claire Dumont", *out.SalarieName)
	assert.Equal(t, entity.StatusLabelInProgress, out.Statut)
	assert.Equal(t, 1, out.Stage)

	require.Len(t, events.events, 1)
	assert.Equal(t, domain.EventInsert, events.events[0].Type)
	assert.Equal(t, "taches", events.events[0].Table)
	assert.Equal(t, orgA, events.events[0].OrganizationID)
}

// Cas 2 : un salarié affecté inconnu laisse salarie_name nul, sans erreur.
func TestTaskCreate_SalarieInconnuLaisseNomNul(t *testing.T) {
	uc, _, _ := newTaskUC()

	out, err := uc.Create(orgA, dto.CreateTaskRequest{
		Titre:      "Commander les façades",
		IDAffecteA: "salarie-fantome",
	})
	require.NoError(t, err)
	assert.Nil(t, out.SalarieName)
}

// Cas 3 : un libellé de statut inconnu retombe sur « Non commencé » et la
// progression est forcée à 0.
func TestTaskCreate_StatutInconnuRetombeSurDefaut(t *testing.T) {
	uc, _, _ := newTaskUC()

	p := 60
	out, err := uc.Create(orgA, dto.CreateTaskRequest{
		Titre:       "Mémo chantier",
		Type:        entity.TaskKindMemo,
		Statut:      "En attente",
		Progression: &p,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusLabelNotStarted, out.Statut)
	assert.Equal(t, 0, out.Stage)
	assert.Equal(t, 0, out.Progression)
}

// Cas 4 : titre vide ou type inconnu → refus.
func TestTaskCreate_EntreesInvalides(t *testing.T) {
	uc, _, _ := newTaskUC()

	_, err := uc.Create(orgA, dto.CreateTaskRequest{Titre: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(orgA, dto.CreateTaskRequest{Titre: "x", Type: "Rappel"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad := "03/01/2025"
	_, err = uc.Create(orgA, dto.CreateTaskRequest{Titre: "x", DateEcheance: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus / UpdateStage
// ──────────────────────────────────────────────────────────────────────────────

// Cas 5 : passage en « Terminé » depuis la vue liste force la progression à 100.
func TestTaskUpdateStatus_TermineForceProgression(t *testing.T) {
	uc, _, events := newTaskUC()
	out, err := uc.Create(orgA, dto.CreateTaskRequest{Titre: "Pose du plan de travail"})
	require.NoError(t, err)

	updated, err := uc.UpdateStatus(orgA, out.ID, dto.UpdateTaskStatusRequest{Statut: entity.StatusLabelDone})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusLabelDone, updated.Statut)
	assert.Equal(t, 2, updated.Stage)
	assert.Equal(t, 100, updated.Progression)

	last := events.events[len(events.events)-1]
	assert.Equal(t, domain.EventUpdate, last.Type)
	assert.NotNil(t, last.Old, "l'événement de mise à jour porte l'ancienne version")
}

// Cas 6 : glisser la carte en colonne « En cours » garde la progression courante.
func TestTaskUpdateStage_EnCoursGardeProgression(t *testing.T) {
	uc, _, _ := newTaskUC()
	p := 45
	out, err := uc.Create(orgA, dto.CreateTaskRequest{
		Titre:       "Plomberie",
		Statut:      entity.StatusLabelInProgress,
		Progression: &p,
	})
	require.NoError(t, err)
	require.Equal(t, 45, out.Progression)

	updated, err := uc.UpdateStage(orgA, out.ID, dto.UpdateTaskStageRequest{Stage: 1})
	require.NoError(t, err)
	assert.Equal(t, 45, updated.Progression, "la colonne En cours n'écrase pas la progression")

	// Retour en colonne 0 : progression remise à 0.
	updated, err = uc.UpdateStage(orgA, out.ID, dto.UpdateTaskStageRequest{Stage: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Progression)
}

// Cas 7 : un stage hors 0–2 est refusé avant toute lecture.
func TestTaskUpdateStage_StageInvalide(t *testing.T) {
	uc, _, _ := newTaskUC()
	_, err := uc.UpdateStage(orgA, "peu-importe", dto.UpdateTaskStageRequest{Stage: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cloisonnement et suppression
// ──────────────────────────────────────────────────────────────────────────────

// Cas 8 : une tâche d'une organisation est invisible depuis une autre.
func TestTask_CloisonnementParOrganisation(t *testing.T) {
	uc, _, _ := newTaskUC()
	out, err := uc.Create(orgA, dto.CreateTaskRequest{Titre: "Tâche privée"})
	require.NoError(t, err)

	_, err = uc.UpdateStatus(orgB, out.ID, dto.UpdateTaskStatusRequest{Statut: entity.StatusLabelDone})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(orgB, repository.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

// Cas 9 : après Delete la tâche disparaît des listings et l'événement de
// suppression porte l'ancienne version.
func TestTaskDelete_DisparaitDesListings(t *testing.T) {
	uc, _, events := newTaskUC()
	out, err := uc.Create(orgA, dto.CreateTaskRequest{Titre: "À supprimer"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(orgA, out.ID))

	list, err := uc.List(orgA, repository.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	last := events.events[len(events.events)-1]
	assert.Equal(t, domain.EventDelete, last.Type)
	assert.NotNil(t, last.Old)

	// Une seconde suppression échoue proprement.
	assert.ErrorIs(t, uc.Delete(orgA, out.ID), domain.ErrNotFound)
}

// Cas 10 : la tâche peut être supprimée entre la lecture d'existence et
// l'écriture du patch ; le cas remonte en « non trouvée », jamais en panique.
func TestTaskUpdate_SupprimeePendantEcriture(t *testing.T) {
	uc, repo, _ := newTaskUC()
	out, err := uc.Create(orgA, dto.CreateTaskRequest{Titre: "Course contre la montre"})
	require.NoError(t, err)

	repo.vanishOnPatch = true

	_, err = uc.UpdateStatus(orgA, out.ID, dto.UpdateTaskStatusRequest{Statut: entity.StatusLabelDone})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.UpdateStage(orgA, out.ID, dto.UpdateTaskStageRequest{Stage: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	titre := "Nouveau titre"
	_, err = uc.Update(orgA, out.ID, dto.UpdateTaskRequest{Titre: &titre})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Cas 11 : List résout les noms de salariés en une passe.
func TestTaskList_ResolutionDesNoms(t *testing.T) {
	uc, _, _ := newTaskUC()
	_, err := uc.Create(orgA, dto.CreateTaskRequest{Titre: "Affectée", IDAffecteA: "salarie-1"})
	require.NoError(t, err)
	_, err = uc.Create(orgA, dto.CreateTaskRequest{Titre: "Libre"})
	require.NoError(t, err)

	list, err := uc.List(orgA, repository.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	for _, item := range list.Items {
		if item.IDAffecteA == "salarie-1" {
			require.NotNil(t, item.SalarieName)
			assert.Equal(t, "Claire Dumont", *item.SalarieName)
		} else {
			assert.Nil(t, item.SalarieName)
		}
	}
}
