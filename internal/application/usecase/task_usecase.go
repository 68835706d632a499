package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/renovapro/crm-api/internal/application/dto"
	"github.com/renovapro/crm-api/internal/domain"
	"github.com/renovapro/crm-api/internal/domain/entity"
	"github.com/renovapro/crm-api/internal/domain/repository"
)

// dateLayout format des dates d'échéance sur le fil (colonne date, pas timestamp).
const dateLayout = "2006-01-02"

// TaskUseCase cas d'usage des tâches et mémos : création enrichie, changement
// de statut (vue liste) et de colonne (vue kanban), mise à jour partielle,
// soft delete. Chaque écriture publie un événement de changement après succès.
type TaskUseCase struct {
	tasks   repository.TaskRepository
	members repository.MemberRepository
	events  domain.EventPublisher
}

// NewTaskUseCase construit le cas d'usage.
func NewTaskUseCase(tasks repository.TaskRepository, members repository.MemberRepository, events domain.EventPublisher) *TaskUseCase {
	if events == nil {
		events = domain.NopPublisher{}
	}
	return &TaskUseCase{tasks: tasks, members: members, events: events}
}

// Create crée une tâche puis résout le nom du salarié affecté avant de
// renvoyer la réponse : l'élément renvoyé est plus riche que la ligne insérée.
// La règle statut/progression s'applique au statut fourni : "Terminé" force
// 100, "Non commencé" force 0, "En cours" garde la progression fournie.
func (uc *TaskUseCase) Create(organizationID string, in dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if in.Titre == "" {
		return nil, domain.ErrInvalidInput
	}
	kind := in.Type
	if kind == "" {
		kind = entity.TaskKindTache
	}
	if kind != entity.TaskKindTache && kind != entity.TaskKindMemo {
		return nil, domain.ErrInvalidInput
	}

	code := entity.StatusToCode(in.Statut)
	progression := 0
	if in.Progression != nil {
		progression = clampProgression(*in.Progression)
	}
	progression = entity.ProgressionForStage(entity.StageFromCode(code), progression)

	due, err := parseDate(in.DateEcheance)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	ordre := 0
	if in.Ordre != nil {
		ordre = *in.Ordre
	}

	now := time.Now()
	task := &entity.Task{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Ordre:          ordre,
		Type:           kind,
		Titre:          in.Titre,
		Tag:            in.Tag,
		ProjectID:      in.IDProjet,
		ContactID:      in.IDContact,
		AssigneeID:     in.IDAffecteA,
		Statut:         code,
		Progression:    progression,
		DateEcheance:   due,
		Note:           in.Note,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.tasks.Create(task); err != nil {
		return nil, err
	}

	resp := uc.toResponse(task)
	uc.events.Publish(domain.ChangeEvent{
		Type:           domain.EventInsert,
		Table:          "taches",
		OrganizationID: organizationID,
		New:            resp,
	})
	return resp, nil
}

// List liste les tâches de l'organisation, filtrables par projet et par type,
// triées par ordre kanban. Les noms de salariés sont résolus en une passe.
func (uc *TaskUseCase) List(organizationID string, filter repository.TaskFilter) (*dto.TaskListResponse, error) {
	list, err := uc.tasks.ListByOrganization(organizationID, filter)
	if err != nil {
		return nil, err
	}

	names := uc.memberNames(organizationID, list)
	items := make([]dto.TaskResponse, 0, len(list))
	for _, t := range list {
		r := taskToResponse(t, nil)
		if t.AssigneeID != "" {
			if name, ok := names[t.AssigneeID]; ok {
				r.SalarieName = &name
			}
		}
		items = append(items, *r)
	}
	return &dto.TaskListResponse{Items: items}, nil
}

// UpdateStatus change le statut par libellé (vue liste) et applique la règle
// statut/progression. Seuls statut et progression sont envoyés en base.
func (uc *TaskUseCase) UpdateStatus(organizationID, id string, in dto.UpdateTaskStatusRequest) (*dto.TaskResponse, error) {
	code := entity.StatusToCode(in.Statut)
	return uc.applyStatus(organizationID, id, code)
}

// UpdateStage change la colonne kanban (0, 1 ou 2) et applique la même règle.
func (uc *TaskUseCase) UpdateStage(organizationID, id string, in dto.UpdateTaskStageRequest) (*dto.TaskResponse, error) {
	if in.Stage < 0 || in.Stage > 2 {
		return nil, domain.ErrInvalidInput
	}
	code := entity.CodeFromStage(in.Stage)
	return uc.applyStatus(organizationID, id, code)
}

func (uc *TaskUseCase) applyStatus(organizationID, id, code string) (*dto.TaskResponse, error) {
	current, err := uc.tasks.GetByID(organizationID, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	stage := entity.StageFromCode(code)
	progression := entity.ProgressionForStage(stage, current.Progression)
	patched, err := uc.tasks.Patch(organizationID, id, entity.TaskPatch{
		Statut:      &code,
		Progression: &progression,
	})
	if err != nil {
		return nil, err
	}
	if patched == nil {
		// Supprimée entre la lecture et l'écriture.
		return nil, domain.ErrNotFound
	}
	resp := uc.toResponse(patched)
	uc.events.Publish(domain.ChangeEvent{
		Type:           domain.EventUpdate,
		Table:          "taches",
		OrganizationID: organizationID,
		New:            resp,
		Old:            taskToResponse(current, nil),
	})
	return resp, nil
}

// Update applique une mise à jour partielle : seuls les champs présents dans
// la requête sont écrits en base.
func (uc *TaskUseCase) Update(organizationID, id string, in dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	patch := entity.TaskPatch{
		Titre:       in.Titre,
		Tag:         in.Tag,
		ProjectID:   in.IDProjet,
		ContactID:   in.IDContact,
		AssigneeID:  in.IDAffecteA,
		Note:        in.Note,
		Ordre:       in.Ordre,
		Progression: in.Progression,
	}
	if in.Progression != nil {
		p := clampProgression(*in.Progression)
		patch.Progression = &p
	}
	if in.DateEcheance != nil {
		due, err := parseDate(in.DateEcheance)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		patch.DateEcheance = due
	}
	current, err := uc.tasks.GetByID(organizationID, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	patched, err := uc.tasks.Patch(organizationID, id, patch)
	if err != nil {
		return nil, err
	}
	if patched == nil {
		return nil, domain.ErrNotFound
	}
	resp := uc.toResponse(patched)
	uc.events.Publish(domain.ChangeEvent{
		Type:           domain.EventUpdate,
		Table:          "taches",
		OrganizationID: organizationID,
		New:            resp,
		Old:            taskToResponse(current, nil),
	})
	return resp, nil
}

// Delete soft-delete : la ligne disparaît des listings dès le retour.
func (uc *TaskUseCase) Delete(organizationID, id string) error {
	current, err := uc.tasks.GetByID(organizationID, id)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrNotFound
	}
	if err := uc.tasks.SoftDelete(organizationID, id); err != nil {
		return err
	}
	uc.events.Publish(domain.ChangeEvent{
		Type:           domain.EventDelete,
		Table:          "taches",
		OrganizationID: organizationID,
		Old:            taskToResponse(current, nil),
	})
	return nil
}

// toResponse construit la réponse en résolvant le nom du salarié affecté.
func (uc *TaskUseCase) toResponse(t *entity.Task) *dto.TaskResponse {
	var name *string
	if t.AssigneeID != "" {
		if member, err := uc.members.GetByID(t.OrganizationID, t.AssigneeID); err == nil && member != nil {
			n := member.DisplayName()
			name = &n
		}
	}
	return taskToResponse(t, name)
}

// memberNames résout en une requête les noms des salariés affectés d'un listing.
func (uc *TaskUseCase) memberNames(organizationID string, list []*entity.Task) map[string]string {
	needed := false
	for _, t := range list {
		if t.AssigneeID != "" {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}
	members, err := uc.members.ListByOrganization(organizationID)
	if err != nil {
		return nil
	}
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.DisplayName()
	}
	return names
}

func taskToResponse(t *entity.Task, salarieName *string) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:           t.ID,
		Type:         t.Type,
		Titre:        t.Titre,
		Tag:          t.Tag,
		IDProjet:     t.ProjectID,
		IDContact:    t.ContactID,
		IDAffecteA:   t.AssigneeID,
		SalarieName:  salarieName,
		Statut:       entity.StatusFromCode(t.Statut),
		Stage:        entity.StageFromCode(t.Statut),
		Progression:  t.Progression,
		DateEcheance: formatDate(t.DateEcheance),
		Note:         t.Note,
		Ordre:        t.Ordre,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formatDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(dateLayout)
	return &s
}

func clampProgression(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
