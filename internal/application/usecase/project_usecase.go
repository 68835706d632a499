package usecase

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/renovapro/crm-api/internal/application/dto"
	"github.com/renovapro/crm-api/internal/domain"
	"github.com/renovapro/crm-api/internal/domain/entity"
	"github.com/renovapro/crm-api/internal/domain/repository"
	"github.com/renovapro/crm-api/pkg/debounce"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// autosaveKeySep sépare organisation, projet et champ dans la clé de debounce.
const autosaveKeySep = "\x00"

// ProjectUseCase cas d'usage des projets : CRUD, fiche détail avec jointures,
// autosave debouncé des sous-formulaires decouverte/cuisine.
type ProjectUseCase struct {
	projects repository.ProjectRepository
	events   domain.EventPublisher
	autosave *debounce.Group[json.RawMessage]
}

// NewProjectUseCase construit le cas d'usage. autosaveDelay est la période de
// silence avant écriture d'un sous-formulaire (une clé par projet+champ :
// l'édition de decouverte n'annule jamais celle de cuisine).
func NewProjectUseCase(projects repository.ProjectRepository, events domain.EventPublisher, autosaveDelay time.Duration) *ProjectUseCase {
	if events == nil {
		events = domain.NopPublisher{}
	}
	uc := &ProjectUseCase{projects: projects, events: events}
	uc.autosave = debounce.NewGroup(autosaveDelay, uc.flushBlob)
	return uc
}

// Create crée un projet au statut non commencé.
func (uc *ProjectUseCase) Create(organizationID string, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if in.Nom == "" {
		return nil, domain.ErrInvalidInput
	}
	budget := decimal.Zero
	if in.Budget != nil {
		budget = *in.Budget
	}
	now := time.Now()
	project := &entity.Project{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Nom:            in.Nom,
		Statut:         entity.StatusCodeNotStarted,
		Progression:    0,
		Budget:         budget,
		ContactID:      in.IDContact,
		ReferentID:     in.IDReferent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.projects.Create(project); err != nil {
		return nil, err
	}
	resp := projectToResponse(project)
	uc.events.Publish(domain.ChangeEvent{
		Type:           domain.EventInsert,
		Table:          "projets",
		OrganizationID: organizationID,
		New:            resp,
	})
	return resp, nil
}

// List liste les projets de l'organisation avec pagination.
func (uc *ProjectUseCase) List(organizationID string, page dto.PageRequest) (*dto.ProjectListResponse, error) {
	page.DefaultPage()
	list, err := uc.projects.ListByOrganization(organizationID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *projectToResponse(p))
	}
	return &dto.ProjectListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Get charge la fiche détail : projet, blobs et jointures contact/référent.
func (uc *ProjectUseCase) Get(organizationID, id string) (*dto.ProjectDetailsResponse, error) {
	details, err := uc.projects.GetDetails(organizationID, id)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, domain.ErrNotFound
	}
	resp := &dto.ProjectDetailsResponse{
		ProjectResponse: *projectToResponse(&details.Project),
		Decouverte:      details.Project.Decouverte,
		Cuisine:         details.Project.Cuisine,
	}
	if details.Contact != nil {
		resp.Contact = contactToResponse(details.Contact)
	}
	if details.Referent != nil {
		resp.Referent = memberToResponse(details.Referent)
	}
	return resp, nil
}

// Update applique une mise à jour partielle ; si le statut change, la règle
// statut/progression s'applique comme pour les tâches.
func (uc *ProjectUseCase) Update(organizationID, id string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	current, err := uc.projects.GetByID(organizationID, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	patch := entity.ProjectPatch{
		Nom:        in.Nom,
		Budget:     in.Budget,
		ContactID:  in.IDContact,
		ReferentID: in.IDReferent,
	}
	if in.Statut != nil {
		code := entity.StatusToCode(*in.Statut)
		patch.Statut = &code
		progression := current.Progression
		if in.Progression != nil {
			progression = clampProgression(*in.Progression)
		}
		progression = entity.ProgressionForStage(entity.StageFromCode(code), progression)
		patch.Progression = &progression
	} else if in.Progression != nil {
		p := clampProgression(*in.Progression)
		patch.Progression = &p
	}
	patched, err := uc.projects.Patch(organizationID, id, patch)
	if err != nil {
		return nil, err
	}
	if patched == nil {
		// Supprimé entre la lecture et l'écriture.
		return nil, domain.ErrNotFound
	}
	resp := projectToResponse(patched)
	uc.events.Publish(domain.ChangeEvent{
		Type:           domain.EventUpdate,
		Table:          "projets",
		OrganizationID: organizationID,
		New:            resp,
		Old:            projectToResponse(current),
	})
	return resp, nil
}

// SaveBlob planifie l'écriture d'un sous-formulaire (decouverte ou cuisine).
// Les appels rapprochés sur le même projet+champ sont coalescés : seule la
// dernière version est écrite, après la période de silence.
func (uc *ProjectUseCase) SaveBlob(organizationID, id, field string, blob json.RawMessage) error {
	if field != entity.ProjectBlobDecouverte && field != entity.ProjectBlobCuisine {
		return domain.ErrInvalidInput
	}
	if !json.Valid(blob) {
		return domain.ErrInvalidInput
	}
	key := organizationID + autosaveKeySep + id + autosaveKeySep + field
	uc.autosave.Call(key, blob)
	return nil
}

// FlushAutosave force l'écriture des sous-formulaires en attente (arrêt propre).
func (uc *ProjectUseCase) FlushAutosave() {
	uc.autosave.Flush()
}

// flushBlob écrit la dernière version d'un sous-formulaire. Exécuté hors
// requête HTTP : l'échec est loggé, pas remonté.
func (uc *ProjectUseCase) flushBlob(key string, blob json.RawMessage) {
	parts := strings.SplitN(key, autosaveKeySep, 3)
	if len(parts) != 3 {
		return
	}
	organizationID, id, field := parts[0], parts[1], parts[2]
	if err := uc.projects.UpdateBlob(organizationID, id, field, blob); err != nil {
		log.Error().Err(err).Str("projet", id).Str("champ", field).Msg("autosave projet")
		return
	}
	uc.events.Publish(domain.ChangeEvent{
		Type:           domain.EventUpdate,
		Table:          "projets",
		OrganizationID: organizationID,
		New:            map[string]any{"id": id, field: blob},
	})
}

// Delete soft-delete du projet.
func (uc *ProjectUseCase) Delete(organizationID, id string) error {
	current, err := uc.projects.GetByID(organizationID, id)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrNotFound
	}
	if err := uc.projects.SoftDelete(organizationID, id); err != nil {
		return err
	}
	uc.events.Publish(domain.ChangeEvent{
		Type:           domain.EventDelete,
		Table:          "projets",
		OrganizationID: organizationID,
		Old:            projectToResponse(current),
	})
	return nil
}

func projectToResponse(p *entity.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:          p.ID,
		Nom:         p.Nom,
		Statut:      entity.StatusFromCode(p.Statut),
		Stage:       entity.StageFromCode(p.Statut),
		Progression: p.Progression,
		Budget:      p.Budget,
		IDContact:   p.ContactID,
		IDReferent:  p.ReferentID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
