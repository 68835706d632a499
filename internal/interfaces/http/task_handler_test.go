package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovapro/crm-api/internal/application/dto"
	"github.com/renovapro/crm-api/internal/application/usecase"
	"github.com/renovapro/crm-api/internal/domain/entity"
	"github.com/renovapro/crm-api/internal/domain/repository"
	apphttp "github.com/renovapro/crm-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en mémoire
// ──────────────────────────────────────────────────────────────────────────────

type memTaskRepo struct {
	tasks map[string]*entity.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[string]*entity.Task)}
}

func (r *memTaskRepo) Create(t *entity.Task) error {
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *memTaskRepo) GetByID(organizationID, id string) (*entity.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.OrganizationID != organizationID || t.DeletedAt != nil {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *memTaskRepo) ListByOrganization(organizationID string, filter repository.TaskFilter) ([]*entity.Task, error) {
	var list []*entity.Task
	for _, t := range r.tasks {
		if t.OrganizationID == organizationID && t.DeletedAt == nil {
			cp := *t
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *memTaskRepo) Patch(organizationID, id string, patch entity.TaskPatch) (*entity.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.OrganizationID != organizationID || t.DeletedAt != nil {
		return nil, nil
	}
	if patch.Statut != nil {
		t.Statut = *patch.Statut
	}
	if patch.Progression != nil {
		t.Progression = *patch.Progression
	}
	if patch.Titre != nil {
		t.Titre = *patch.Titre
	}
	cp := *t
	return &cp, nil
}

func (r *memTaskRepo) SoftDelete(organizationID, id string) error {
	if t, ok := r.tasks[id]; ok && t.OrganizationID == organizationID {
		now := t.UpdatedAt
		t.DeletedAt = &now
	}
	return nil
}

// stubMembers suffit au handler : aucune tâche de ces tests n'a d'affecté.
type stubMembers struct{}

func (stubMembers) Create(*entity.Member) error { return nil }
func (stubMembers) GetByID(string, string) (*entity.Member, error) {
	return nil, nil
}
func (stubMembers) GetByEmail(string) (*entity.Member, error) { return nil, nil }
func (stubMembers) ListByOrganization(string) ([]*entity.Member, error) {
	return nil, nil
}
func (stubMembers) Patch(string, string, entity.MemberPatch) (*entity.Member, error) {
	return nil, nil
}
func (stubMembers) SoftDelete(string, string) error { return nil }

func buildTaskTestApp(repo repository.TaskRepository) *fiber.App {
	uc := usecase.NewTaskUseCase(repo, stubMembers{}, nil)
	h := apphttp.NewTaskHandler(uc)
	app := fiber.New()
	taches := app.Group("/api/taches", apphttp.AuthMiddleware(testJWTSecret))
	taches.Post("/", h.Create)
	taches.Get("/", h.List)
	taches.Put("/:id", h.Update)
	taches.Put("/:id/statut", h.UpdateStatus)
	taches.Put("/:id/stage", h.UpdateStage)
	taches.Delete("/:id", h.Delete)
	return app
}

// doJSON envoie une requête authentifiée avec un corps JSON facultatif.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "commercial"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Mapping des erreurs métier vers les codes HTTP
// ──────────────────────────────────────────────────────────────────────────────

// Cas 1 : changer le statut d'une tâche inexistante → 404, pas 500.
func TestTaskHandler_StatutTacheInexistanteRenvoie404(t *testing.T) {
	app := buildTaskTestApp(newMemTaskRepo())

	resp := doJSON(t, app, http.MethodPut, "/api/taches/inexistante/statut",
		fiber.Map{"statut": entity.StatusLabelDone})
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
}

// Cas 2 : mise à jour et suppression d'une tâche inexistante → 404 aussi.
func TestTaskHandler_UpdateEtDeleteInexistanteRenvoient404(t *testing.T) {
	app := buildTaskTestApp(newMemTaskRepo())

	resp := doJSON(t, app, http.MethodPut, "/api/taches/inexistante",
		fiber.Map{"titre": "Nouveau titre"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/api/taches/inexistante/stage",
		fiber.Map{"stage": 1})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/taches/inexistante", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// Cas 3 : entrées invalides → 400 VALIDATION (stage hors bornes, type inconnu,
// date d'échéance mal formée).
func TestTaskHandler_EntreesInvalidesRenvoient400(t *testing.T) {
	app := buildTaskTestApp(newMemTaskRepo())

	resp := doJSON(t, app, http.MethodPut, "/api/taches/peu-importe/stage",
		fiber.Map{"stage": 5})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/taches/",
		fiber.Map{"titre": "x", "type": "Rappel"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/taches/",
		fiber.Map{"titre": "x", "date_echeance": "03/01/2025"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// Cas 4 : parcours nominal — création 201 puis passage en « Terminé » 200 avec
// progression forcée à 100.
func TestTaskHandler_ParcoursNominal(t *testing.T) {
	app := buildTaskTestApp(newMemTaskRepo())

	resp := doJSON(t, app, http.MethodPost, "/api/taches/",
		fiber.Map{"titre": "Pose du plan de travail"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created dto.TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	resp2 := doJSON(t, app, http.MethodPut, "/api/taches/"+created.ID+"/statut",
		fiber.Map{"statut": entity.StatusLabelDone})
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var updated dto.TaskResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&updated))
	assert.Equal(t, entity.StatusLabelDone, updated.Statut)
	assert.Equal(t, 100, updated.Progression)
}
