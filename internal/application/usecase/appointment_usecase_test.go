package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovapro/crm-api/internal/application/dto"
	"github.com/renovapro/crm-api/internal/application/usecase"
	"github.com/renovapro/crm-api/internal/domain"
	"github.com/renovapro/crm-api/internal/domain/entity"
)

// fakeAppointmentRepo garde les rendez-vous en mémoire ; Delete retire la
// ligne définitivement, comme l'adaptateur SQL.
type fakeAppointmentRepo struct {
	appointments map[string]*entity.Appointment

	// vanishOnPatch simule une suppression concurrente entre lecture et écriture.
	vanishOnPatch bool
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[string]*entity.Appointment)}
}

func (r *fakeAppointmentRepo) Create(a *entity.Appointment) error {
	cp := *a
	r.appointments[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) GetByID(organizationID, id string) (*entity.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok || a.OrganizationID != organizationID {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAppointmentRepo) ListByOrganization(organizationID string, from, to time.Time) ([]*entity.Appointment, error) {
	var list []*entity.Appointment
	for _, a := range r.appointments {
		if a.OrganizationID != organizationID {
			continue
		}
		if !from.IsZero() && a.DateFin.Before(from) {
			continue
		}
		if !to.IsZero() && a.DateDebut.After(to) {
			continue
		}
		cp := *a
		list = append(list, &cp)
	}
	return list, nil
}

func (r *fakeAppointmentRepo) Patch(organizationID, id string, patch entity.AppointmentPatch) (*entity.Appointment, error) {
	if r.vanishOnPatch {
		return nil, nil
	}
	a, ok := r.appointments[id]
	if !ok || a.OrganizationID != organizationID {
		return nil, nil
	}
	if patch.Titre != nil {
		a.Titre = *patch.Titre
	}
	if patch.DateDebut != nil {
		a.DateDebut = *patch.DateDebut
	}
	if patch.DateFin != nil {
		a.DateFin = *patch.DateFin
	}
	if patch.Lieu != nil {
		a.Lieu = *patch.Lieu
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAppointmentRepo) Delete(organizationID, id string) error {
	if a, ok := r.appointments[id]; ok && a.OrganizationID == organizationID {
		delete(r.appointments, id)
	}
	return nil
}

func newAppointmentUC() (*usecase.AppointmentUseCase, *fakeAppointmentRepo, *capturePublisher) {
	repo := newFakeAppointmentRepo()
	events := &capturePublisher{}
	return usecase.NewAppointmentUseCase(repo, events), repo, events
}

func createRDV(t *testing.T, uc *usecase.AppointmentUseCase) *dto.AppointmentResponse {
	t.Helper()
	debut := time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC)
	out, err := uc.Create(orgA, dto.CreateAppointmentRequest{
		Titre:     "Visite technique",
		DateDebut: debut,
		DateFin:   debut.Add(2 * time.Hour),
		Lieu:      "12 rue des Lilas, Rennes",
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Update
// ──────────────────────────────────────────────────────────────────────────────

// Cas 1 : une fin avant le début est refusée à la création.
func TestAppointmentCreate_FinAvantDebutRefusee(t *testing.T) {
	uc, _, _ := newAppointmentUC()

	debut := time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC)
	_, err := uc.Create(orgA, dto.CreateAppointmentRequest{
		Titre:     "Visite",
		DateDebut: debut,
		DateFin:   debut.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Cas 2 : la règle fin >= début s'applique aux dates fusionnées — une mise à
// jour partielle ne peut pas faire passer date_fin avant le date_debut existant,
// ni repousser date_debut après la date_fin existante.
func TestAppointmentUpdate_DatesFusionneesValidees(t *testing.T) {
	uc, _, _ := newAppointmentUC()
	out := createRDV(t, uc)

	finAvant := out.DateDebut.Add(-time.Hour)
	_, err := uc.Update(orgA, out.ID, dto.UpdateAppointmentRequest{DateFin: &finAvant})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	debutApres := out.DateFin.Add(time.Hour)
	_, err = uc.Update(orgA, out.ID, dto.UpdateAppointmentRequest{DateDebut: &debutApres})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Déplacer les deux bornes ensemble reste accepté.
	debut := out.DateDebut.Add(24 * time.Hour)
	fin := out.DateFin.Add(24 * time.Hour)
	updated, err := uc.Update(orgA, out.ID, dto.UpdateAppointmentRequest{DateDebut: &debut, DateFin: &fin})
	require.NoError(t, err)
	assert.Equal(t, debut, updated.DateDebut)
	assert.Equal(t, fin, updated.DateFin)
}

// Cas 3 : le rendez-vous peut être supprimé entre la lecture d'existence et
// l'écriture du patch ; le cas remonte en « non trouvé », jamais en panique.
func TestAppointmentUpdate_SupprimePendantEcriture(t *testing.T) {
	uc, repo, _ := newAppointmentUC()
	out := createRDV(t, uc)

	repo.vanishOnPatch = true
	lieu := "Showroom"
	_, err := uc.Update(orgA, out.ID, dto.UpdateAppointmentRequest{Lieu: &lieu})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

// Cas 4 : la suppression est définitive, l'événement porte l'ancienne version,
// et une seconde suppression échoue proprement.
func TestAppointmentDelete_Definitive(t *testing.T) {
	uc, repo, events := newAppointmentUC()
	out := createRDV(t, uc)

	require.NoError(t, uc.Delete(orgA, out.ID))
	assert.NotContains(t, repo.appointments, out.ID, "la ligne est retirée, pas marquée supprimée")

	last := events.events[len(events.events)-1]
	assert.Equal(t, domain.EventDelete, last.Type)
	assert.Equal(t, "rendez_vous", last.Table)
	assert.NotNil(t, last.Old)

	assert.ErrorIs(t, uc.Delete(orgA, out.ID), domain.ErrNotFound)
}
