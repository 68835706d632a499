package usecase

import (
	"github.com/renovapro/crm-api/internal/domain"
	"github.com/renovapro/crm-api/internal/domain/entity"
	"github.com/renovapro/crm-api/internal/domain/repository"
)

// FichePDFGenerator port de génération de la fiche projet PDF.
type FichePDFGenerator interface {
	GenerateFichePDF(org *entity.Organization, details *entity.ProjectDetails, taches []*entity.Task) ([]byte, error)
}

// FicheUseCase assemble les données d'une fiche projet (projet, contact,
// référent, tâches rattachées) et délègue le rendu PDF.
type FicheUseCase struct {
	projects      repository.ProjectRepository
	organizations repository.OrganizationRepository
	tasks         repository.TaskRepository
	generator     FichePDFGenerator
}

// NewFicheUseCase construit le cas d'usage.
func NewFicheUseCase(
	projects repository.ProjectRepository,
	organizations repository.OrganizationRepository,
	tasks repository.TaskRepository,
	generator FichePDFGenerator,
) *FicheUseCase {
	return &FicheUseCase{projects: projects, organizations: organizations, tasks: tasks, generator: generator}
}

// FichePDF génère la fiche projet au format PDF.
func (uc *FicheUseCase) FichePDF(organizationID, projectID string) ([]byte, error) {
	details, err := uc.projects.GetDetails(organizationID, projectID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, domain.ErrNotFound
	}
	org, err := uc.organizations.GetByID(organizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrOrganizationNotFound
	}
	taches, err := uc.tasks.ListByOrganization(organizationID, repository.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateFichePDF(org, details, taches)
}
