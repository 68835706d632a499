package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/renovapro/crm-api/internal/application/dto"
	"github.com/renovapro/crm-api/internal/application/usecase"
	"github.com/renovapro/crm-api/internal/domain"
	"github.com/renovapro/crm-api/internal/domain/entity"
)

// ProjectHandler gère les requêtes HTTP des projets (protégé), y compris les
// sous-formulaires autosauvegardés et la fiche projet PDF.
type ProjectHandler struct {
	uc    *usecase.ProjectUseCase
	fiche *usecase.FicheUseCase
}

// NewProjectHandler construit le handler.
func NewProjectHandler(uc *usecase.ProjectUseCase, fiche *usecase.FicheUseCase) *ProjectHandler {
	return &ProjectHandler{uc: uc, fiche: fiche}
}

// Create crée un projet.
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProjectRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	if in.Nom == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "nom est requis"})
	}
	out, err := h.uc.Create(GetOrganizationID(c), in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List liste les projets, paginés.
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paramètres de pagination invalides"})
	}
	page.DefaultPage()
	out, err := h.uc.List(GetOrganizationID(c), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Get renvoie la fiche détaillée : projet, blobs, contact et référent.
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(GetOrganizationID(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "projet non trouvé"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Update mise à jour partielle d'un projet.
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProjectRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	out, err := h.uc.Update(GetOrganizationID(c), c.Params("id"), in)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "projet non trouvé"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// SaveDecouverte autosauvegarde du sous-formulaire découverte. Répond 202 :
// l'écriture est différée et coalescée côté serveur.
func (h *ProjectHandler) SaveDecouverte(c *fiber.Ctx) error {
	return h.saveBlob(c, entity.ProjectBlobDecouverte)
}

// SaveCuisine autosauvegarde du sous-formulaire cuisine.
func (h *ProjectHandler) SaveCuisine(c *fiber.Ctx) error {
	return h.saveBlob(c, entity.ProjectBlobCuisine)
}

func (h *ProjectHandler) saveBlob(c *fiber.Ctx, field string) error {
	var in dto.UpdateProjectBlobRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps invalide"})
	}
	if err := h.uc.SaveBlob(GetOrganizationID(c), c.Params("id"), field, in.Data); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "données JSON invalides"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// FichePDF génère et renvoie la fiche projet au format PDF.
func (h *ProjectHandler) FichePDF(c *fiber.Ctx) error {
	pdf, err := h.fiche.FichePDF(GetOrganizationID(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "projet non trouvé"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="fiche-projet.pdf"`)
	return c.Send(pdf)
}

// Delete suppression douce du projet.
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetOrganizationID(c), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "projet non trouvé"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
