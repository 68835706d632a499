package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/renovapro/crm-api/internal/application/auth"
	"github.com/renovapro/crm-api/internal/application/usecase"
	"github.com/renovapro/crm-api/internal/domain/entity"
)

// RouterDeps dépendances du router.
type RouterDeps struct {
	TaskUC         *usecase.TaskUseCase
	ProjectUC      *usecase.ProjectUseCase
	FicheUC        *usecase.FicheUseCase
	AppointmentUC  *usecase.AppointmentUseCase
	TeamUC         *usecase.TeamUseCase
	OrganizationUC *usecase.OrganizationUseCase
	ContactUC      *usecase.ContactUseCase
	AuthUC         *auth.AuthUseCase
	JWTSecret      string
}

// Router enregistre les routes de l'API. Tout est protégé par le middleware
// d'auth sauf /api/auth : une requête sans token valide reçoit un 401, jamais
// une réponse vide.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Routes protégées (Bearer token requis)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Tâches et mémos
	taches := protected.Group("/taches")
	taskHandler := NewTaskHandler(deps.TaskUC)
	taches.Post("/", taskHandler.Create)
	taches.Get("/", taskHandler.List)
	taches.Put("/:id", taskHandler.Update)
	taches.Put("/:id/statut", taskHandler.UpdateStatus)
	taches.Put("/:id/stage", taskHandler.UpdateStage)
	taches.Delete("/:id", taskHandler.Delete)

	// Projets, sous-formulaires autosauvegardés et fiche PDF
	projets := protected.Group("/projets")
	projectHandler := NewProjectHandler(deps.ProjectUC, deps.FicheUC)
	projets.Post("/", projectHandler.Create)
	projets.Get("/", projectHandler.List)
	projets.Get("/:id", projectHandler.Get)
	projets.Put("/:id", projectHandler.Update)
	projets.Put("/:id/decouverte", projectHandler.SaveDecouverte)
	projets.Put("/:id/cuisine", projectHandler.SaveCuisine)
	projets.Get("/:id/fiche.pdf", projectHandler.FichePDF)
	projets.Delete("/:id", projectHandler.Delete)

	// Rendez-vous (suppression définitive)
	rdv := protected.Group("/rendez-vous")
	appointmentHandler := NewAppointmentHandler(deps.AppointmentUC)
	rdv.Post("/", appointmentHandler.Create)
	rdv.Get("/", appointmentHandler.List)
	rdv.Put("/:id", appointmentHandler.Update)
	rdv.Delete("/:id", appointmentHandler.Delete)

	// Équipe et rôles (gestion réservée aux admins et managers)
	equipe := protected.Group("/equipe")
	teamHandler := NewTeamHandler(deps.TeamUC)
	equipe.Get("/", teamHandler.List)
	equipe.Get("/roles", teamHandler.ListRoles)
	manage := equipe.Group("/", RequireRole(entity.RoleAdmin, entity.RoleManager))
	manage.Post("/", teamHandler.Invite)
	manage.Put("/:id", teamHandler.Update)
	manage.Put("/:id/statut", teamHandler.UpdateStatus)

	// Profil entreprise (écriture réservée aux admins)
	organisation := protected.Group("/organisation")
	organizationHandler := NewOrganizationHandler(deps.OrganizationUC)
	organisation.Get("/", organizationHandler.Get)
	organisation.Put("/", RequireRole(entity.RoleAdmin), organizationHandler.Update)

	// Contacts et recherche
	contacts := protected.Group("/contacts")
	contactHandler := NewContactHandler(deps.ContactUC)
	contacts.Post("/", contactHandler.Create)
	contacts.Get("/", contactHandler.Search)
}
