package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/renovapro/crm-api/internal/application/auth"
	"github.com/renovapro/crm-api/internal/application/usecase"
	"github.com/renovapro/crm-api/internal/domain"
	infrapdf "github.com/renovapro/crm-api/internal/infrastructure/pdf"
	"github.com/renovapro/crm-api/internal/infrastructure/postgres"
	httpRouter "github.com/renovapro/crm-api/internal/interfaces/http"
	"github.com/renovapro/crm-api/internal/realtime"
	"github.com/renovapro/crm-api/pkg/config"
	"github.com/renovapro/crm-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("chargement de la configuration : " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("démarrage de l'application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connexion à PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migration du schéma")
	}

	taskRepo := postgres.NewTaskRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	appointmentRepo := postgres.NewAppointmentRepository(pool)
	organizationRepo := postgres.NewOrganizationRepository(pool)
	memberRepo := postgres.NewMemberRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Flux de changements : chaque écriture est diffusée aux clients WebSocket
	// de la même organisation. Désactivable par config (NopPublisher).
	var events domain.EventPublisher = domain.NopPublisher{}
	var hub *realtime.Hub
	if cfg.Realtime.Enabled {
		hub = realtime.NewHub(realtime.Config{
			Port:      cfg.Realtime.Port,
			JWTSecret: cfg.JWT.Secret,
		}, log.Zerolog())
		if err := hub.Start(); err != nil {
			log.Fatal().Err(err).Msg("démarrage du serveur temps réel")
		}
		events = hub
	}

	taskUC := usecase.NewTaskUseCase(taskRepo, memberRepo, events)
	projectUC := usecase.NewProjectUseCase(projectRepo, events,
		time.Duration(cfg.App.AutosaveDelayMS)*time.Millisecond)
	appointmentUC := usecase.NewAppointmentUseCase(appointmentRepo, events)
	teamUC := usecase.NewTeamUseCase(memberRepo, roleRepo, events)
	organizationUC := usecase.NewOrganizationUseCase(organizationRepo, events)
	contactUC := usecase.NewContactUseCase(contactRepo, events)

	pdfGenerator := infrapdf.NewMarotoFicheGenerator()
	ficheUC := usecase.NewFicheUseCase(projectRepo, organizationRepo, taskRepo, pdfGenerator)

	authUC := auth.NewAuthUseCase(memberRepo, organizationRepo, roleRepo, txRunner, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		TaskUC:         taskUC,
		ProjectUC:      projectUC,
		FicheUC:        ficheUC,
		AppointmentUC:  appointmentUC,
		TeamUC:         teamUC,
		OrganizationUC: organizationUC,
		ContactUC:      contactUC,
		AuthUC:         authUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("serveur HTTP arrêté")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("signal d'arrêt reçu, fermeture du serveur...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("arrêt du serveur HTTP")
	}

	// Écrire les sous-formulaires en attente avant de couper la connexion DB.
	projectUC.FlushAutosave()

	if hub != nil {
		if err := hub.Stop(); err != nil {
			log.Error().Err(err).Msg("arrêt du serveur temps réel")
		}
	}

	log.Info().Msg("application arrêtée")
}
