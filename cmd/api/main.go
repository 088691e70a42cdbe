package main

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/usecase"
	"github.com/xavierca1/ligue-crm/pkg/logger"
)

func main() {
	godotenv.Load()
	log := logger.New()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(db, envOr("MIGRATIONS_PATH", "migrations")); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "user"),
		envOr("RABBITMQ_PASS", "password"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	interactionRepo := database.NewInteractionRepository(db)
	userRepo := database.NewUserRepository(db)
	settingsRepo := database.NewSettingsRepository(db)

	// 2. Adapters
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		os.Getenv("MAIL_FROM"),
	)

	// 3. Worker (consome a fila e dispara e-mails)
	worker := queue.NewWorker(rabbitMQ.Ch, userRepo, settingsRepo, mailSender, log)
	go worker.Start(queue.QueueName)

	// 4. UseCases
	lifecycleUC := usecase.NewLeadLifecycleUseCase(leadRepo, interactionRepo, userRepo, producer, log)
	dashboardUC := usecase.NewDashboardUseCase(leadRepo, interactionRepo, userRepo)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo)
	usersUC := usecase.NewUsersUseCase(userRepo, leadRepo, interactionRepo)
	authUC := usecase.NewAuthUseCase(usersUC, userRepo, envOr("JWT_SECRET", "dev-secret"), 24*time.Hour)

	// 5. Handlers
	authHandler := handlers.NewAuthHandler(authUC)
	leadHandler := handlers.NewLeadHandler(lifecycleUC)
	dashboardHandler := handlers.NewDashboardHandler(dashboardUC)
	settingsHandler := handlers.NewSettingsHandler(settingsUC)
	userHandler := handlers.NewUserHandler(usersUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/register", authHandler.HandleRegister)
	r.Post("/auth/login", authHandler.HandleLogin)

	// Rotas autenticadas
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(authUC, log))

		r.Get("/auth/me", authHandler.HandleMe)

		r.Route("/leads", func(r chi.Router) {
			r.Post("/", leadHandler.HandleCreate)
			r.Get("/", leadHandler.HandleList)
			r.Get("/stats", leadHandler.HandleStats)
			r.Get("/{id}", leadHandler.HandleGet)
			r.Put("/{id}", leadHandler.HandleUpdate)
			r.Put("/{id}/status", leadHandler.HandleUpdateStatus)
			r.Delete("/{id}", leadHandler.HandleRemove)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/metrics", dashboardHandler.HandleMetrics)
			r.Get("/agents-performance", dashboardHandler.HandleAgentsPerformance)
			r.Get("/recent-activity", dashboardHandler.HandleRecentActivity)
			r.Get("/leads-by-status", dashboardHandler.HandleLeadsByStatus)
			r.Get("/leads-by-source", dashboardHandler.HandleLeadsBySource)
			r.Get("/revenue-chart", dashboardHandler.HandleRevenueChart)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/user", settingsHandler.HandleGet)
			r.Put("/user", settingsHandler.HandleUpdate)
			r.Get("/defaults", settingsHandler.HandleDefaults)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRole(entity.RoleAdmin))
			r.Post("/", userHandler.HandleCreate)
			r.Get("/", userHandler.HandleList)
			r.Get("/{id}", userHandler.HandleGet)
			r.Patch("/{id}", userHandler.HandleUpdate)
			r.Delete("/{id}", userHandler.HandleDeactivate)
			r.Get("/{id}/performance", userHandler.HandlePerformance)
		})
	})

	port := ":" + envOr("PORT", "8080")
	log.Info().Str("port", port).Msg("Ligue CRM API rodando")
	if err := http.ListenAndServe(port, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
