package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/planora/server/internal/config"
	"github.com/planora/server/internal/handlers"
	custommw "github.com/planora/server/internal/middleware"
	"github.com/planora/server/internal/observability"
	"github.com/planora/server/internal/repository"
	"github.com/planora/server/internal/services"
)

const serviceVersion = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize telemetry
	ctx := context.Background()
	telemetry, err := observability.Initialize(ctx, observability.NewConfig("planora-server", serviceVersion))
	if err != nil {
		log.Printf("Warning: telemetry initialization failed: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if telemetry != nil {
			telemetry.Shutdown(shutdownCtx)
		}
	}()

	// Initialize database and repositories
	var (
		userRepo         repository.UserRepo
		collectionRepo   repository.CollectionRepo
		grantRepo        repository.SharedGrantRepo
		taskRepo         repository.TaskRepo
		noteRepo         repository.NoteRepo
		notificationRepo repository.NotificationRepo
		tokenRepo        repository.VerificationTokenRepo
		outlookRepo      repository.OutlookTokenRepo
	)
	if cfg.UsePostgres() {
		log.Println("Using PostgreSQL database")
		db, err := repository.NewPostgresDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
		}
		defer db.Close()
		userRepo = repository.NewUserRepository(db)
		collectionRepo = repository.NewCollectionRepository(db)
		grantRepo = repository.NewSharedGrantRepository(db)
		taskRepo = repository.NewTaskRepository(db)
		noteRepo = repository.NewNoteRepository(db)
		notificationRepo = repository.NewNotificationRepository(db)
		tokenRepo = repository.NewVerificationTokenRepository(db)
		outlookRepo = repository.NewOutlookTokenRepository(db)
	} else {
		log.Println("Using SQLite database")
		db, err := repository.NewSQLiteDB(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite database: %v", err)
		}
		defer db.Close()
		userRepo = repository.NewUserRepository(db)
		collectionRepo = repository.NewCollectionRepository(db)
		grantRepo = repository.NewSharedGrantRepository(db)
		taskRepo = repository.NewTaskRepository(db)
		noteRepo = repository.NewNoteRepository(db)
		notificationRepo = repository.NewNotificationRepository(db)
		tokenRepo = repository.NewVerificationTokenRepository(db)
		outlookRepo = repository.NewOutlookTokenRepository(db)
	}

	// Business metrics (non-fatal if unavailable)
	metrics, err := observability.NewBusinessMetrics()
	if err != nil {
		log.Printf("Warning: business metrics unavailable: %v", err)
	}

	// Live notification hub
	hub := services.NewNotificationHub()
	go hub.Run()

	// Initialize services
	resolver := services.NewAccessResolver(grantRepo)
	collectionService := services.NewCollectionService(collectionRepo, taskRepo, resolver)
	notificationService := services.NewNotificationService(notificationRepo, hub)
	sharingService := services.NewSharingService(collectionRepo, grantRepo, userRepo, notificationService, cfg.FrontendBaseURL)
	taskService := services.NewTaskService(taskRepo, collectionRepo, resolver)
	noteService := services.NewNoteService(noteRepo, taskRepo, collectionRepo, resolver)

	var emailSender services.EmailSender
	if cfg.SMTP.Host != "" {
		emailSender = services.NewSMTPService(cfg.SMTP, cfg.FrontendBaseURL)
	} else {
		log.Println("SMTP not configured; verification emails disabled")
	}
	userService := services.NewUserService(userRepo, collectionRepo, tokenRepo, emailSender)

	calendarService := services.NewCalendarService(outlookRepo, cfg.Outlook)
	if calendarService == nil {
		log.Println("Outlook client not configured; calendar integration disabled")
	}

	// Initialize handlers
	collectionHandler := handlers.NewCollectionHandler(collectionService, metrics)
	sharingHandler := handlers.NewSharingHandler(sharingService, metrics)
	taskHandler := handlers.NewTaskHandler(taskService)
	noteHandler := handlers.NewNoteHandler(noteService)
	userHandler := handlers.NewUserHandler(userService, metrics)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	websocketHandler := handlers.NewWebSocketHandler(hub, userService)
	calendarHandler := handlers.NewCalendarHandler(calendarService)
	healthHandler := handlers.NewHealthHandler()

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(observability.TracingMiddleware("planora-server"))
	if httpMetrics, err := observability.NewHTTPMetrics(); err == nil {
		r.Use(observability.MetricsMiddleware(httpMetrics))
	}
	r.Use(custommw.UserAPIKeyAuth(userRepo, []string{
		"/api/health",
		"/api/users/register",
		"/api/users/login",
		"/api/users/verify-email/*",
		"/api/shared-page/*",
		"/api/outlook/callback",
	}))

	// Routes
	r.Get("/health", healthHandler.HealthCheck)
	r.Get("/api/health", healthHandler.HealthCheck)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.Get("/verify-email/{token}", userHandler.VerifyEmail)
		r.Get("/me", userHandler.Me)
		r.Post("/deactivate", userHandler.Deactivate)
		r.Delete("/me", userHandler.DeleteAccount)
	})

	r.Route("/api/collections", func(r chi.Router) {
		r.Get("/", collectionHandler.ListCollections)
		r.Post("/", collectionHandler.CreateCollection)
		r.Get("/shared-with-me", collectionHandler.ListSharedCollections)
		r.Get("/{id}", collectionHandler.GetCollection)
		r.Put("/{id}", collectionHandler.UpdateCollection)
		r.Delete("/{id}", collectionHandler.DeleteCollection)
		r.Delete("/{id}/shares", sharingHandler.UnshareAll)
		r.Get("/{id}/shares", sharingHandler.GetSharedUsers)
		r.Get("/{id}/link-settings", sharingHandler.GetLinkSettings)
		r.Put("/{id}/link-settings", sharingHandler.UpdateLinkSettings)
	})

	r.Post("/api/share", sharingHandler.Share)
	r.Get("/api/shared-page/{token}", collectionHandler.GetSharedPage)
	r.Post("/api/shared-page/{token}/add", sharingHandler.AddToShared)

	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.ListTasks)
		r.Post("/", taskHandler.CreateTask)
		r.Get("/{id}", taskHandler.GetTask)
		r.Put("/{id}", taskHandler.UpdateTask)
		r.Post("/{id}/toggle", taskHandler.ToggleTask)
		r.Delete("/{id}", taskHandler.DeleteTask)
	})

	r.Route("/api/notes", func(r chi.Router) {
		r.Get("/", noteHandler.ListNotes)
		r.Post("/", noteHandler.CreateNote)
		r.Get("/{id}", noteHandler.GetNote)
		r.Put("/{id}", noteHandler.UpdateNote)
		r.Delete("/{id}", noteHandler.DeleteNote)
	})

	r.Route("/api/notifications", func(r chi.Router) {
		r.Get("/", notificationHandler.ListNotifications)
		r.Get("/unread-count", notificationHandler.UnreadCount)
		r.Post("/mark-all-read", notificationHandler.MarkAllRead)
	})

	r.Route("/api/outlook", func(r chi.Router) {
		r.Get("/connect", calendarHandler.Connect)
		r.Get("/callback", calendarHandler.Callback)
		r.Get("/status", calendarHandler.Status)
		r.Delete("/disconnect", calendarHandler.Disconnect)
	})

	r.Get("/ws/notifications", websocketHandler.HandleConnection)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Create server
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Planora Server starting on %s", cfg.ServerAddress)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
