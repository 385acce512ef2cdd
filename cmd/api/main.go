package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "campusgate/docs" // This is for Swagger
	"campusgate/internal/auth"
	"campusgate/internal/config"
	"campusgate/internal/database"
	"campusgate/internal/email"
	"campusgate/internal/handlers"
	"campusgate/internal/logger"
	"campusgate/internal/middleware"
	"campusgate/internal/repository"
	"campusgate/internal/scheduler"
	"campusgate/internal/service"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title CampusGate API
// @version 1.0
// @description Backend API for campus gate pass and complaint management

// @contact.name API Support
// @contact.email support@campusgate.edu

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logger
	logger.Setup(logger.Config{
		Level: cfg.Log.Level,
	})

	slog.Info("Starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Env,
		"log_level", cfg.Log.Level,
	)

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func(db *database.Database) {
		err := db.Close()
		if err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}(db)

	slog.Info("Database connection established")

	// Run database migrations
	migrator := database.NewMigrator(db.DB)
	if err := migrator.Run("./migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	complaintRepo := repository.NewComplaintRepository(db.DB)
	gatePassRepo := repository.NewGatePassRepository(db.DB)
	messageRepo := repository.NewMessageRepository(db.DB)
	notificationRepo := repository.NewNotificationRepository(db.DB)

	// Initialize services
	authService := auth.NewService(&cfg.JWT)
	emailService := email.NewService(&cfg.Email)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)
	authSvc := service.NewAuthService(userRepo, authService)
	complaintService := service.NewComplaintService(complaintRepo, userRepo, notificationService)
	votingService := service.NewVotingService(complaintRepo, userRepo, notificationService, emailService)
	gatePassService := service.NewGatePassService(gatePassRepo, userRepo, notificationService, cfg.Cleanup.PendingMaxAge)
	messageService := service.NewMessageService(messageRepo, userRepo, notificationService)

	// Start background cleanup scheduler
	sched := scheduler.NewScheduler(gatePassService, &cfg.Cleanup)
	sched.Start()
	defer sched.Stop()

	// Initialize middleware
	authMw := middleware.NewAuthMiddleware(authService)
	rbacMw := middleware.NewRBACMiddleware()
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authSvc)
	complaintHandler := handlers.NewComplaintHandler(complaintService)
	votingHandler := handlers.NewVotingHandler(votingService)
	gatePassHandler := handlers.NewGatePassHandler(gatePassService)
	messageHandler := handlers.NewMessageHandler(messageService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Setup routes
	mux := http.NewServeMux()

	// Auth endpoints
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/v1/auth/departments", authHandler.Departments)
	mux.Handle("GET /api/v1/auth/me",
		authMw.Authenticate(http.HandlerFunc(authHandler.Me)),
	)

	// Complaint endpoints
	mux.Handle("POST /api/v1/complaints",
		authMw.Authenticate(
			rbacMw.RequireRole("student")(
				http.HandlerFunc(complaintHandler.Create),
			),
		),
	)
	mux.Handle("GET /api/v1/complaints/my",
		authMw.Authenticate(http.HandlerFunc(complaintHandler.ListMine)),
	)
	mux.Handle("GET /api/v1/complaints",
		authMw.Authenticate(
			rbacMw.RequireRole("hod")(
				http.HandlerFunc(complaintHandler.ListDepartment),
			),
		),
	)
	mux.Handle("GET /api/v1/complaints/pending",
		authMw.Authenticate(
			rbacMw.RequireRole("hod")(
				http.HandlerFunc(complaintHandler.ListActionable),
			),
		),
	)
	mux.Handle("GET /api/v1/complaints/stats/overview",
		authMw.Authenticate(
			rbacMw.RequireRole("hod")(
				http.HandlerFunc(complaintHandler.Stats),
			),
		),
	)
	mux.Handle("GET /api/v1/complaints/{id}",
		authMw.Authenticate(http.HandlerFunc(complaintHandler.Get)),
	)
	mux.Handle("PUT /api/v1/complaints/{id}/status",
		authMw.Authenticate(
			rbacMw.RequireRole("hod")(
				http.HandlerFunc(complaintHandler.UpdateStatus),
			),
		),
	)

	// Voting endpoints
	mux.Handle("GET /api/v1/voting/complaints",
		authMw.Authenticate(
			rbacMw.RequireAnyRole("student", "dean")(
				http.HandlerFunc(votingHandler.ListOpen),
			),
		),
	)
	mux.Handle("POST /api/v1/voting/complaints/{id}/vote",
		authMw.Authenticate(
			rbacMw.RequireAnyRole("student", "dean")(
				http.HandlerFunc(votingHandler.CastVote),
			),
		),
	)
	mux.Handle("POST /api/v1/voting/complaints/{id}/enable-voting",
		authMw.Authenticate(http.HandlerFunc(votingHandler.EnableVoting)),
	)
	mux.Handle("POST /api/v1/voting/complaints/{id}/finalize-results",
		authMw.Authenticate(http.HandlerFunc(votingHandler.FinalizeResults)),
	)

	// Gate pass endpoints
	mux.Handle("POST /api/v1/gatepass",
		authMw.Authenticate(
			rbacMw.RequireRole("student")(
				http.HandlerFunc(gatePassHandler.Create),
			),
		),
	)
	mux.Handle("GET /api/v1/gatepass/my",
		authMw.Authenticate(http.HandlerFunc(gatePassHandler.ListMine)),
	)
	mux.Handle("GET /api/v1/gatepass/pending",
		authMw.Authenticate(
			rbacMw.RequireRole("hod")(
				http.HandlerFunc(gatePassHandler.ListPending),
			),
		),
	)
	mux.Handle("GET /api/v1/gatepass",
		authMw.Authenticate(
			rbacMw.RequireRole("hod")(
				http.HandlerFunc(gatePassHandler.List),
			),
		),
	)
	mux.Handle("PUT /api/v1/gatepass/{id}/approve",
		authMw.Authenticate(
			rbacMw.RequireRole("hod")(
				http.HandlerFunc(gatePassHandler.Approve),
			),
		),
	)
	mux.Handle("PUT /api/v1/gatepass/{id}/reject",
		authMw.Authenticate(
			rbacMw.RequireRole("hod")(
				http.HandlerFunc(gatePassHandler.Reject),
			),
		),
	)
	mux.Handle("PUT /api/v1/gatepass/{id}/return",
		authMw.Authenticate(http.HandlerFunc(gatePassHandler.Return)),
	)
	mux.Handle("POST /api/v1/gatepass/cleanup",
		authMw.Authenticate(
			rbacMw.RequireRole("hod")(
				http.HandlerFunc(gatePassHandler.Cleanup),
			),
		),
	)

	// Message endpoints
	mux.Handle("GET /api/v1/messages",
		authMw.Authenticate(http.HandlerFunc(messageHandler.ListMine)),
	)
	mux.Handle("POST /api/v1/messages/send",
		authMw.Authenticate(
			rbacMw.RequireRole("hod")(
				http.HandlerFunc(messageHandler.Send),
			),
		),
	)
	mux.Handle("PUT /api/v1/messages/{id}/read",
		authMw.Authenticate(http.HandlerFunc(messageHandler.MarkRead)),
	)
	mux.Handle("GET /api/v1/messages/unread-count",
		authMw.Authenticate(http.HandlerFunc(messageHandler.UnreadCount)),
	)

	// Notification endpoints
	mux.Handle("GET /api/v1/notifications",
		authMw.Authenticate(http.HandlerFunc(notificationHandler.List)),
	)
	mux.Handle("PUT /api/v1/notifications/read-all",
		authMw.Authenticate(http.HandlerFunc(notificationHandler.MarkAllRead)),
	)
	mux.Handle("PUT /api/v1/notifications/{id}/read",
		authMw.Authenticate(http.HandlerFunc(notificationHandler.MarkRead)),
	)
	mux.Handle("DELETE /api/v1/notifications/{id}",
		authMw.Authenticate(http.HandlerFunc(notificationHandler.Delete)),
	)
	mux.Handle("GET /api/v1/notifications/unread-count",
		authMw.Authenticate(http.HandlerFunc(notificationHandler.UnreadCount)),
	)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.HealthCheck(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, err := w.Write([]byte(`{"status":"unhealthy","database":"error"}`))
			if err != nil {
				slog.Error("Failed to write health check response", "error", err)
				return
			}
			return
		}
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"status":"healthy","version":"` + cfg.App.Version + `"}`))
		if err != nil {
			slog.Error("Failed to write health check response", "error", err)
			return
		}
	})

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Apply global middleware
	handler := middleware.LoggingMiddleware(
		middleware.SecurityHeaders(
			corsMw.Handler(
				rateLimiter.Limit(mux),
			),
		),
	)

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
