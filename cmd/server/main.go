package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"familyhub/internal/config"
	"familyhub/internal/database"
	"familyhub/internal/handlers"
	"familyhub/internal/logging"
	"familyhub/internal/notify"
	"familyhub/internal/repository"
	"familyhub/internal/security"
	"familyhub/internal/service"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logging.Setup()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("database connection established", "type", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	slog.Info("migrations completed")

	// Outbound notification channels. Email goes through SES when
	// configured; SMS is log-only until a provider is wired up.
	emailSender, err := notify.NewSESEmailSender(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName)
	if err != nil {
		slog.Error("failed to initialize email sender", "error", err)
		os.Exit(1)
	}
	dispatcher := notify.NewDispatcher(emailSender, notify.NewLogSMSSender())

	// Initialize repositories
	parentRepo := repository.NewParentRepository(db)
	teenRepo := repository.NewTeenRepository(db)
	childRepo := repository.NewChildRepository(db)
	mergeRepo := repository.NewMergeRequestRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	teenInvitationRepo := repository.NewTeenInvitationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	vaultRepo := repository.NewVaultRepository(db)
	eventRepo := repository.NewEventRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Auth plumbing
	tokens := security.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	var googleOAuth *oauth2.Config
	if cfg.GoogleClientID != "" {
		googleOAuth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		}
	}

	// Initialize services
	authService := service.NewAuthService(parentRepo, teenRepo, tokens, googleOAuth)
	familyService := service.NewFamilyService(parentRepo, teenRepo, childRepo)
	mergeService := service.NewMergeService(db, parentRepo, childRepo, eventRepo, mergeRepo, dispatcher)
	invitationService := service.NewInvitationService(db, parentRepo, invitationRepo, dispatcher, cfg.AppBaseURL)
	teenInvitationService := service.NewTeenInvitationService(parentRepo, teenRepo, teenInvitationRepo, dispatcher)
	messageService := service.NewMessageService(familyService, parentRepo, teenRepo, childRepo, messageRepo, dispatcher)
	vaultService := service.NewVaultService(familyService, vaultRepo)
	calendarService := service.NewCalendarService(familyService, eventRepo, taskRepo)

	// Initialize handlers
	middleware := handlers.NewMiddleware(tokens, security.NewRateLimiter(20, time.Minute))
	authHandler := handlers.NewAuthHandler(authService)
	familyHandler := handlers.NewFamilyHandler(familyService, parentRepo)
	mergeHandler := handlers.NewMergeHandler(mergeService)
	invitationHandler := handlers.NewInvitationHandler(invitationService, parentRepo)
	teenInvitationHandler := handlers.NewTeenInvitationHandler(teenInvitationService)
	messageHandler := handlers.NewMessageHandler(messageService)
	vaultHandler := handlers.NewVaultHandler(vaultService)
	calendarHandler := handlers.NewCalendarHandler(calendarService)

	// Setup routes
	mux := http.NewServeMux()

	// Public auth routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/teen/login", middleware.RateLimit(authHandler.TeenLogin))
	mux.HandleFunc("POST /api/auth/google", middleware.RateLimit(authHandler.GoogleLogin))
	mux.HandleFunc("POST /api/auth/password", middleware.RequireAuth(authHandler.ChangePassword))

	// Profile and household
	mux.HandleFunc("GET /api/profile", middleware.RequireParent(familyHandler.GetProfile))
	mux.HandleFunc("PUT /api/profile", middleware.RequireParent(familyHandler.UpdateProfile))
	mux.HandleFunc("GET /api/family", middleware.RequireParent(familyHandler.ListFamily))

	// Child profiles
	mux.HandleFunc("POST /api/children", middleware.RequireParent(familyHandler.CreateChild))
	mux.HandleFunc("GET /api/children", middleware.RequireParent(familyHandler.ListChildren))
	mux.HandleFunc("GET /api/children/{id}", middleware.RequireParent(familyHandler.GetChild))
	mux.HandleFunc("PUT /api/children/{id}", middleware.RequireParent(familyHandler.UpdateChild))
	mux.HandleFunc("DELETE /api/children/{id}", middleware.RequireParent(familyHandler.DeleteChild))

	// Family merge requests
	mux.HandleFunc("POST /api/merge-requests", middleware.RequireParent(mergeHandler.SendMergeRequest))
	mux.HandleFunc("GET /api/merge-requests", middleware.RequireParent(mergeHandler.ListMergeRequests))
	mux.HandleFunc("GET /api/merge-requests/{id}", middleware.RequireParent(mergeHandler.GetMergeRequest))
	mux.HandleFunc("POST /api/merge-requests/{id}/approve", middleware.RequireParent(mergeHandler.ApproveMergeRequest))
	mux.HandleFunc("POST /api/merge-requests/{id}/reject", middleware.RequireParent(mergeHandler.RejectMergeRequest))
	mux.HandleFunc("POST /api/merge-requests/{id}/cancel", middleware.RequireParent(mergeHandler.CancelMergeRequest))

	// Parent invitations. Accept/decline are public: the invited person
	// may not have an account yet.
	mux.HandleFunc("POST /api/invitations", middleware.RequireParent(invitationHandler.SendInvitation))
	mux.HandleFunc("GET /api/invitations/sent", middleware.RequireParent(invitationHandler.ListSentInvitations))
	mux.HandleFunc("GET /api/invitations/received", middleware.RequireParent(invitationHandler.ListReceivedInvitations))
	mux.HandleFunc("POST /api/invitations/{token}/accept", middleware.RateLimit(invitationHandler.AcceptInvitation))
	mux.HandleFunc("POST /api/invitations/{token}/decline", middleware.RateLimit(invitationHandler.DeclineInvitation))
	mux.HandleFunc("DELETE /api/invitations/{id}", middleware.RequireParent(invitationHandler.CancelInvitation))

	// Teen invitations. Verify/register are public and rate limited on
	// top of the per-invitation attempt cap.
	mux.HandleFunc("POST /api/teen-invitations", middleware.RequireParent(teenInvitationHandler.SendTeenInvitation))
	mux.HandleFunc("GET /api/teen-invitations", middleware.RequireParent(teenInvitationHandler.ListTeenInvitations))
	mux.HandleFunc("POST /api/teen-invitations/verify", middleware.RateLimit(teenInvitationHandler.VerifyCode))
	mux.HandleFunc("POST /api/teen-invitations/register", middleware.RateLimit(teenInvitationHandler.RegisterTeen))
	mux.HandleFunc("POST /api/teen-invitations/{id}/resend", middleware.RequireParent(teenInvitationHandler.ResendCode))
	mux.HandleFunc("DELETE /api/teen-invitations/{id}", middleware.RequireParent(teenInvitationHandler.CancelTeenInvitation))

	// Messaging (parents and teens)
	mux.HandleFunc("POST /api/messages", middleware.RequireAuth(messageHandler.SendMessage))
	mux.HandleFunc("GET /api/messages/inbox", middleware.RequireAuth(messageHandler.ListInbox))
	mux.HandleFunc("GET /api/messages/sent", middleware.RequireAuth(messageHandler.ListSent))
	mux.HandleFunc("GET /api/messages/unread-count", middleware.RequireAuth(messageHandler.UnreadCount))
	mux.HandleFunc("POST /api/messages/{id}/read", middleware.RequireAuth(messageHandler.MarkRead))
	mux.HandleFunc("DELETE /api/messages/{id}", middleware.RequireAuth(messageHandler.DeleteMessage))

	// Password vault
	mux.HandleFunc("POST /api/vault", middleware.RequireParent(vaultHandler.CreateEntry))
	mux.HandleFunc("GET /api/vault", middleware.RequireAuth(vaultHandler.ListEntries))
	mux.HandleFunc("GET /api/vault/{id}", middleware.RequireAuth(vaultHandler.GetEntry))
	mux.HandleFunc("PUT /api/vault/{id}", middleware.RequireParent(vaultHandler.UpdateEntry))
	mux.HandleFunc("DELETE /api/vault/{id}", middleware.RequireParent(vaultHandler.DeleteEntry))

	// Calendar events
	mux.HandleFunc("POST /api/events", middleware.RequireParent(calendarHandler.CreateEvent))
	mux.HandleFunc("GET /api/events", middleware.RequireParent(calendarHandler.ListEvents))
	mux.HandleFunc("GET /api/events/{id}", middleware.RequireParent(calendarHandler.GetEvent))
	mux.HandleFunc("PUT /api/events/{id}", middleware.RequireParent(calendarHandler.UpdateEvent))
	mux.HandleFunc("DELETE /api/events/{id}", middleware.RequireParent(calendarHandler.DeleteEvent))

	// Tasks
	mux.HandleFunc("POST /api/tasks", middleware.RequireParent(calendarHandler.CreateTask))
	mux.HandleFunc("GET /api/tasks", middleware.RequireParent(calendarHandler.ListTasks))
	mux.HandleFunc("GET /api/tasks/{id}", middleware.RequireParent(calendarHandler.GetTask))
	mux.HandleFunc("PUT /api/tasks/{id}", middleware.RequireParent(calendarHandler.UpdateTask))
	mux.HandleFunc("POST /api/tasks/{id}/complete", middleware.RequireParent(calendarHandler.CompleteTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", middleware.RequireParent(calendarHandler.DeleteTask))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
