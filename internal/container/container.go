package container

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/Hazher89/driftpro-admin-complete/internal/config"
	"github.com/Hazher89/driftpro-admin-complete/internal/database"
	"github.com/Hazher89/driftpro-admin-complete/internal/handlers"
	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/middleware"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/repositories"
	"github.com/Hazher89/driftpro-admin-complete/internal/security"
	"github.com/Hazher89/driftpro-admin-complete/internal/server"
	"github.com/Hazher89/driftpro-admin-complete/internal/services"
)

// Module provides dependency injection configuration
var Module = fx.Options(
	// Configuration
	fx.Provide(config.LoadConfig),

	// Logging
	fx.Provide(logger.NewLogger),

	// Database and cache backends
	fx.Provide(database.NewConnection),
	fx.Provide(database.NewMigrator),
	fx.Provide(database.NewRedisClient),

	// Repositories
	fx.Provide(repositories.NewCompanyRepository),
	fx.Provide(repositories.NewUserRepository),
	fx.Provide(repositories.NewDepartmentRepository),
	fx.Provide(repositories.NewAbsenceRepository),
	fx.Provide(repositories.NewDeviationRepository),
	fx.Provide(repositories.NewTimeEntryRepository),
	fx.Provide(repositories.NewDocumentRepository),
	fx.Provide(repositories.NewChatMessageRepository),
	fx.Provide(repositories.NewNotificationRepository),
	fx.Provide(repositories.NewInvitationRepository),
	fx.Provide(repositories.NewAuditLogRepository),

	// Services
	fx.Provide(models.NewValidationService),
	fx.Provide(services.NewSessionStore),
	fx.Provide(services.NewCacheService),
	fx.Provide(services.NewRealtimeService),
	fx.Provide(services.NewAuthenticationService),
	fx.Provide(services.NewAuthorizationService),
	fx.Provide(services.NewCompanyService),
	fx.Provide(services.NewUserManagementService),
	fx.Provide(services.NewDepartmentService),
	fx.Provide(services.NewAbsenceService),
	fx.Provide(services.NewDeviationService),
	fx.Provide(services.NewTimeClockService),
	fx.Provide(services.NewDashboardService),
	fx.Provide(services.NewNotificationService),
	fx.Provide(services.NewChatService),
	fx.Provide(services.NewLocalStorageService),
	fx.Provide(services.NewDocumentService),
	fx.Provide(services.NewLogEmailSender),
	fx.Provide(services.NewInvitationDispatcher),
	fx.Provide(services.NewHealthService),

	// Middleware and security
	fx.Provide(middleware.NewAuthenticationMiddleware),
	fx.Provide(security.NewSecurityMiddleware),
	fx.Provide(func(cfg *config.Config) *security.PasswordValidator {
		return security.NewPasswordValidator(cfg.Auth.MinPasswordSize)
	}),

	// Handlers
	fx.Provide(func() prometheus.Registerer { return prometheus.DefaultRegisterer }),
	fx.Provide(handlers.NewAuthHandler),
	fx.Provide(handlers.NewManagementAPIHandler),
	fx.Provide(handlers.NewHRAPIHandler),
	fx.Provide(handlers.NewDashboardHandler),
	fx.Provide(handlers.NewMessagingHandler),
	fx.Provide(handlers.NewFilesHandler),
	fx.Provide(handlers.NewHealthHandler),

	// Server
	fx.Provide(server.NewServer),

	// Run migrations on startup
	fx.Invoke(func(migrator *database.Migrator) error {
		return migrator.Up()
	}),

	// Invitation emails go out from a background worker pool
	fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, dispatcher *services.InvitationDispatcher) {
		if !cfg.InvitationJob.Enabled {
			return
		}
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				dispatcher.Start()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				dispatcher.Stop()
				return nil
			},
		})
	}),
)
