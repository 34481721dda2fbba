// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/TavolaMedia/menustack-go/internal/application/services"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/caching"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/email"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/media"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/messaging"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/observability/logging"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/persistence/database"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/persistence/menucontent"
	"github.com/TavolaMedia/menustack-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services (stateless singletons)
	DocumentService  *services.DocumentService
	WidgetService    *services.WidgetService
	SectionService   *services.SectionService
	AttributeService *services.AttributeService
	CurrencyService  *services.CurrencyService
	BatchService     *services.BatchService
	AuthService      *services.AuthService
	MediaService     *services.MediaService

	// Infrastructure
	Logger       *logging.ChanneledLogger
	DB           *database.DB
	ContentCache *caching.ContentCache
	Broadcaster  *messaging.EditorBroadcaster
	EmailService email.Service
}

// NewContainer creates and wires all singleton services
func NewContainer() (*Container, error) {
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	dsn := config.DBPath
	if config.DBDriver == "libsql" && config.DBAuthToken != "" {
		if err := database.TestTursoConnection(config.DBPath, config.DBAuthToken); err != nil {
			return nil, fmt.Errorf("turso connection test failed: %w", err)
		}
		dsn = config.DBPath + "?authToken=" + config.DBAuthToken
	}

	db, err := database.NewConnectionWithLogger(config.DBDriver, dsn, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := db.EnsureSchema(); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	contentCache := caching.NewContentCache(config.ContentCacheTTL)

	documentRepo := menucontent.NewDocumentRepository(db.DB, contentCache, logger)
	attributeRepo := menucontent.NewAttributeRepository(db.DB)
	attachmentRepo := menucontent.NewAttachmentRepository(db.DB)

	broadcaster := messaging.NewEditorBroadcaster(logger)

	// Email is optional; without a Resend key the notification path stays off.
	emailService, err := email.NewService()
	if err != nil {
		logger.System().Info("Email notifications disabled", "reason", err.Error())
		emailService = nil
	}

	authService, err := services.NewAuthService()
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	widgetService := services.NewWidgetService(documentRepo, attachmentRepo)
	sectionService := services.NewSectionService(documentRepo, attributeRepo)
	attributeService := services.NewAttributeService(attributeRepo)

	return &Container{
		DocumentService:  services.NewDocumentService(documentRepo),
		WidgetService:    widgetService,
		SectionService:   sectionService,
		AttributeService: attributeService,
		CurrencyService:  services.NewCurrencyService(documentRepo, attributeRepo),
		BatchService:     services.NewBatchService(documentRepo, attributeRepo, widgetService, sectionService, attributeService, broadcaster),
		AuthService:      authService,
		MediaService:     services.NewMediaService(attachmentRepo, media.NewImageProcessor(config.MediaBasePath)),

		Logger:       logger,
		DB:           db,
		ContentCache: contentCache,
		Broadcaster:  broadcaster,
		EmailService: emailService,
	}, nil
}

// Close releases infrastructure resources.
func (c *Container) Close() error {
	if err := c.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return c.Logger.Close()
}
