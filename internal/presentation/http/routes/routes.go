// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/TavolaMedia/menustack-go/internal/application/container"
	"github.com/TavolaMedia/menustack-go/internal/presentation/http/handlers"
	"github.com/TavolaMedia/menustack-go/internal/presentation/http/middleware"
	"github.com/TavolaMedia/menustack-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Serve processed dish images and thumbnails.
	r.Static(config.MediaBaseURL, config.MediaBasePath)

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger)
	documentHandlers := handlers.NewDocumentHandlers(container.DocumentService, container.AttributeService, container.CurrencyService, container.Logger)
	editorHandlers := handlers.NewEditorHandlers(
		container.DocumentService,
		container.WidgetService,
		container.SectionService,
		container.AttributeService,
		container.CurrencyService,
		container.BatchService,
		container.AuthService,
		container.EmailService,
		container.Logger,
	)
	mediaHandlers := handlers.NewMediaHandlers(container.MediaService, container.AuthService, container.Logger)
	wsHandlers := handlers.NewWSHandlers(container.Broadcaster, container.AuthService, container.Logger)

	// Realtime editor notifications
	r.GET("/ws/editor", wsHandlers.GetEditorWS)

	api := r.Group("/api/v1")
	{
		// Authentication routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandlers.PostLogin)
			auth.POST("/logout", authHandlers.PostLogout)
			auth.GET("/status", authHandlers.GetAuthStatus)
			auth.GET("/nonce", authHandlers.AuthMiddleware(), authHandlers.GetNonce)
		}

		// Document reads
		documents := api.Group("/documents")
		documents.Use(authHandlers.AuthMiddleware())
		{
			documents.GET("", documentHandlers.GetDocumentIDs)
			documents.GET("/:id", documentHandlers.GetDocumentByID)
			documents.GET("/:id/attributes/:sectionId", documentHandlers.GetSectionAttributes)
			documents.GET("/:id/currency", documentHandlers.GetGlobalCurrency)
		}

		// Editor mutations; every endpoint additionally verifies the
		// editor-action nonce carried in the request.
		editor := api.Group("/editor")
		editor.Use(authHandlers.AuthMiddleware())
		{
			editor.POST("/content", editorHandlers.PostWidgetContent)
			editor.POST("/section/delete", editorHandlers.PostSectionDelete)
			editor.POST("/section/duplicate", editorHandlers.PostSectionDuplicate)
			editor.POST("/section/move", editorHandlers.PostSectionMove)
			editor.POST("/attributes/dish", editorHandlers.PostDishAttributes)
			editor.POST("/attributes/allergen", editorHandlers.PostAllergenAttributes)
			editor.POST("/currency", editorHandlers.PostCurrency)
			editor.POST("/batch", editorHandlers.PostBatch)
		}

		// Media uploads and lookups
		mediaGroup := api.Group("/media")
		mediaGroup.Use(authHandlers.AuthMiddleware())
		{
			mediaGroup.POST("", mediaHandlers.PostMedia)
			mediaGroup.GET("/:id", mediaHandlers.GetMediaByID)
		}
	}

	return r
}
