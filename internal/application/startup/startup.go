// Package startup prepares the application server
package startup

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TavolaMedia/menustack-go/internal/application/container"
	"github.com/TavolaMedia/menustack-go/internal/presentation/http/server"
	"github.com/TavolaMedia/menustack-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	log.Println("\033[32m" + `

  ▄▄ ▄▄▄ ▄▄ ▄▄ ▄▄ ▄▄ ▄▄▄▄ ▄▄▄▄▄ ▄▄▄ ▄▄▄▄ ▄▄ ▄▄
  ██▀█▀██ ██▄▄ ██▀██ ██ ██ ▀▀ ██ ▀▀ ██▄██ ██ ▄▄ ██▄▀
  ██ ▀ ██ ██▄▄ ██ ██ ██▄██ ▄▄▄██ ██ ██ ██ ██▄██ ██ █▄
` + "\033[97m" + `
  made by Tavola Media
` + "\033[0m")

	// Step 1: Create dependency injection container (logger, database,
	// cache, repositories and services)
	log.Println("Initializing dependency injection container...")
	appContainer, err := container.NewContainer()
	if err != nil {
		return err
	}
	log.Println("✓ Dependency injection container created with singleton services.")

	logger := appContainer.Logger
	logger.Startup().Info("Container initialization complete - switching to channeled logging")

	// Step 2: Start the editor broadcaster loop
	logger.Startup().Info("Starting editor broadcaster...")
	go appContainer.Broadcaster.Run()

	// Step 3: Start HTTP server
	logger.Startup().Info("Starting HTTP server...")
	startServerTime := time.Now()

	port := config.Port
	httpServer := server.New(port, appContainer)

	logger.Startup().Info("HTTP server initialized", "port", port, "duration", time.Since(startServerTime))

	// Step 4: Setup graceful shutdown
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	totalStartupTime := time.Since(start)
	logger.Startup().Info("Application startup complete",
		"totalDuration", totalStartupTime,
		"port", port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Closing container resources...")
	if err := appContainer.Close(); err != nil {
		logger.Shutdown().Error("Error closing container", "error", err.Error())
	} else {
		logger.Shutdown().Info("Container resources closed successfully")
	}

	elapsed := time.Since(start)
	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", elapsed,
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
