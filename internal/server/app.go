package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harborblog/backend/internal/platform/eventbus"
	"github.com/harborblog/backend/internal/platform/seeder"
	postsapp "github.com/harborblog/backend/internal/posts/application"
)

type App struct {
	server *http.Server
	config Config
	seeds  *seeder.Orchestrator
}

// NewApp assembles the runnable application. Event subscribers are attached
// here so that the bus is fully wired before the first request arrives.
func NewApp(server *http.Server, config Config, seeds *seeder.Orchestrator, bus *eventbus.Bus, mediaCleanup *postsapp.MediaCleanup) *App {
	mediaCleanup.Register(bus)

	return &App{
		server: server,
		config: config,
		seeds:  seeds,
	}
}

// Run seeds baseline data, starts the server, and handles graceful shutdown
func (a *App) Run() error {
	// Seed before accepting traffic; role rows must exist for registration
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSeed()
	if err := a.seeds.RunAll(seedCtx); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		log.Println("Shutting down server...")

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := a.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to gracefully shutdown server: %w", err)
		}
	}

	log.Println("Server stopped")
	return nil
}
