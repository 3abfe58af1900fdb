//go:build wireinject
// +build wireinject

package server

import (
	"context"

	"github.com/google/wire"
	"github.com/harborblog/backend/internal/adapters/auth"
	"github.com/harborblog/backend/internal/adapters/postgres"
	"github.com/harborblog/backend/internal/adapters/rest"
	commentsapp "github.com/harborblog/backend/internal/comments/application"
	"github.com/harborblog/backend/internal/platform/eventbus"
	"github.com/harborblog/backend/internal/platform/filestore"
	"github.com/harborblog/backend/internal/platform/logger"
	platformpg "github.com/harborblog/backend/internal/platform/postgres"
	"github.com/harborblog/backend/internal/platform/seeder"
	postsapp "github.com/harborblog/backend/internal/posts/application"
	postsports "github.com/harborblog/backend/internal/posts/ports"
	usersapp "github.com/harborblog/backend/internal/users/application"
	usersseeder "github.com/harborblog/backend/internal/users/seeder"
	"github.com/microcosm-cc/bluemonday"
)

// InitializeApp creates a fully configured App with all dependencies
func InitializeApp(ctx context.Context) (*App, func(), error) {
	wire.Build(
		// Bootstrap phase
		logger.ProviderSet,
		LoadConfig,
		provideLoggerConfig,

		// Database
		ConnectDatabase,
		platformpg.NewTransactionManager,

		// Repository providers (constructors return the ports interfaces)
		postgres.ProviderSet,

		// Platform services
		eventbus.ProviderSet,
		provideFileStore,
		wire.Bind(new(postsports.FileStore), new(*filestore.DiskStore)),
		provideSanitizer,

		// Application services
		usersapp.ProviderSet,
		provideTokenIssuer,
		postsapp.ProviderSet,
		commentsapp.ProviderSet,

		// Cross-module directories: each module consumes a narrow view of
		// its neighbour's service
		wire.Bind(new(postsapp.UserDirectory), new(*usersapp.UserService)),
		wire.Bind(new(commentsapp.UserDirectory), new(*usersapp.UserService)),
		wire.Bind(new(commentsapp.PostDirectory), new(*postsapp.PostService)),

		// REST handlers
		rest.ProviderSet,
		provideVersion, // Provide version string for HealthHandler

		// Auth middleware
		provideAuthenticator,

		// Seeders
		provideSeeders,
		seeder.NewOrchestrator,

		// HTTP Server
		NewHTTPServer,

		// App
		NewApp,
	)

	return nil, nil, nil
}

// provideAuthenticator creates the JWT authenticator from config
func provideAuthenticator(config Config) *auth.Authenticator {
	return auth.NewAuthenticator([]byte(config.JWTSecret), config.JWTIssuer)
}

// provideTokenIssuer creates the login token issuer from config
func provideTokenIssuer(config Config) *usersapp.TokenIssuer {
	return usersapp.NewTokenIssuer([]byte(config.JWTSecret), config.JWTIssuer, config.TokenTTL)
}

// provideFileStore creates the media file store rooted at the configured directory
func provideFileStore(config Config) (*filestore.DiskStore, error) {
	return filestore.NewDiskStore(config.UploadDir)
}

// provideSanitizer creates the HTML sanitizer applied to user-submitted content
func provideSanitizer() *bluemonday.Policy {
	return bluemonday.UGCPolicy()
}

// provideVersion provides the application version
func provideVersion() string {
	return "1.0.0"
}

// provideLoggerConfig creates logger config from server config
func provideLoggerConfig(config Config) logger.Config {
	return logger.Config{
		Environment: config.Environment,
		LogLevel:    config.LogLevel,
	}
}

// provideSeeders lists the seeders the orchestrator runs at startup
func provideSeeders() []seeder.Seeder {
	return []seeder.Seeder{
		usersseeder.NewRolesSeeder(),
	}
}
