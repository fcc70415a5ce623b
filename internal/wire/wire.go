// Package wire provides dependency injection for the provreg application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/provreg/internal/adapters/persistence"
	"github.com/example/provreg/internal/adapters/sqlite"
	"github.com/example/provreg/internal/app"
	"github.com/example/provreg/internal/core/registry"
	"github.com/example/provreg/internal/db"
	"github.com/example/provreg/internal/ports/primary"
	"github.com/example/provreg/internal/ports/secondary"
)

var (
	registryService primary.RegistryService
	callerProvider  secondary.IdentityProvider
	once            sync.Once
)

// RegistryService returns the singleton RegistryService instance.
func RegistryService() primary.RegistryService {
	once.Do(initServices)
	return registryService
}

// CallerProvider returns the singleton IdentityProvider instance.
func CallerProvider() secondary.IdentityProvider {
	once.Do(initServices)
	return callerProvider
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	repo := sqlite.NewRegistryRepository(database)
	registryService = app.NewRegistryService(repo, registry.SystemClock())
	callerProvider = persistence.NewCallerProvider()
}
