// Package persistence contains infrastructure adapters that are not backed
// by the database, currently the caller identity resolution.
package persistence

import (
	"fmt"
	"os"
	"os/user"

	"github.com/example/provreg/internal/config"
	"github.com/example/provreg/internal/ports/secondary"
)

// EnvIdentity is the environment variable holding the caller identity.
const EnvIdentity = "PROVREG_IDENTITY"

// CallerProviderAdapter resolves the caller identity the way the hosting
// environment supplies it: environment variable first, then the local
// config file, then the OS username.
type CallerProviderAdapter struct{}

// NewCallerProvider creates a new CallerProviderAdapter.
func NewCallerProvider() *CallerProviderAdapter {
	return &CallerProviderAdapter{}
}

// CurrentIdentity returns the caller identity for this invocation.
func (p *CallerProviderAdapter) CurrentIdentity() (string, error) {
	if identity := os.Getenv(EnvIdentity); identity != "" {
		return identity, nil
	}

	cwd, err := os.Getwd()
	if err == nil {
		if cfg, err := config.LoadConfig(cwd); err == nil && cfg.Identity != "" {
			return cfg.Identity, nil
		}
	}

	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("failed to resolve caller identity: %w", err)
	}
	return u.Username, nil
}

// Ensure CallerProviderAdapter implements the interface
var _ secondary.IdentityProvider = (*CallerProviderAdapter)(nil)
