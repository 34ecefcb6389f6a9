// Package dotenv provides a dotenv-based vault implementation for development.
package dotenv

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/unifiedui/card-service/internal/core/vault"
)

const scheme = string(vault.TypeDotEnv) + "://"

// Vault implements vault.Vault using environment variables and optional
// secrets files. Environment variables take precedence over file entries.
type Vault struct {
	secrets map[string]string
	mu      sync.RWMutex
}

// NewVault creates a new DotEnv vault, reading each of files if given.
func NewVault(files ...string) (*Vault, error) {
	v := &Vault{
		secrets: make(map[string]string),
	}

	for _, file := range files {
		if file == "" {
			continue
		}
		entries, err := godotenv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read secrets file %s: %w", file, err)
		}
		for k, val := range entries {
			v.secrets[k] = val
		}
	}

	return v, nil
}

// Put stores a secret in memory and returns its URI.
func (v *Vault) Put(key, value string) string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.secrets[key] = value
	return scheme + key
}

// GetSecret retrieves a secret from environment variables or the in-memory store.
func (v *Vault) GetSecret(ctx context.Context, uri string) (string, error) {
	key := strings.TrimPrefix(uri, scheme)
	if key == "" {
		return "", fmt.Errorf("secret key is required")
	}

	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if value, ok := v.secrets[key]; ok {
		return value, nil
	}

	return "", fmt.Errorf("secret not found: %s", key)
}

// Ping always succeeds.
func (v *Vault) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (v *Vault) Close() error {
	return nil
}
