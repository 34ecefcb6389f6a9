// Package vault defines the secret store interface used to resolve credentials.
package vault

import (
	"context"
	"fmt"
	"strings"
)

// Vault resolves secrets by URI.
type Vault interface {
	// GetSecret retrieves a secret by URI.
	GetSecret(ctx context.Context, uri string) (string, error)

	// Ping checks if the vault is reachable.
	Ping(ctx context.Context) error

	// Close releases the vault.
	Close() error
}

// IsSecretRef reports whether value is a vault URI rather than a literal.
func IsSecretRef(value string) bool {
	scheme, _, ok := strings.Cut(value, "://")
	if !ok {
		return false
	}
	switch Type(scheme) {
	case TypeDotEnv, TypeAzure, TypeHashiCorp:
		return true
	}
	return false
}

// Resolve returns value unchanged unless it is a vault URI, in which case the
// referenced secret is fetched. Empty values stay empty.
func Resolve(ctx context.Context, v Vault, value string) (string, error) {
	if value == "" || !IsSecretRef(value) {
		return value, nil
	}
	if v == nil {
		return "", fmt.Errorf("secret reference %q given but no vault is configured", value)
	}
	secret, err := v.GetSecret(ctx, value)
	if err != nil {
		return "", fmt.Errorf("failed to resolve secret %q: %w", value, err)
	}
	return secret, nil
}
