// Package keyring stores the credentials steady needs in the OS keyring
// rather than in config files: the suggestion service API token and the
// optional Postgres connection string.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const service = "steady"

const (
	apiTokenKey = "suggestion-api-token"
	postgresKey = "postgres-conn"
)

var (
	// ErrNotFound is returned when no credential is stored under the key.
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrUnavailable is returned when the OS keyring cannot be reached.
	ErrUnavailable = errors.New("OS keyring is not available")
)

func get(key string) (string, error) {
	value, err := keyring.Get(service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return value, nil
}

func set(key, value string) error {
	if value == "" {
		return errors.New("credential cannot be empty")
	}
	if err := keyring.Set(service, key, value); err != nil {
		return fmt.Errorf("failed to store credential in keyring: %w", err)
	}
	return nil
}

func del(key string) error {
	if err := keyring.Delete(service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credential from keyring: %w", err)
	}
	return nil
}

// GetAPIToken retrieves the suggestion service token.
func GetAPIToken() (string, error) { return get(apiTokenKey) }

// SetAPIToken stores the suggestion service token.
func SetAPIToken(token string) error { return set(apiTokenKey, token) }

// DeleteAPIToken removes the suggestion service token.
func DeleteAPIToken() error { return del(apiTokenKey) }

// GetPostgresConn retrieves the Postgres connection string.
func GetPostgresConn() (string, error) { return get(postgresKey) }

// SetPostgresConn stores the Postgres connection string.
func SetPostgresConn(connStr string) error { return set(postgresKey, connStr) }

// DeletePostgresConn removes the Postgres connection string.
func DeletePostgresConn() error { return del(postgresKey) }
