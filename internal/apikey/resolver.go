// Package apikey looks up the Google Maps API key used by the map client.
package apikey

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// EnvVar is consulted when no key is stored.
const EnvVar = "GOOGLE_MAPS_API_KEY"

// Store persists the global API key.
type Store interface {
	APIKey() string
	SetAPIKey(key string) error
}

// Lookup fetches a key from an external source.
type Lookup interface {
	LookupAPIKey(ctx context.Context) (string, error)
}

// Resolver finds the API key, in order: the store, the legacy per-display key
// (copied into the store), the environment, the optional remote lookup.
type Resolver struct {
	Store  Store
	Remote Lookup
	Getenv func(string) string
}

// NewResolver returns a resolver reading the process environment.
// remote may be nil.
func NewResolver(store Store, remote Lookup) *Resolver {
	return &Resolver{Store: store, Remote: remote, Getenv: os.Getenv}
}

// Resolve returns the API key. An empty key with a nil error means no source has one.
func (r *Resolver) Resolve(ctx context.Context, legacyKey string) (string, error) {
	if r.Store != nil {
		if key := r.Store.APIKey(); key != "" {
			return key, nil
		}

		// older configurations kept the key in the display settings
		if legacyKey != "" {
			if err := r.Store.SetAPIKey(legacyKey); err != nil {
				log.Error().Err(err).Msg("Failed to migrate legacy API key into global settings")
			} else {
				log.Info().Msg("Legacy display API key migrated into global settings")
			}
			return legacyKey, nil
		}
	} else if legacyKey != "" {
		return legacyKey, nil
	}

	if r.Getenv != nil {
		if key := r.Getenv(EnvVar); key != "" {
			return key, nil
		}
	}

	if r.Remote == nil {
		return "", nil
	}

	key, err := r.Remote.LookupAPIKey(ctx)
	if err != nil {
		return "", fmt.Errorf("remote api key lookup: %w", err)
	}

	return key, nil
}
