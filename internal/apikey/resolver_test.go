package apikey

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	key     string
	saved   int
	saveErr error
}

func (m *memStore) APIKey() string { return m.key }

func (m *memStore) SetAPIKey(key string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.key = key
	m.saved++
	return nil
}

type fakeLookup struct {
	key   string
	err   error
	calls int
}

func (f *fakeLookup) LookupAPIKey(context.Context) (string, error) {
	f.calls++
	return f.key, f.err
}

func env(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestResolveStoredKeyWins(t *testing.T) {
	store := &memStore{key: "stored"}
	remote := &fakeLookup{key: "remote"}
	r := &Resolver{Store: store, Remote: remote, Getenv: env(map[string]string{EnvVar: "env"})}

	key, err := r.Resolve(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Equal(t, "stored", key)
	assert.Zero(t, store.saved)
	assert.Zero(t, remote.calls)
}

func TestResolveMigratesLegacyKey(t *testing.T) {
	store := &memStore{}
	r := &Resolver{Store: store, Getenv: env(nil)}

	key, err := r.Resolve(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Equal(t, "legacy", key)
	assert.Equal(t, "legacy", store.key)
	assert.Equal(t, 1, store.saved)

	// second call reads the migrated key
	key, err = r.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "legacy", key)
	assert.Equal(t, 1, store.saved)
}

func TestResolveMigrationFailureStillReturnsKey(t *testing.T) {
	store := &memStore{saveErr: errors.New("read-only")}
	r := &Resolver{Store: store}

	key, err := r.Resolve(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Equal(t, "legacy", key)
}

func TestResolveEnvThenRemote(t *testing.T) {
	remote := &fakeLookup{key: "remote"}

	r := &Resolver{Store: &memStore{}, Remote: remote, Getenv: env(map[string]string{EnvVar: "env"})}
	key, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "env", key)
	assert.Zero(t, remote.calls)

	r.Getenv = env(nil)
	key, err = r.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "remote", key)
	assert.Equal(t, 1, remote.calls)
}

func TestResolveNothingFound(t *testing.T) {
	r := &Resolver{Getenv: env(nil)}
	key, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, key)

	r.Remote = &fakeLookup{err: errors.New("denied")}
	_, err = r.Resolve(context.Background(), "")
	assert.ErrorContains(t, err, "denied")
}

func TestCloudKeysRequiresDisplayName(t *testing.T) {
	_, err := CloudKeys{}.LookupAPIKey(context.Background())
	assert.Error(t, err)
}
