package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/vosh/internal/logger"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	return New(path, logger.Nop())
}

func TestGet_MissingStoreIsError(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, ValueError, e.Get(KeyFileMgmt))
}

func TestGet_MissingKeyIsError(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Set(KeyFileMgmt, ValueOn))

	assert.Equal(t, ValueError, e.Get("no_such_key"))
}

func TestGet_MalformedStoreIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0644))

	e := New(path, logger.Nop())
	assert.Equal(t, ValueError, e.Get(KeyFileMgmt))
}

func TestSetAndGet_RoundTrip(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Set(KeyScript, ValueOff))
	assert.Equal(t, ValueOff, e.Get(KeyScript))

	require.NoError(t, e.Set(KeyScript, ValueOn))
	assert.Equal(t, ValueOn, e.Get(KeyScript))
}

func TestAllowed_DeniesOnAnythingButOn(t *testing.T) {
	e := newTestEngine(t)

	// missing store
	assert.False(t, e.Allowed(KeyFileMgmt, false))

	require.NoError(t, e.Set(KeyFileMgmt, ValueOff))
	assert.False(t, e.Allowed(KeyFileMgmt, false))

	require.NoError(t, e.Set(KeyFileMgmt, "yes")) // not the literal "on"
	assert.False(t, e.Allowed(KeyFileMgmt, false))

	require.NoError(t, e.Set(KeyFileMgmt, ValueOn))
	assert.True(t, e.Allowed(KeyFileMgmt, false))
}

func TestAllowed_AdminBypassesEverything(t *testing.T) {
	e := newTestEngine(t)

	// store is missing entirely, yet the admin passes
	assert.True(t, e.Allowed(KeyFileMgmt, true))

	require.NoError(t, e.Set(KeyAccountDelete, ValueOff))
	assert.True(t, e.Allowed(KeyAccountDelete, true))
}

func TestReset_WritesAllDefaults(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Reset())

	for _, key := range OperationKeys {
		assert.Equal(t, ValueOn, e.Get(key), "operation key %q", key)
	}
	for _, key := range AdminKeys {
		assert.Equal(t, ValueOff, e.Get(key), "admin key %q", key)
	}
	assert.NotEqual(t, ValueError, e.Get(KeySystemName))
}

func TestReset_RandomizesSystemName(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Reset())
	first := e.Get(KeySystemName)

	require.NoError(t, e.Reset())
	second := e.Get(KeySystemName)

	assert.NotEqual(t, first, second)
	assert.Contains(t, first, "vos-")
}

func TestReset_FreshInstallCreatesStoreWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	e := New(path, logger.Nop())

	require.NoError(t, e.Reset())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "policy.yaml", entries[0].Name())
}

func TestReset_ReplacesExistingValues(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Set(KeyFileMgmt, ValueOff))

	require.NoError(t, e.Reset())
	assert.Equal(t, ValueOn, e.Get(KeyFileMgmt))
}

func TestSystemName_FallbackWithoutStore(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, "vosh", e.SystemName())
}
