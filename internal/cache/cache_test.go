package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyScoping(t *testing.T) {
	assert.Equal(t, "env:DB_HOST", EnvKey("DB_HOST"))
	assert.Equal(t, "proj-x:DB_HOST", Key("proj-x", "DB_HOST"))

	// distinct scopes never collide
	assert.NotEqual(t, Key("proj-x", "DB_HOST"), Key("proj-y", "DB_HOST"))
	assert.NotEqual(t, EnvKey("DB_HOST"), Key("proj-x", "DB_HOST"))
}

func TestLookupMiss(t *testing.T) {
	c := New()
	_, ok := c.Lookup(EnvKey("MISSING"))
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestInsertAndLookup(t *testing.T) {
	c := New()
	secret := Secret{Name: "DB_HOST", Value: "10.0.0.5", ProjectID: "proj-x", Source: SourceGCP}
	c.Insert(Key("proj-x", "DB_HOST"), secret)

	got, ok := c.Lookup(Key("proj-x", "DB_HOST"))
	require.True(t, ok)
	assert.Equal(t, secret, got)
	assert.Equal(t, 1, c.Len())
}

func TestInsertOverwrites(t *testing.T) {
	c := New()
	key := EnvKey("TOKEN")
	c.Insert(key, Secret{Name: "TOKEN", Value: "old", ProjectID: LocalProject, Source: SourceEnv})
	c.Insert(key, Secret{Name: "TOKEN", Value: "new", ProjectID: LocalProject, Source: SourceEnv})

	got, ok := c.Lookup(key)
	require.True(t, ok)
	assert.Equal(t, "new", got.Value)
	assert.Equal(t, 1, c.Len())
}
