// Package cache holds secrets already resolved during this process.
//
// The cache is process-lifetime only: there is no eviction, TTL, or size
// bound, which is acceptable because a CLI invocation is short-lived. It is
// not synchronized; the CLI is single-threaded. Anything embedding this
// cache in a long-running service must add its own locking.
package cache

// Source records where a secret value came from.
type Source string

const (
	// SourceEnv marks values read from the process environment.
	SourceEnv Source = "env"
	// SourceGCP marks values fetched from GCP Secret Manager.
	SourceGCP Source = "gcp"
)

// LocalProject is the project sentinel for environment-sourced secrets,
// which have no GCP project.
const LocalProject = "local"

// Secret is a resolved secret with its provenance. Entries are never mutated
// after insertion.
type Secret struct {
	Name      string
	Value     string
	ProjectID string
	Source    Source
}

// Key builds the cache key for a secret. Environment-sourced entries live
// under the "env" scope; remote entries are scoped by project id, so the
// same name in two projects never collides.
func Key(scope, name string) string {
	return scope + ":" + name
}

// EnvKey builds the cache key for an environment-sourced secret.
func EnvKey(name string) string {
	return Key(string(SourceEnv), name)
}

// Cache is an explicit in-memory secret store, constructed once per process
// and passed to the resolver. Fresh instances give tests full isolation.
type Cache struct {
	entries map[string]Secret
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]Secret)}
}

// Lookup returns the cached secret for key, if any.
func (c *Cache) Lookup(key string) (Secret, bool) {
	secret, ok := c.entries[key]
	return secret, ok
}

// Insert stores a secret under key, overwriting any previous entry.
func (c *Cache) Insert(key string, secret Secret) {
	c.entries[key] = secret
}

// Len reports the number of cached secrets.
func (c *Cache) Len() int {
	return len(c.entries)
}
