// Package resolve implements the secret resolution policy: where a secret
// value comes from, in what order the sources are consulted, and what gets
// cached.
//
// The ordering is environment-first:
//
//  1. A process environment variable named exactly like the secret wins
//     outright and skips all remote interaction. Local and dev values must
//     never pay the multi-second GCP auth handshake.
//  2. Otherwise the effective project id is resolved (override, env,
//     config); if none is found the sentinel "unknown" is used so the
//     remote attempt itself produces the reported failure.
//  3. A cache hit under {project}:{name} returns without a remote call.
//  4. A single remote fetch; success is cached under the project scope.
//  5. A failed fetch is absent. There is no second environment check after
//     a remote miss.
package resolve

import (
	"context"
	"os"

	"github.com/systmms/gcptoolkit/internal/cache"
	"github.com/systmms/gcptoolkit/internal/logging"
)

// UnknownProject is the sentinel used when no project id can be resolved.
// The remote fetch against it fails, and that failure is the reported error.
const UnknownProject = "unknown"

// SecretClient is the remote dependency the resolver drives. Satisfied by
// *gcpclient.Client; tests substitute counting doubles.
type SecretClient interface {
	ResolveProjectID(override string) (string, bool)
	Fetch(ctx context.Context, secretName, projectID string, quiet bool) (value string, ok bool)
}

// Resolver owns the cache and applies the resolution policy. Construct one
// per process and reuse it across lookups so the cache is effective.
type Resolver struct {
	cache  *cache.Cache
	client SecretClient
	logger *logging.Logger
}

// New creates a resolver around the given cache and client.
func New(c *cache.Cache, client SecretClient, logger *logging.Logger) *Resolver {
	return &Resolver{cache: c, client: client, logger: logger}
}

// Resolve returns the value for secretName, or ok=false if it cannot be
// found in the environment, the cache, or the remote service. The caller
// decides how to report absence.
func (r *Resolver) Resolve(ctx context.Context, secretName, projectOverride string, quiet bool) (string, bool) {
	// Environment fast path: authoritative, no remote interaction at all.
	if envValue := os.Getenv(secretName); envValue != "" {
		key := cache.EnvKey(secretName)
		if _, ok := r.cache.Lookup(key); !ok {
			r.cache.Insert(key, cache.Secret{
				Name:      secretName,
				Value:     envValue,
				ProjectID: cache.LocalProject,
				Source:    cache.SourceEnv,
			})
		}
		r.logger.Debug("resolved %s from environment", secretName)
		return envValue, true
	}

	projectID, ok := r.client.ResolveProjectID(projectOverride)
	if !ok {
		projectID = UnknownProject
	}

	key := cache.Key(projectID, secretName)
	if secret, ok := r.cache.Lookup(key); ok {
		r.logger.Debug("resolved %s from cache (%s)", secretName, key)
		return secret.Value, true
	}

	value, ok := r.client.Fetch(ctx, secretName, projectID, quiet)
	if !ok {
		return "", false
	}

	r.cache.Insert(key, cache.Secret{
		Name:      secretName,
		Value:     value,
		ProjectID: projectID,
		Source:    cache.SourceGCP,
	})
	r.logger.Debug("resolved %s from GCP Secret Manager (project %s)", secretName, projectID)
	return value, true
}
