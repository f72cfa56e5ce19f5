// Package gcpclient wraps GCP Secret Manager access behind the narrow
// surface the resolver needs: project-id discovery and a single-shot fetch.
//
// Fetch failures never cross the policy boundary as errors; they come back
// as absent so the resolver and CLI can report "not found" uniformly.
package gcpclient

import (
	"context"
	"fmt"
	"os"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/systmms/gcptoolkit/internal/config"
	gcperrors "github.com/systmms/gcptoolkit/internal/errors"
	"github.com/systmms/gcptoolkit/internal/logging"
)

// Environment variables that override the project id, checked in order.
const (
	EnvProject      = "GCP_PROJECT"
	EnvCloudProject = "GOOGLE_CLOUD_PROJECT"
)

// secretAccessor is the subset of the Secret Manager client the toolkit
// uses. *secretmanager.Client satisfies it; tests substitute a fake.
type secretAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
	Close() error
}

// Client resolves project ids and fetches secret versions. The underlying
// SDK client is created lazily on the first fetch, so invocations that never
// reach GCP (environment fast path) pay no auth cost.
type Client struct {
	loader      *config.Loader
	logger      *logging.Logger
	accessor    secretAccessor
	newAccessor func(ctx context.Context) (secretAccessor, error)
}

// New creates a client that authenticates from the resolved config's
// service account file, falling back to application default credentials
// when no config can be loaded.
func New(loader *config.Loader, logger *logging.Logger) *Client {
	c := &Client{loader: loader, logger: logger}
	c.newAccessor = c.dialSecretManager
	return c
}

// NewWithAccessor creates a client backed by the given accessor. Tests use
// this to avoid real network and auth.
func NewWithAccessor(loader *config.Loader, logger *logging.Logger, accessor secretAccessor) *Client {
	return &Client{loader: loader, logger: logger, accessor: accessor}
}

func (c *Client) dialSecretManager(ctx context.Context) (secretAccessor, error) {
	var opts []option.ClientOption

	record, err := c.loader.Load()
	if err != nil {
		// No usable config: let the SDK try application default credentials.
		c.logger.Debug("no config for credentials, using ADC: %v", err)
	} else {
		opts = append(opts, option.WithCredentialsFile(record.Authentication.ServiceAccountPath))
	}

	return secretmanager.NewClient(ctx, opts...)
}

// ResolveProjectID determines the effective project id. Priority: the
// explicit override, then GCP_PROJECT, then GOOGLE_CLOUD_PROJECT, then the
// config file. Returns ok=false when no source yields one; that is not an
// error here, the caller decides how to proceed.
func (c *Client) ResolveProjectID(override string) (string, bool) {
	if override != "" {
		return override, true
	}

	if projectID := os.Getenv(EnvProject); projectID != "" {
		c.logger.Debug("using project id from %s: %s", EnvProject, projectID)
		return projectID, true
	}
	if projectID := os.Getenv(EnvCloudProject); projectID != "" {
		c.logger.Debug("using project id from %s: %s", EnvCloudProject, projectID)
		return projectID, true
	}

	record, err := c.loader.Load()
	if err != nil {
		c.logger.Debug("no project id from config: %v", err)
		return "", false
	}

	c.logger.Debug("using project id from config: %s", record.GCP.ProjectID)
	return record.GCP.ProjectID, true
}

// Fetch reads the latest version of the named secret under projectID. One
// request, no retries. On any failure it logs a warning (suppressed by
// quiet) and reports absent. Caching is the resolver's job, not ours.
func (c *Client) Fetch(ctx context.Context, secretName, projectID string, quiet bool) (string, bool) {
	accessor, err := c.ensureAccessor(ctx)
	if err != nil {
		if !quiet {
			c.logger.Warn("GCP client setup failed for %s: %v", secretName, err)
		}
		return "", false
	}

	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secretName),
	}

	resp, err := accessor.AccessSecretVersion(ctx, req)
	if err != nil {
		if !quiet {
			c.logger.Warn("GCP fetch failed for %s: %v", secretName, err)
			if suggestion := fetchSuggestion(err); suggestion != "" {
				c.logger.Warn("💡 %s", suggestion)
			}
		}
		return "", false
	}

	if resp.GetPayload() == nil || resp.GetPayload().GetData() == nil {
		if !quiet {
			c.logger.Warn("secret %s has no payload", secretName)
		}
		return "", false
	}

	return string(resp.GetPayload().GetData()), true
}

// Close releases the underlying SDK client, if one was ever created.
func (c *Client) Close() error {
	if c.accessor == nil {
		return nil
	}
	return c.accessor.Close()
}

func (c *Client) ensureAccessor(ctx context.Context) (secretAccessor, error) {
	if c.accessor != nil {
		return c.accessor, nil
	}
	accessor, err := c.newAccessor(ctx)
	if err != nil {
		return nil, err
	}
	c.accessor = accessor
	return accessor, nil
}

// fetchSuggestion maps a fetch failure to an actionable hint, preferring the
// gRPC status code over string matching.
func fetchSuggestion(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return gcperrors.GCPSuggestion(err)
	}

	switch st.Code() {
	case codes.NotFound:
		return "Verify the secret name and project ID. Check that the secret exists"
	case codes.PermissionDenied:
		return "Check IAM permissions: secretmanager.secrets.get, secretmanager.versions.access"
	case codes.Unauthenticated:
		return "Check authentication: verify the service account file in your config"
	case codes.InvalidArgument:
		return "Check the secret name format"
	case codes.ResourceExhausted:
		return "Request was throttled. Wait a moment and try again"
	case codes.DeadlineExceeded, codes.Unavailable:
		return "The request timed out. Check your network connection"
	default:
		return gcperrors.GCPSuggestion(err)
	}
}
