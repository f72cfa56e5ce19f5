// Package config locates, parses, and validates the gcptoolkit config file.
//
// The config file is YAML:
//
//	authentication:
//	  type: service_account
//	  service_account_path: /path/to/service-account.json
//	gcp:
//	  project_id: my-project
//
// The file is re-read and re-validated on every Load call. There is no
// module-level caching, so pointing the config_path preference at a
// different file takes effect immediately within the same process.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	gcperrors "github.com/systmms/gcptoolkit/internal/errors"
	"github.com/systmms/gcptoolkit/internal/logging"
	"github.com/systmms/gcptoolkit/internal/preferences"
)

const (
	// EnvConfigPath overrides the config file location directly.
	EnvConfigPath = "GCPTOOLKIT_CONFIG"

	// EnvCredentials is the well-known variable the GCP SDK reads for
	// service-account credentials. Set as a side effect of a successful Load.
	EnvCredentials = "GOOGLE_APPLICATION_CREDENTIALS"

	// AuthTypeServiceAccount is the only supported authentication type.
	AuthTypeServiceAccount = "service_account"

	defaultConfigFile = "config.yml"
)

// PathSource identifies where the effective config path came from.
type PathSource string

const (
	SourceEnvironment PathSource = "environment"
	SourcePreference  PathSource = "preference"
	SourceDefault     PathSource = "default"
)

// Record is the validated configuration.
type Record struct {
	Authentication Authentication `yaml:"authentication"`
	GCP            GCP            `yaml:"gcp"`
}

// Authentication holds the credential settings.
type Authentication struct {
	Type               string `yaml:"type"`
	ServiceAccountPath string `yaml:"service_account_path"`
}

// GCP holds the provider settings.
type GCP struct {
	ProjectID string `yaml:"project_id"`
}

// rawRecord mirrors Record with pointer sections so a missing section can be
// told apart from an empty one during validation.
type rawRecord struct {
	Authentication *Authentication `yaml:"authentication"`
	GCP            *GCP            `yaml:"gcp"`
}

// Loader resolves the config path and loads the config record. It holds no
// state between calls beyond its dependencies.
type Loader struct {
	prefs      *preferences.Store
	logger     *logging.Logger
	defaultDir string
}

// NewLoader creates a loader using the standard per-user config directory as
// the default config location.
func NewLoader(prefs *preferences.Store, logger *logging.Logger) (*Loader, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, gcperrors.UserError{
			Message:    "Unable to locate the user config directory",
			Details:    err.Error(),
			Suggestion: "Set the HOME environment variable",
			Err:        err,
		}
	}
	return NewLoaderAt(filepath.Join(base, "gcptoolkit"), prefs, logger), nil
}

// NewLoaderAt creates a loader with an explicit default directory. Tests use
// this to point at a temporary directory.
func NewLoaderAt(defaultDir string, prefs *preferences.Store, logger *logging.Logger) *Loader {
	return &Loader{prefs: prefs, logger: logger, defaultDir: defaultDir}
}

// DefaultPath returns the fallback config location used when neither the
// environment override nor the preference is set.
func (l *Loader) DefaultPath() string {
	return filepath.Join(l.defaultDir, defaultConfigFile)
}

// ResolvePath determines the config file path. Priority: environment
// override, then the config_path preference, then the default location. A
// candidate only wins if the file actually exists; otherwise the search
// continues and the miss is reported in the final error.
func (l *Loader) ResolvePath() (string, PathSource, error) {
	var searched []string

	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		if fileExists(envPath) {
			l.logger.Debug("using config path from %s: %s", EnvConfigPath, envPath)
			return envPath, SourceEnvironment, nil
		}
		searched = append(searched, fmt.Sprintf("%s (%s)", envPath, EnvConfigPath))
	}

	if prefPath, ok := l.prefs.Get(preferences.KeyConfigPath); ok {
		if fileExists(prefPath) {
			l.logger.Debug("using config path from preference: %s", prefPath)
			return prefPath, SourcePreference, nil
		}
		searched = append(searched, prefPath+" (preference)")
	}

	defaultPath := l.DefaultPath()
	if fileExists(defaultPath) {
		l.logger.Debug("using default config path: %s", defaultPath)
		return defaultPath, SourceDefault, nil
	}
	searched = append(searched, defaultPath+" (default)")

	return "", "", gcperrors.ConfigNotFoundError{Searched: searched}
}

// EffectivePath reports the path that would be consulted first and whether
// the file exists there. Unlike ResolvePath it never fails; `config show`
// uses it to explain the current state.
func (l *Loader) EffectivePath() (string, PathSource, bool) {
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		return envPath, SourceEnvironment, fileExists(envPath)
	}
	if prefPath, ok := l.prefs.Get(preferences.KeyConfigPath); ok {
		return prefPath, SourcePreference, fileExists(prefPath)
	}
	defaultPath := l.DefaultPath()
	return defaultPath, SourceDefault, fileExists(defaultPath)
}

// Load resolves, parses, and validates the config file. On success the
// service account path is exported as GOOGLE_APPLICATION_CREDENTIALS for the
// GCP SDK to pick up.
func (l *Loader) Load() (*Record, error) {
	path, source, err := l.ResolvePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gcperrors.ConfigInvalidError{
			Path:    path,
			Message: "failed to read config file",
			Detail:  err.Error(),
		}
	}

	var raw rawRecord
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, gcperrors.ConfigInvalidError{
			Path:    path,
			Message: "failed to parse YAML",
			Detail:  err.Error(),
		}
	}

	record, err := l.validate(path, raw)
	if err != nil {
		return nil, err
	}

	l.checkServiceAccountKey(record.Authentication.ServiceAccountPath)

	if err := os.Setenv(EnvCredentials, record.Authentication.ServiceAccountPath); err != nil {
		return nil, gcperrors.UserError{
			Message: "Failed to set " + EnvCredentials,
			Err:     err,
		}
	}

	l.logger.Debug("configuration loaded from %s (source: %s)", path, source)
	l.logger.Debug("using service account: %s", record.Authentication.ServiceAccountPath)
	l.logger.Debug("using project ID: %s", record.GCP.ProjectID)

	return record, nil
}

func (l *Loader) validate(path string, raw rawRecord) (*Record, error) {
	if raw.Authentication == nil && raw.GCP == nil {
		return nil, gcperrors.ConfigInvalidError{
			Path:    path,
			Message: "config file is empty",
			Detail:  "Populate it with authentication and gcp sections",
		}
	}

	if raw.Authentication == nil {
		return nil, gcperrors.ConfigInvalidError{
			Path:    path,
			Message: "missing 'authentication' section",
			Detail: "Required format:\n" +
				"authentication:\n" +
				"  type: service_account\n" +
				"  service_account_path: /path/to/service-account.json",
		}
	}

	auth := raw.Authentication
	if auth.Type == "" {
		return nil, gcperrors.ConfigInvalidError{
			Path:    path,
			Message: "missing 'authentication.type'",
			Detail:  "Only 'service_account' is supported",
		}
	}
	if auth.Type != AuthTypeServiceAccount {
		return nil, gcperrors.ConfigInvalidError{
			Path:    path,
			Message: fmt.Sprintf("Unsupported authentication type: %s", auth.Type),
			Detail:  "Only 'service_account' is supported",
		}
	}

	if auth.ServiceAccountPath == "" {
		return nil, gcperrors.ConfigInvalidError{
			Path:    path,
			Message: "missing 'authentication.service_account_path'",
			Detail:  "Specify the absolute path to your service account JSON file",
		}
	}

	info, err := os.Stat(auth.ServiceAccountPath)
	if err != nil {
		return nil, gcperrors.ConfigInvalidError{
			Path:    path,
			Message: fmt.Sprintf("Service account file not found at: %s", auth.ServiceAccountPath),
			Detail:  "Ensure the file exists or update the path in " + path,
		}
	}
	if info.IsDir() {
		return nil, gcperrors.ConfigInvalidError{
			Path:    path,
			Message: fmt.Sprintf("Service account path is not a file: %s", auth.ServiceAccountPath),
		}
	}

	if raw.GCP == nil {
		return nil, gcperrors.ConfigInvalidError{
			Path:    path,
			Message: "missing 'gcp' section",
			Detail: "Required format:\n" +
				"gcp:\n" +
				"  project_id: your-project-id",
		}
	}
	if raw.GCP.ProjectID == "" {
		return nil, gcperrors.ConfigInvalidError{
			Path:    path,
			Message: "missing 'gcp.project_id'",
			Detail:  "Set project_id to the GCP project that holds your secrets",
		}
	}

	return &Record{Authentication: *auth, GCP: *raw.GCP}, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
