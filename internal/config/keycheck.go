package config

import (
	"os"

	"github.com/xeipuuv/gojsonschema"
)

// serviceAccountKeySchema describes the fields every GCP service account key
// file carries. The check is advisory only: a key that fails it almost
// certainly will not authenticate, but the remote call is the authority.
const serviceAccountKeySchema = `{
  "type": "object",
  "required": ["type", "client_email", "private_key"],
  "properties": {
    "type": {"const": "service_account"},
    "project_id": {"type": "string"},
    "client_email": {"type": "string", "format": "email"},
    "private_key": {"type": "string"},
    "private_key_id": {"type": "string"},
    "token_uri": {"type": "string"}
  }
}`

// checkServiceAccountKey warns when the credential file does not look like a
// service account key. Validation errors never fail the load.
func (l *Loader) checkServiceAccountKey(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		l.logger.Debug("could not read service account key %s for inspection: %v", path, err)
		return
	}

	schemaLoader := gojsonschema.NewStringLoader(serviceAccountKeySchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		l.logger.Warn("service account file %s is not valid JSON; authentication will likely fail", path)
		return
	}

	if !result.Valid() {
		l.logger.Warn("service account file %s does not look like a service account key", path)
		for _, desc := range result.Errors() {
			l.logger.Debug("key validation: %s", desc)
		}
	}
}
