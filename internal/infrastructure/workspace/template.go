package workspace

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const yamlTemplate = `# monoenv configuration
#
# Shared variables can be referenced from any app with ${shared:NAME}.
shared:
  API_URL: https://api.example.com

apps:
  backend:
    # Default output directory for every environment of this app
    path: apps/backend
    environments:
      local:
        variables:
          PORT:
            value: 3000
            comment: Port the HTTP server listens on
            type: number
          API_ENDPOINT: ${shared:API_URL}/v1
          DEBUG: true
      production:
        variables:
          PORT: 80
          API_ENDPOINT: ${shared:API_URL}/v1
          DEBUG: false

  frontend:
    environments:
      # Legacy form: a flat map of variables
      local:
        NEXT_PUBLIC_API_URL: ${shared:API_URL}
`

const jsonTemplate = `{
  // Shared variables can be referenced from any app with ${shared:NAME}.
  "shared": {
    "API_URL": "https://api.example.com"
  },
  "apps": {
    "backend": {
      "path": "apps/backend",
      "environments": {
        "local": {
          "variables": {
            "PORT": { "value": 3000, "comment": "Port the HTTP server listens on", "type": "number" },
            "API_ENDPOINT": "${shared:API_URL}/v1",
            "DEBUG": true
          }
        },
        "production": {
          "variables": {
            "PORT": 80,
            "API_ENDPOINT": "${shared:API_URL}/v1",
            "DEBUG": false
          }
        }
      }
    },
    "frontend": {
      "environments": {
        "local": {
          "NEXT_PUBLIC_API_URL": "${shared:API_URL}"
        }
      }
    }
  }
}
`

// TemplateFor returns the starter document matching the extension of path
func TemplateFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return jsonTemplate
	default:
		return yamlTemplate
	}
}

// Templates bootstraps configuration documents on a filesystem
type Templates struct {
	fs afero.Fs
}

// NewTemplates creates a template writer over fs
func NewTemplates(fs afero.Fs) *Templates {
	return &Templates{fs: fs}
}

// WriteTemplate writes the starter document; see WriteTemplate
func (t *Templates) WriteTemplate(path string) error {
	return WriteTemplate(t.fs, path)
}
