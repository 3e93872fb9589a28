package endpoints

import "github.com/docrelay/docrelay/internal/api"

// All returns every endpoint in registration order. The static endpoint
// goes last so its wildcard route never shadows the API routes.
func All() []api.Endpoint {
	return []api.Endpoint{
		&HealthEndpoint{},
		&ProcessPDFEndpoint{},
		&ProcessDriveFileEndpoint{},
		&ListDriveFilesEndpoint{},
		&TranslateEndpoint{},
		&CreateDocEndpoint{},
		&StaticEndpoint{},
	}
}
