// Package docs provides the OpenAPI documentation of the live metrics API.
//
// Endpoint annotations live on the handlers in internal/api/handlers; this
// file carries the general API information. Run `go generate ./docs` after
// changing either to refresh docs.go, swagger.json and swagger.yaml.
//
//go:generate swag init -g swagger_docs.go -d ./,../internal/api/handlers -o . --parseInternal
package docs

// @title Live Metrics API
// @version 1.0
// @description Live performance metrics for monitored entities.
// @description
// @description Entity types declare their supported metrics in per-type YAML files.
// @description Live series are merged per bucket timestamp (epoch milliseconds) across
// @description the requested metrics. Capture windows never fail: unavailable bounds are null.
//
// @contact.name Live Metrics Maintainers
//
// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0.html
//
// @host localhost:8080
// @BasePath /api/v1
