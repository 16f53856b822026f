// Package docs holds the generated OpenAPI document served by swaggerkit
// regenerate, then build with -tags swag
package docs

//go:generate swag init --v3.1 --instanceName api -d ../../../../cmd/scheduling-api,../ -g main.go -o . --parseInternal --parseDependency
