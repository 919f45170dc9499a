//go:build swagger
// +build swagger

// Package docs holds the general API annotations read by swag when the
// OpenAPI document is generated. Endpoint annotations live next to the
// handlers in interfaces/http/rest/handlers.
package docs

// @title Diagram Assistant API
// @version 1.0
// @description Sketch data models as node-and-edge diagrams, let the assistant draft them from a prompt, and turn them into TypeScript/SQL skeletons.

// @license.name MIT

// @host localhost:8080
// @BasePath /api/v1

// @tag.name sessions
// @tag.description Editor session lifecycle
// @tag.name diagram
// @tag.description Direct diagram edits
// @tag.name assistant
// @tag.description Prompt handling and code generation

// @schemes http https
