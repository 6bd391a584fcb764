package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the font API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>typeshelf API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Every JSON endpoint answers with the Envelope schema; failures omit data.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "typeshelf", "version": "v1.0.0", "description": "Upload TrueType fonts and organize them into font groups." },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "Envelope": { "type": "object", "required": ["success","message"], "properties": { "success": {"type":"boolean"}, "message": {"type":"string"}, "data": {} } },
      "Font": { "type": "object", "properties": { "name": {"type":"string"}, "filename": {"type":"string"}, "path": {"type":"string"}, "uploadedAt": {"type":"string","format":"date-time"} } },
      "FontEntry": { "type": "object", "required": ["name","fontFile"], "properties": { "name": {"type":"string"}, "fontFile": {"type":"string"} } },
      "FontGroupInput": { "type": "object", "required": ["title","fonts"], "properties": { "title": {"type":"string"}, "fonts": {"type":"array","minItems":2,"items":{"$ref":"#/components/schemas/FontEntry"}} } },
      "FontGroup": { "type": "object", "properties": { "id": {"type":"string","format":"uuid"}, "title": {"type":"string"}, "fonts": {"type":"array","items":{"$ref":"#/components/schemas/FontEntry"}}, "createdAt": {"type":"string","format":"date-time"}, "updatedAt": {"type":"string","format":"date-time"} } }
    },
    "responses": {
      "Envelope": { "description": "envelope", "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Envelope"} } } },
      "MethodNotAllowed": { "description": "Method not allowed.", "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Envelope"} } } }
    }
  },
  "paths": {
    "/api/upload-font": {
      "post": {
        "summary": "Upload a .ttf font (max 10MB by default)",
        "security": [{"bearer": []}],
        "requestBody": { "content": { "multipart/form-data": { "schema": {"type":"object","properties":{"font":{"type":"string","format":"binary"}}} } } },
        "responses": { "200": {"$ref":"#/components/responses/Envelope"}, "400": {"$ref":"#/components/responses/Envelope"}, "405": {"$ref":"#/components/responses/MethodNotAllowed"} }
      }
    },
    "/api/get-fonts": {
      "get": { "summary": "List stored fonts", "responses": { "200": {"$ref":"#/components/responses/Envelope"} } }
    },
    "/api/delete-font": {
      "post": { "summary": "Delete a stored font", "security": [{"bearer": []}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"filename":{"type":"string"}}} } } }, "responses": { "200": {"$ref":"#/components/responses/Envelope"}, "400": {"$ref":"#/components/responses/Envelope"} } },
      "delete": { "summary": "Delete a stored font", "security": [{"bearer": []}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"filename":{"type":"string"}}} } } }, "responses": { "200": {"$ref":"#/components/responses/Envelope"}, "400": {"$ref":"#/components/responses/Envelope"} } }
    },
    "/api/serve-font": {
      "get": {
        "summary": "Raw font bytes",
        "parameters": [{ "name": "filename", "in": "query", "required": true, "schema": {"type":"string"} }],
        "responses": { "200": { "description": "font bytes", "content": { "font/ttf": {} } }, "400": {"$ref":"#/components/responses/Envelope"}, "404": {"$ref":"#/components/responses/Envelope"} }
      }
    },
    "/api/font-faces.css": {
      "get": { "summary": "@font-face rules for every stored font", "responses": { "200": { "description": "stylesheet", "content": { "text/css": {} } } } }
    },
    "/api/create-font-group": {
      "post": { "summary": "Create a font group", "security": [{"bearer": []}], "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/FontGroupInput"} } } }, "responses": { "200": {"$ref":"#/components/responses/Envelope"}, "400": {"$ref":"#/components/responses/Envelope"} } }
    },
    "/api/get-font-groups": {
      "get": { "summary": "List font groups in insertion order", "responses": { "200": {"$ref":"#/components/responses/Envelope"} } }
    },
    "/api/font-groups/{id}": {
      "get": { "summary": "Get one font group", "parameters": [{ "name": "id", "in": "path", "required": true, "schema": {"type":"string"} }], "responses": { "200": {"$ref":"#/components/responses/Envelope"}, "400": {"$ref":"#/components/responses/Envelope"} } }
    },
    "/api/update-font-group": {
      "post": { "summary": "Replace title and fonts of a group", "security": [{"bearer": []}], "responses": { "200": {"$ref":"#/components/responses/Envelope"}, "400": {"$ref":"#/components/responses/Envelope"} } },
      "put": { "summary": "Replace title and fonts of a group", "security": [{"bearer": []}], "responses": { "200": {"$ref":"#/components/responses/Envelope"}, "400": {"$ref":"#/components/responses/Envelope"} } }
    },
    "/api/delete-font-group": {
      "post": { "summary": "Delete a font group", "security": [{"bearer": []}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"id":{"type":"string"}}} } } }, "responses": { "200": {"$ref":"#/components/responses/Envelope"}, "400": {"$ref":"#/components/responses/Envelope"} } },
      "delete": { "summary": "Delete a font group", "security": [{"bearer": []}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"id":{"type":"string"}}} } } }, "responses": { "200": {"$ref":"#/components/responses/Envelope"}, "400": {"$ref":"#/components/responses/Envelope"} } }
    },
    "/uploads/{filename}": {
      "get": { "summary": "Public font path (may redirect to object storage)", "parameters": [{ "name": "filename", "in": "path", "required": true, "schema": {"type":"string"} }], "responses": { "200": { "description": "font bytes" }, "307": { "description": "presigned redirect" }, "404": {"$ref":"#/components/responses/Envelope"} } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
